package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/2beens/fitcourses/internal/telemetry/tracing"
	"github.com/2beens/fitcourses/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type userCtxKey struct{}

//go:generate mockgen -source=$GOFILE -destination=middleware_mocks_test.go -package=middleware

type loginChecker interface {
	// UserForToken returns the user the token was issued to.
	UserForToken(ctx context.Context, token string) (string, bool)
}

// AuthMiddlewareHandler lets requests to public routes through, all others
// need a valid bearer token. Routes are matched by their mux route name.
type AuthMiddlewareHandler struct {
	loginChecker loginChecker
	publicRoutes map[string]bool
}

func NewAuthMiddlewareHandler(loginChecker loginChecker, publicRoutes ...string) *AuthMiddlewareHandler {
	h := &AuthMiddlewareHandler{
		loginChecker: loginChecker,
		publicRoutes: make(map[string]bool, len(publicRoutes)),
	}
	for _, name := range publicRoutes {
		h.publicRoutes[name] = true
	}
	return h
}

func (h *AuthMiddlewareHandler) routeIsPublic(r *http.Request) bool {
	route := mux.CurrentRoute(r)
	if route == nil {
		return false
	}
	return h.publicRoutes[route.GetName()]
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.routeIsPublic(r) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			token, found := BearerToken(r)
			if !found {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONMessage(w, http.StatusUnauthorized, "Нет авторизации")
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			user, ok := h.loginChecker.UserForToken(ctx, token)
			if !ok {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONMessage(w, http.StatusUnauthorized, "Невалидный токен")
				span.SetStatus(codes.Error, "not-logged")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey{}, user)))
		})
	}
}

// BearerToken reads the token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// UserFromContext returns the user set by AuthCheck.
func UserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(userCtxKey{}).(string)
	return user, ok && user != ""
}
