package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitcourses/internal/api"
	"github.com/2beens/fitcourses/internal/models"
	"github.com/2beens/fitcourses/internal/storage"
	"github.com/2beens/fitcourses/internal/telemetry/metrics"
	"github.com/2beens/fitcourses/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const (
	KeyToken    = "token"
	KeyEmail    = "email"
	KeyAuthTime = "auth_time"

	// sessions older than this get a warning, the server decides on expiry
	ExpiryWarningAge = 6 * 24 * time.Hour

	messageWrongPassword = "wrong password, please try again"
	messageEmailTaken    = "this email is already in use, try logging in"
	messageRegistered    = "registration successful, you can log in now"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=auth

type transport interface {
	Post(ctx context.Context, endpoint string, body any, opts api.RequestOptions) (*api.Response, error)
}

type cacheClearer interface {
	Clear(ctx context.Context, pattern string) error
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	Success  bool      `json:"success"`
	Email    string    `json:"email,omitempty"`
	Token    string    `json:"token,omitempty"`
	IssuedAt time.Time `json:"issuedAt,omitzero"`
	Error    string    `json:"error,omitempty"`
	Field    string    `json:"field,omitempty"`
	Message  string    `json:"message,omitempty"`
}

type Status struct {
	IsAuthenticated bool      `json:"isAuthenticated"`
	Email           string    `json:"email,omitempty"`
	Token           string    `json:"token,omitempty"`
	IssuedAt        time.Time `json:"issuedAt,omitzero"`
	ExpiresSoon     bool      `json:"expiresSoon,omitempty"`
}

// SessionStore owns the persisted session: token, email and issue time.
type SessionStore struct {
	store     storage.Store
	transport transport
	metrics   *metrics.Manager
	// cached responses owned by whoever is logged in
	userCache         cacheClearer
	userCachePatterns []string
	// ability to inject the clock (for unit testing)
	NowFunc func() time.Time
}

func NewSessionStore(store storage.Store, transport transport, metricsManager *metrics.Manager) *SessionStore {
	return &SessionStore{
		store:     store,
		transport: transport,
		metrics:   metricsManager,
		NowFunc:   time.Now,
	}
}

// ClearOnLogin makes every successful login drop the cache entries matching
// patterns, so the previous user's responses are never served to the next one.
func (s *SessionStore) ClearOnLogin(c cacheClearer, patterns ...string) {
	s.userCache = c
	s.userCachePatterns = patterns
}

func (s *SessionStore) Login(ctx context.Context, email, password string) (res *AuthResult) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.login")
	defer func() {
		s.metrics.CounterAuthEvents.WithLabelValues("login", outcome(res)).Inc()
		tracing.EndSpanWithErrCheck(span, resultErr(res))
	}()

	if err := ValidateCredentials(email, password); err != nil {
		return validationFailure(err)
	}

	resp, err := s.transport.Post(ctx, "/auth/login", Credentials{Email: email, Password: password}, api.RequestOptions{})
	if err != nil {
		log.Debugf("login [%s] failed: %s", email, err)
		msg := api.MessageOf(err)
		if emptyBodyWithStatus(err, http.StatusUnauthorized) {
			msg = messageWrongPassword
		}
		return &AuthResult{
			Error: msg,
			Field: fieldFor(err, loginFields),
		}
	}

	var authResp models.AuthResponse
	if err := json.Unmarshal(resp.Data, &authResp); err != nil || authResp.Token == "" {
		return &AuthResult{
			Error: messageWrongPassword,
			Field: FieldPassword,
		}
	}

	issuedAt := s.NowFunc()
	if err := s.persist(ctx, authResp.Token, email, issuedAt); err != nil {
		log.Errorf("persist session for [%s]: %s", email, err)
		return &AuthResult{
			Error: "failed to save the session: " + err.Error(),
			Field: FieldGeneral,
		}
	}

	s.clearUserCache(ctx)

	log.Debugf("user [%s] logged in", email)
	return &AuthResult{
		Success:  true,
		Email:    email,
		Token:    authResp.Token,
		IssuedAt: issuedAt,
	}
}

// Register creates the account. It does not log the user in.
func (s *SessionStore) Register(ctx context.Context, email, password string) (res *AuthResult) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.register")
	defer func() {
		s.metrics.CounterAuthEvents.WithLabelValues("register", outcome(res)).Inc()
		tracing.EndSpanWithErrCheck(span, resultErr(res))
	}()

	if err := ValidateCredentials(email, password); err != nil {
		return validationFailure(err)
	}

	if _, err := s.transport.Post(ctx, "/auth/register", Credentials{Email: email, Password: password}, api.RequestOptions{}); err != nil {
		log.Debugf("register [%s] failed: %s", email, err)
		msg := api.MessageOf(err)
		if emptyBodyWithStatus(err, http.StatusConflict) {
			msg = messageEmailTaken
		}
		return &AuthResult{
			Error: msg,
			Field: fieldFor(err, registerFields),
		}
	}

	return &AuthResult{
		Success: true,
		Email:   email,
		Message: messageRegistered,
	}
}

// Logout forgets the session and nothing else.
func (s *SessionStore) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeyToken, KeyEmail, KeyAuthTime); err != nil {
		s.metrics.CounterAuthEvents.WithLabelValues("logout", "failure").Inc()
		return fmt.Errorf("delete session: %w", err)
	}
	s.metrics.CounterAuthEvents.WithLabelValues("logout", "success").Inc()
	return nil
}

func (s *SessionStore) CheckAuthStatus(ctx context.Context) Status {
	token, tokenFound, tokenErr := s.store.Get(ctx, KeyToken)
	email, emailFound, emailErr := s.store.Get(ctx, KeyEmail)
	if err := multierr.Combine(tokenErr, emailErr); err != nil {
		log.Errorf("read session: %s", err)
		return Status{}
	}
	if !tokenFound || token == "" || !emailFound || email == "" {
		return Status{}
	}

	status := Status{
		IsAuthenticated: true,
		Email:           email,
		Token:           token,
	}

	authTime, found, err := s.store.Get(ctx, KeyAuthTime)
	if err != nil || !found {
		return status
	}
	issuedAtMillis, err := strconv.ParseInt(authTime, 10, 64)
	if err != nil {
		log.Warnf("invalid session issue time [%s]", authTime)
		return status
	}

	status.IssuedAt = time.UnixMilli(issuedAtMillis)
	if s.NowFunc().Sub(status.IssuedAt) > ExpiryWarningAge {
		status.ExpiresSoon = true
		log.Warnf("session of [%s] was issued at %s and expires soon", email, status.IssuedAt.Format(time.RFC3339))
	}

	return status
}

func (s *SessionStore) Token(ctx context.Context) (string, bool) {
	return NewTokenSource(s.store).Token(ctx)
}

func (s *SessionStore) clearUserCache(ctx context.Context) {
	if s.userCache == nil {
		return
	}
	for _, pattern := range s.userCachePatterns {
		if err := s.userCache.Clear(ctx, pattern); err != nil {
			log.Errorf("clear cached [%s] after login: %s", pattern, err)
		}
	}
}

func (s *SessionStore) persist(ctx context.Context, token, email string, issuedAt time.Time) error {
	if err := s.store.Set(ctx, KeyToken, token); err != nil {
		return err
	}
	if err := s.store.Set(ctx, KeyEmail, email); err != nil {
		return err
	}
	return s.store.Set(ctx, KeyAuthTime, strconv.FormatInt(issuedAt.UnixMilli(), 10))
}

// TokenSource reads the bearer token straight from the client state, it is
// handed to the transport which the session store itself depends on.
type TokenSource struct {
	store storage.Store
}

func NewTokenSource(store storage.Store) *TokenSource {
	return &TokenSource{store: store}
}

func (ts *TokenSource) Token(ctx context.Context) (string, bool) {
	token, found, err := ts.store.Get(ctx, KeyToken)
	if err != nil {
		log.Errorf("read session token: %s", err)
		return "", false
	}
	return token, found && token != ""
}

// Best effort status -> field mapping. The API rarely reports the field, so
// these are approximations.
var (
	loginFields = map[int]string{
		http.StatusBadRequest:   FieldGeneral,
		http.StatusUnauthorized: FieldPassword,
		http.StatusForbidden:    FieldPassword,
		http.StatusNotFound:     FieldEmail,
	}
	registerFields = map[int]string{
		http.StatusBadRequest: FieldGeneral,
		http.StatusConflict:   FieldEmail,
	}
)

func fieldFor(err error, byStatus map[int]string) string {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return FieldGeneral
	}
	switch f := apiErr.Field(); f {
	case FieldEmail, FieldPassword:
		return f
	}
	if f, ok := byStatus[apiErr.Status]; ok {
		return f
	}
	return FieldGeneral
}

// emptyBodyWithStatus reports a failure with the given status where the server
// gave no explanation.
func emptyBodyWithStatus(err error, status int) bool {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != status {
		return false
	}
	return len(apiErr.Data) == 0 || string(apiErr.Data) == "null"
}

func validationFailure(err error) *AuthResult {
	res := &AuthResult{
		Error: err.Error(),
		Field: FieldGeneral,
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		res.Error = vErr.Message
		res.Field = vErr.Field
	}
	return res
}

func outcome(res *AuthResult) string {
	if res != nil && res.Success {
		return "success"
	}
	return "failure"
}

func resultErr(res *AuthResult) error {
	if res == nil || res.Success {
		return nil
	}
	return errors.New(res.Error)
}
