package fakeapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitcourses/internal/middleware"
	"github.com/2beens/fitcourses/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"golang.org/x/time/rate"
)

// names of the routes reachable without a token
const (
	routeRegister    = "register"
	routeLogin       = "login"
	routeListCourses = "list-courses"
	routeGetCourse   = "get-course"
)

type ServerParams struct {
	State   *State
	Metrics *metrics.Manager
	// AllowedOrigins for browser clients, "*" for any
	AllowedOrigins []string
	// RateLimit in requests per second, 0 disables limiting
	RateLimit float64
	RateBurst int
	// PromRegistry is served on MetricsAddr when both are set
	PromRegistry *prometheus.Registry
	MetricsAddr  string
}

// Server is an in-memory implementation of the fitness courses REST API,
// used in tests and for local development.
type Server struct {
	state          *State
	metricsManager *metrics.Manager
	router         *mux.Router
	httpServer     *http.Server

	promRegistry      *prometheus.Registry
	metricsAddr       string
	metricsHttpServer *http.Server
}

func NewServer(params ServerParams) *Server {
	metricsManager := params.Metrics
	if metricsManager == nil {
		metricsManager = metrics.NewTestManager()
	}

	s := &Server{
		state:          params.State,
		metricsManager: metricsManager,
		promRegistry:   params.PromRegistry,
		metricsAddr:    params.MetricsAddr,
	}
	s.router = s.routerSetup(params)
	return s
}

func (s *Server) routerSetup(params ServerParams) *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fakeapi-router"))

	NewHandler(s.state).SetupRoutes(r)

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.state,
		routeRegister,
		routeLogin,
		routeListCourses,
		routeGetCourse,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	if params.RateLimit > 0 {
		burst := params.RateBurst
		if burst <= 0 {
			burst = 1
		}
		r.Use(middleware.RateLimit(rate.NewLimiter(rate.Limit(params.RateLimit), burst)))
	}
	r.Use(middleware.Cors(params.AllowedOrigins...))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

// Handler is the API router, ready to be mounted on an httptest server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	go func() {
		log.Infof(" > fake api listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("fake api, listen and serve: %s", err)
		}
	}()

	if s.promRegistry == nil || s.metricsAddr == "" {
		return
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	s.metricsHttpServer = &http.Server{
		Addr:              s.metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > metrics listening on: [%s]", s.metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server, listen and serve: %s", err)
		}
	}()
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	if s.httpServer == nil {
		return
	}

	ctx, timeoutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown fake api server")
	}
	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics server")
		}
	}
	log.Warnln("fake api shut down")
}
