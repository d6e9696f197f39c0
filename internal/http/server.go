package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cofrinho/internal/auth"
	"cofrinho/internal/core"
	"cofrinho/internal/goals"
	"cofrinho/internal/ledger"
	applog "cofrinho/internal/log"
	"cofrinho/internal/middleware/ratelimit"
	"cofrinho/internal/middleware/security"
	"cofrinho/internal/middleware/trace"
	"cofrinho/internal/notify"
	"cofrinho/internal/profile"
	"cofrinho/internal/quiz"
	"cofrinho/internal/reports"
)

const defaultRequestTimeout = 7 * time.Second

// Deps are the collaborators of the server. Hub and Ping are optional.
type Deps struct {
	Logger   *applog.Logger
	Verifier *auth.Verifier

	Profiles *profile.Service
	Ledger   *ledger.Service
	Goals    *goals.Service
	Quiz     *quiz.Service
	Reports  *reports.Service

	Hub  *notify.Hub
	Ping func(context.Context) error

	Clock          core.Clock
	RequestTimeout time.Duration
	RateLimitRPM   int
	AllowedOrigins []string
}

type Server struct {
	http.Server

	logger   *applog.Logger
	verifier *auth.Verifier
	profiles *profile.Service
	ledger   *ledger.Service
	goals    *goals.Service
	quiz     *quiz.Service
	reports  *reports.Service
	hub      *notify.Hub
	ping     func(context.Context) error
	clock    core.Clock

	requestTimeout time.Duration
	limiter        *ratelimit.Limiter
	detector       *security.Detector
	tracer         *trace.Middleware

	stopBackground context.CancelFunc
	shutdownOnce   sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, d Deps) *Server {
	if d.Logger == nil {
		d.Logger = applog.New(applog.DefaultConfig())
	}
	if d.Clock == nil {
		d.Clock = core.SystemClock
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = defaultRequestTimeout
	}

	rlConfig := ratelimit.DefaultConfig()
	if d.RateLimitRPM > 0 {
		rlConfig.RequestsPerMinute = d.RateLimitRPM
	}

	logger := d.Logger.WithComponent(applog.ComponentHTTP)
	detector := security.NewDetector()

	s := &Server{
		Server:         http.Server{Addr: addr},
		logger:         logger,
		verifier:       d.Verifier,
		profiles:       d.Profiles,
		ledger:         d.Ledger,
		goals:          d.Goals,
		quiz:           d.Quiz,
		reports:        d.Reports,
		hub:            d.Hub,
		ping:           d.Ping,
		clock:          d.Clock,
		requestTimeout: d.RequestTimeout,
		limiter:        ratelimit.NewLimiter(rlConfig),
		detector:       detector,
		tracer:         trace.NewMiddleware(logger, detector.ExtractClientIP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/dashboard", s.requireAuth(s.handleDashboard, false))
	mux.HandleFunc("GET /api/profile", s.requireAuth(s.handleGetProfile, false))
	mux.HandleFunc("PUT /api/profile", s.requireAuth(s.handleUpdateProfile, false))

	mux.HandleFunc("GET /api/ledger/week", s.requireAuth(s.handleGetWeek, false))
	mux.HandleFunc("PUT /api/ledger/week/{category}", s.requireAuth(s.handleSaveWeek, false))
	mux.HandleFunc("POST /api/ledger/preview", s.requireAuth(s.handlePreviewWeek, false))

	mux.HandleFunc("GET /api/goals", s.requireAuth(s.handleListGoals, false))
	mux.HandleFunc("POST /api/goals", s.requireAuth(s.handleCreateGoal, false))
	mux.HandleFunc("POST /api/goals/{id}/deposit", s.requireAuth(s.handleDeposit, false))
	mux.HandleFunc("POST /api/goals/{id}/withdraw", s.requireAuth(s.handleWithdraw, false))
	mux.HandleFunc("GET /api/goals/export.csv", s.requireAuth(s.handleExportGoals, false))

	mux.HandleFunc("GET /api/education", s.requireAuth(s.handleListEducation, false))
	mux.HandleFunc("GET /api/education/{id}", s.requireAuth(s.handleGetEducation, false))

	mux.HandleFunc("GET /api/quiz", s.requireAuth(s.handleGetQuiz, false))
	mux.HandleFunc("POST /api/quiz/submit", s.requireAuth(s.handleSubmitQuiz, false))
	mux.HandleFunc("GET /api/quiz/results", s.requireAuth(s.handleQuizResults, false))

	mux.HandleFunc("GET /api/reports", s.requireAuth(s.handleReports, false))

	mux.HandleFunc("GET /ws", s.requireAuth(s.handleWebsocket, true))
	mux.HandleFunc("POST /api/auth/signout", s.requireAuth(s.handleSignOut, false))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		slog.WarnContext(r.Context(), "Rate limit exceeded", "path", r.URL.Path, "method", r.Method)
		ErrorResponse(http.StatusTooManyRequests, "Muitas requisições. Tente novamente em instantes.").Write(w)
	})

	var h http.Handler = mux
	h = limit(h)
	h = security.CORS(d.AllowedOrigins)(h)
	h = detector.Middleware(h)
	h = headers.Middleware(h)
	h = s.tracer.Middleware(h)
	s.Handler = h

	return s
}

// Start launches the background cleanup of the rate limiter. It stops on
// Shutdown or when ctx ends.
func (s *Server) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.stopBackground = cancel
	go s.limiter.Run(ctx)
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopBackground != nil {
			s.stopBackground()
		}
		if s.hub != nil {
			if err := s.hub.Close(); err != nil {
				s.logger.Warn("Failed to close websocket hub", applog.FieldError, err)
			}
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// readContext bounds a handler's store calls.
func (s *Server) readContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

func (s *Server) today() core.Date {
	return core.DateOf(s.clock())
}
