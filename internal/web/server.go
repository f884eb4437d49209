// Package web serves the careers pages and hosts the job application
// wizard behind a browser session.
package web

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"techflow-careers/internal/common/logger"
	"techflow-careers/internal/common/observability"
	"techflow-careers/internal/models"
	"techflow-careers/internal/wizard"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// CareerSource reads the careers catalog.
type CareerSource interface {
	ListCareers(ctx context.Context) ([]models.Career, error)
	GetCareer(ctx context.Context, id string) (*models.Career, error)
}

// CareerSearcher runs free-text career search.
type CareerSearcher interface {
	Careers(ctx context.Context, q string, limit int) ([]models.Career, error)
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

type Options struct {
	SessionSecret   string
	SessionMaxAge   int // seconds
	SecureCookies   bool
	SubmitTimeout   time.Duration
	MaxUploadMemory int64
	AllowedOrigins  []string
	ReadyChecks     map[string]HealthCheck
	// Observability, when set, receives step counters and submission spans.
	Observability *observability.Observability
}

type Server struct {
	opts     Options
	careers  CareerSource
	search   CareerSearcher
	wizards  *wizard.Store
	sessions sessions.Store
	pages    *template.Template
	logger   logger.Logger
}

// NewServer builds the HTTP surface. search may be nil, in which case the
// search page reports that search is unavailable.
func NewServer(opts Options, careers CareerSource, search CareerSearcher, wizards *wizard.Store, log logger.Logger) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	if opts.MaxUploadMemory <= 0 {
		opts.MaxUploadMemory = 8 << 20
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = 30 * time.Second
	}

	store := sessions.NewCookieStore([]byte(opts.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.SessionMaxAge,
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}

	return &Server{
		opts:     opts,
		careers:  careers,
		search:   search,
		wizards:  wizards,
		sessions: store,
		pages:    pages,
		logger:   log.WithFields(map[string]interface{}{"component": "web"}),
	}, nil
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/", s.handleCareers).Methods(http.MethodGet)
	r.HandleFunc("/careers", s.handleCareers).Methods(http.MethodGet)
	r.HandleFunc("/careers/search", s.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/careers/{jobID}", s.handleCareer).Methods(http.MethodGet)

	r.HandleFunc("/careers/{jobID}/apply", s.handleApplyOpen).Methods(http.MethodPost)
	r.HandleFunc("/careers/{jobID}/apply", s.handleApplyShow).Methods(http.MethodGet)
	r.HandleFunc("/careers/{jobID}/apply/step", s.handleApplyStep).Methods(http.MethodPost)
	r.HandleFunc("/careers/{jobID}/apply/documents", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/careers/{jobID}/apply/documents/{slot}/remove", s.handleRemoveDocument).Methods(http.MethodPost)
	r.HandleFunc("/careers/{jobID}/apply/reset", s.handleApplyReset).Methods(http.MethodPost)
	r.HandleFunc("/careers/{jobID}/apply/close", s.handleApplyClose).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.corsPolicy().Handler)
	api.HandleFunc("/careers", s.handleAPICareers).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/careers/{jobID}", s.handleAPICareer).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func (s *Server) corsPolicy() *cors.Cors {
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		MaxAge:         600,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.opts.ReadyChecks))
	for name, check := range s.opts.ReadyChecks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	body := map[string]interface{}{
		"status": "ready",
		"checks": checks,
		"time":   time.Now().Format(time.RFC3339),
	}
	if status != http.StatusOK {
		body["status"] = "not ready"
	}
	writeJSON(w, status, body)
}
