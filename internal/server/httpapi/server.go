// Package httpapi is the REST boundary of the gateway. Handlers validate
// request structure, call the patients service and translate domain
// outcomes into status codes and the stable {success: ...} envelope. Every
// handler is stateless between requests.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/medledger/gateway/internal/logging"
	"github.com/medledger/gateway/internal/server/patients"
)

// patientService is the slice of the patients service the transport needs.
type patientService interface {
	Accounts(ctx context.Context) ([]string, error)
	Register(ctx context.Context, address string, reg patients.Registration) (*patients.Receipt, error)
	RecordTemperature(ctx context.Context, address string, degrees float64) (*patients.Receipt, error)
	Get(ctx context.Context, address string) (*patients.Record, error)
	Update(ctx context.Context, address string, reg patients.Registration) (*patients.Receipt, error)
	List(ctx context.Context) ([]*patients.Record, error)
	Search(ctx context.Context, name, folder string) (*patients.Record, error)
}

type Server struct {
	address  string
	patients patientService
	logger   logging.Logger
}

func NewServer(address string, logger logging.Logger, patients patientService) *Server {
	return &Server{
		address:  address,
		patients: patients,
		logger:   logger.With("module", "httpapi"),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/accounts", s.handleAccounts)
		r.Get("/search", s.handleSearch)
		r.Post("/temperature", s.handleRecordTemperature)

		r.Route("/patients", func(r chi.Router) {
			r.Get("/", s.handleListPatients)
			r.Post("/", s.handleRegisterPatient)
			r.Get("/{address}", s.handleGetPatient)
			r.Put("/{address}", s.handleUpdatePatient)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug(r.Context(), "request served",
			"method", r.Method, "path", r.URL.Path, "duration", time.Since(start).String())
	})
}
