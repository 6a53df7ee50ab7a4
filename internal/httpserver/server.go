package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fdg312/vitalis/internal/auth"
	"github.com/fdg312/vitalis/internal/config"
	"github.com/fdg312/vitalis/internal/reminders"
	"github.com/fdg312/vitalis/internal/reports"
	"github.com/fdg312/vitalis/internal/telemetry"
	"github.com/fdg312/vitalis/internal/tracker"
)

// Deps — собранные сервисы, которые сервер публикует по HTTP.
type Deps struct {
	Tracker   *tracker.Tracker
	Reminders *reminders.Service // nil = эндпоинты напоминаний не регистрируются
	Reports   *reports.Service
	Metrics   *telemetry.Metrics // nil = без /metrics
}

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	deps           Deps
	mux            *http.ServeMux
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		config: cfg,
		deps:   deps,
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

// routes регистрирует маршруты
func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	if s.deps.Metrics != nil {
		s.mux.Handle("GET /metrics", s.deps.Metrics.Handler())
	}

	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)
	s.mux.HandleFunc("POST /v1/auth/pair", authHandler.HandlePair)

	th := tracker.NewHandlers(s.deps.Tracker, s.config.WaterDefaultAddMl)
	s.mux.HandleFunc("GET /v1/dashboard", th.HandleDashboard)
	s.mux.HandleFunc("GET /v1/profile", th.HandleGetProfile)
	s.mux.HandleFunc("PATCH /v1/profile", th.HandlePatchProfile)
	s.mux.HandleFunc("POST /v1/profile/recommended-calories", th.HandleApplyRecommendedCalories)
	s.mux.HandleFunc("POST /v1/water", th.HandleAddWater)
	s.mux.HandleFunc("POST /v1/steps", th.HandleAddSteps)
	s.mux.HandleFunc("PUT /v1/steps", th.HandleSetSteps)
	s.mux.HandleFunc("POST /v1/meals", th.HandleLogMeal)
	s.mux.HandleFunc("POST /v1/meals/preset", th.HandleLogPreset)
	s.mux.HandleFunc("DELETE /v1/meals/{id}", th.HandleDeleteMeal)
	s.mux.HandleFunc("POST /v1/exercises", th.HandleLogExercise)
	s.mux.HandleFunc("DELETE /v1/exercises/{id}", th.HandleDeleteExercise)
	s.mux.HandleFunc("POST /v1/weight", th.HandleRecordWeight)
	s.mux.HandleFunc("GET /v1/catalog", th.HandleCatalog)

	if s.deps.Reminders != nil {
		rh := reminders.NewHandlers(s.deps.Reminders)
		s.mux.HandleFunc("GET /v1/reminders", rh.HandleList)
		s.mux.HandleFunc("POST /v1/reminders", rh.HandleUpsert)
		s.mux.HandleFunc("PATCH /v1/reminders/{id}", rh.HandlePatch)
		s.mux.HandleFunc("DELETE /v1/reminders/{id}", rh.HandleDelete)
	}

	if s.deps.Reports != nil {
		ph := reports.NewHandlers(s.deps.Reports)
		s.mux.HandleFunc("GET /v1/reports/today", ph.HandleToday)
		s.mux.HandleFunc("GET /v1/reports", ph.HandleList)
		s.mux.HandleFunc("POST /v1/reports/archive", ph.HandleArchive)
		s.mux.HandleFunc("GET /v1/reports/{id}/file", ph.HandleDownload)
		s.mux.HandleFunc("DELETE /v1/reports/{id}", ph.HandleDelete)
	}
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"storage": s.config.Storage.ResolvedMode(),
	})
}

// Handler собирает цепочку (снаружи внутрь): CORS → Rate Limit → Auth → Metrics → Router.
// Metrics стоит у роутера, чтобы видеть r.Pattern.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.deps.Metrics != nil {
		handler = s.deps.Metrics.Middleware(handler)
	}
	handler = s.authMiddleware.RequireAuth(handler)
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start запускает HTTP сервер и останавливает его при отмене ctx
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("INFO http: listening on http://localhost%s", addr)
		log.Printf("INFO http: health check http://localhost%s/healthz", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
