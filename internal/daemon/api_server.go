package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"gravbot/internal/api"
	"gravbot/internal/config"
	"gravbot/internal/logging"
	"gravbot/internal/records"
	"gravbot/internal/replays"
	"gravbot/internal/services"
)

const maxRequestBody = 64 << 10

type apiServer struct {
	bind    string
	logger  *slog.Logger
	daemon  *Daemon
	handler http.Handler

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.API.Bind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:   bind,
		logger: logging.NewComponentLogger(logger, "api"),
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", srv.handleStatus)
	mux.HandleFunc("POST /api/replays", srv.handleSubmit)
	mux.HandleFunc("GET /api/wr", srv.handleIndex)
	mux.HandleFunc("GET /api/wr/leaderboard", srv.handleLeaderboard)
	mux.HandleFunc("GET /api/wr/{mapID}", srv.handleBest)
	mux.HandleFunc("GET /api/wr/{mapID}/records", srv.handleMapRecords)
	mux.HandleFunc("POST /api/wr/refresh", srv.handleRefresh)

	root := http.NewServeMux()
	root.Handle("/api/", authMiddleware(cfg.API.Token, srv.withRequestID(mux)))
	if cfg.Metrics.Enabled && d.metrics != nil {
		root.Handle("GET /metrics", d.metrics.Handler())
	}
	srv.handler = root

	srv.server = &http.Server{
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// withRequestID stamps every request context with a correlation ID, reusing
// X-Request-ID when the caller supplied one.
func (s *apiServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := services.WithRequestID(r.Context(), requestID)
		ctx = services.WithOrigin(ctx, "api")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.daemon.Status())
}

func (s *apiServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req api.SubmitRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := decoder.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", services.ErrValidation)
		return
	}
	id, err := replays.ParseInput(req.Input)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error(), err)
		return
	}
	if req.OnlyLog {
		if err := s.daemon.recorder.RecordReplay(r.Context(), id, true); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error(), err)
			return
		}
		s.writeJSON(w, http.StatusAccepted, api.LoggedResponse{UUID: id, Logged: true})
		return
	}
	result := s.daemon.recorder.Submit(r.Context(), id)
	status := http.StatusOK
	if err := result.Err(); err != nil {
		status = http.StatusBadGateway
	}
	s.writeJSON(w, status, result)
}

func (s *apiServer) handleBest(w http.ResponseWriter, r *http.Request) {
	mapID := strings.TrimSpace(r.PathValue("mapID"))
	if mapID == "" {
		s.writeError(w, http.StatusBadRequest, "map id is required", services.ErrValidation)
		return
	}
	entry, found, err := s.daemon.cache.Best(r.Context(), mapID)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "world record data is unavailable", err)
		return
	}
	if !found {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no record for map %s", mapID), nil)
		return
	}
	s.writeJSON(w, http.StatusOK, api.WRResponse{MapID: mapID, Record: api.FromEntry(entry)})
}

func (s *apiServer) handleMapRecords(w http.ResponseWriter, r *http.Request) {
	mapID := strings.TrimSpace(r.PathValue("mapID"))
	snapshot, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, api.MapRecordsResponse{
		MapID:   mapID,
		Records: api.FromEntries(records.ForMap(snapshot, mapID)),
	})
}

func (s *apiServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromIndex(records.BestByMap(snapshot)))
}

func (s *apiServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromLeaderboards(snapshot))
}

func (s *apiServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if _, err := s.daemon.cache.Refresh(r.Context(), true); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "world record refresh failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Status().Cache)
}

func (s *apiServer) snapshot(w http.ResponseWriter, r *http.Request) (*records.Snapshot, bool) {
	snapshot, err := s.daemon.cache.Refresh(r.Context(), false)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "world record data is unavailable", err)
		return nil, false
	}
	return snapshot, true
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string, err error) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message, Kind: services.Kind(err)})
}

func (s *apiServer) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return logging.NewNop()
}
