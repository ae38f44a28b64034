package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/render"
	"github.com/hamed0406/sitewatch/internal/snapshot"
)

// Server exposes the latest snapshot as read-only JSON. It never mutates
// engine state; it only reads what the scheduler last published.
type Server struct {
	Logger *zap.Logger
	Latest *render.Latest
}

func NewServer(l *zap.Logger, latest *render.Latest) *Server {
	return &Server{Logger: l, Latest: latest}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/snapshot", s.handleSnapshot)
	r.Get("/api/history", s.handleHistory)

	return r
}

type entryDTO struct {
	Time         string    `json:"time"`
	URL          string    `json:"url"`
	Status       string    `json:"status"`
	ResponseTime string    `json:"response_time"`
	Up           bool      `json:"up"`
	Series       []float64 `json:"series"`
}

type snapshotDTO struct {
	Round     int        `json:"round"`
	CheckedAt string     `json:"checked_at"`
	IntervalS int        `json:"interval_s"`
	Sites     []entryDTO `json:"sites"`
}

func toDTO(snap snapshot.Snapshot) snapshotDTO {
	dto := snapshotDTO{
		Round:     snap.Round,
		CheckedAt: snap.HeaderLabel(),
		IntervalS: int(snap.Interval.Seconds()),
		Sites:     make([]entryDTO, 0, len(snap.Entries)),
	}
	for _, e := range snap.Entries {
		dto.Sites = append(dto.Sites, entryDTO{
			Time:         e.TimeLabel(),
			URL:          e.URL,
			Status:       e.Outcome.StatusLabel(),
			ResponseTime: e.Outcome.LatencyLabel(),
			Up:           e.Outcome.IsUp(),
			Series:       e.Series,
		})
	}
	return dto
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.Latest.Get()
	if !ok {
		http.Error(w, "no snapshot yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toDTO(snap))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}
	snap, ok := s.Latest.Get()
	if !ok {
		http.Error(w, "no snapshot yet", http.StatusNotFound)
		return
	}
	for _, e := range snap.Entries {
		if e.URL == url {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"url":    e.URL,
				"series": e.Series,
			})
			return
		}
	}
	http.Error(w, "unknown endpoint", http.StatusNotFound)
}
