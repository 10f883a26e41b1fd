package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"proclog/internal/actor"
	"proclog/internal/domain"
	"proclog/internal/dto"
	"proclog/internal/observability/metrics"
	obsmw "proclog/internal/observability/middleware"
	"proclog/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	CORSOrigins []string
}

func NewRouter(svc *service.Service, resolver *actor.Resolver, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(httprate.LimitByIP(100, 1*time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(obsmw.WithRequestAndTrace)
	r.Use(obsmw.WithMetrics)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(requireActor(resolver))

		r.Post("/entries", func(w http.ResponseWriter, r *http.Request) {
			reqID := obsmw.RequestIDFromContext(r.Context())
			a := actor.FromContext(r.Context())

			var req dto.SubmitEntryRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				metrics.EntriesSubmittedTotal.WithLabelValues("failure").Inc()
				slog.Warn("submit decode failed", "error", err, "request_id", reqID)
				return
			}
			entry, err := svc.Submit(r.Context(), a, req)
			if err != nil {
				writeError(w, err)
				metrics.EntriesSubmittedTotal.WithLabelValues("failure").Inc()
				slog.Warn("submit failed", "error", err, "actor_id", a.ID, "request_id", reqID)
				return
			}
			metrics.EntriesSubmittedTotal.WithLabelValues("success").Inc()
			slog.Info("entry submitted", "entry_id", entry.ID, "actor_id", a.ID, "request_id", reqID)
			writeJSON(w, http.StatusCreated, entry)
		})

		r.Get("/entries", func(w http.ResponseWriter, r *http.Request) {
			a := actor.FromContext(r.Context())
			limit := 0
			if raw := r.URL.Query().Get("limit"); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil {
					http.Error(w, "invalid limit", http.StatusBadRequest)
					return
				}
				limit = n
			}
			entries, err := svc.ListOwn(r.Context(), a, limit)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, entries)
		})

		r.Get("/entries/stats", func(w http.ResponseWriter, r *http.Request) {
			a := actor.FromContext(r.Context())
			stats, err := svc.Stats(r.Context(), a)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, stats)
		})

		r.Get("/entries/pending", func(w http.ResponseWriter, r *http.Request) {
			reqID := obsmw.RequestIDFromContext(r.Context())
			a := actor.FromContext(r.Context())
			pending, err := svc.ListPending(r.Context(), a)
			if err != nil {
				writeError(w, err)
				metrics.PendingQueueFetchesTotal.WithLabelValues("failure").Inc()
				slog.Warn("pending queue fetch failed", "error", err, "actor_id", a.ID, "request_id", reqID)
				return
			}
			metrics.PendingQueueFetchesTotal.WithLabelValues("success").Inc()
			writeJSON(w, http.StatusOK, pending)
		})

		r.Get("/entries/{id}", func(w http.ResponseWriter, r *http.Request) {
			a := actor.FromContext(r.Context())
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				http.Error(w, "invalid entry id", http.StatusBadRequest)
				return
			}
			entry, err := svc.GetEntry(r.Context(), a, id)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, entry)
		})

		r.Post("/entries/{id}/decision", func(w http.ResponseWriter, r *http.Request) {
			reqID := obsmw.RequestIDFromContext(r.Context())
			a := actor.FromContext(r.Context())
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				http.Error(w, "invalid entry id", http.StatusBadRequest)
				return
			}
			var req dto.DecisionRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			// closed label set; arbitrary request strings must not mint series
			outcomeLabel := req.Outcome
			if _, ok := domain.ParseOutcome(req.Outcome); !ok {
				outcomeLabel = "invalid"
			}
			entry, err := svc.Decide(r.Context(), a, id, req.Outcome)
			if err != nil {
				writeError(w, err)
				metrics.EntryDecisionsTotal.WithLabelValues(outcomeLabel, "failure").Inc()
				slog.Warn("decision failed", "error", err, "entry_id", id, "actor_id", a.ID, "request_id", reqID)
				return
			}
			metrics.EntryDecisionsTotal.WithLabelValues(outcomeLabel, "success").Inc()
			slog.Info("entry decided", "entry_id", entry.ID, "outcome", entry.Status, "reviewer_id", a.ID, "request_id", reqID)
			writeJSON(w, http.StatusOK, entry)
		})

		r.Get("/profile", func(w http.ResponseWriter, r *http.Request) {
			a := actor.FromContext(r.Context())
			profile, err := svc.GetProfile(r.Context(), a)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, profile)
		})

		r.Put("/profile", func(w http.ResponseWriter, r *http.Request) {
			a := actor.FromContext(r.Context())
			var req dto.UpsertProfileRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			profile, err := svc.UpsertProfile(r.Context(), a, req)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, profile)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}
