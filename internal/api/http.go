// Package api exposes the daemon's management surface: a bearer-auth HTTP
// API and an MCP server over the same orchestrator.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/careerd/internal/memory"
	"github.com/kalambet/careerd/internal/profile"
	"github.com/kalambet/careerd/internal/session"
	"github.com/kalambet/careerd/internal/storage"
)

const maxBodySize = 1 << 20 // 1MB

type AppDeps struct {
	Orchestrator *session.Orchestrator
	Memory       *memory.Memory
	Token        string
	Version      string
}

func NewHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth(deps))

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Post("/ask", handleAsk(deps))
		r.Get("/profile/{userID}", handleGetProfile(deps))
		r.Put("/profile/{userID}", handlePutProfile(deps))
		r.Post("/profile/{userID}/capture", handleCaptureProfile(deps))
		r.Get("/goals/{userID}", handleGetGoals(deps))
		r.Put("/goals/{userID}", handlePutGoals(deps))
		r.Get("/interactions/{userID}", handleListInteractions(deps))
	})

	return r
}

func handleHealth(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok", "version": deps.Version})
	}
}

type askRequest struct {
	UserID         string `json:"user_id"`
	Query          string `json:"query"`
	JobDescription string `json:"job_description,omitempty"`
}

func handleAsk(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		defer r.Body.Close()

		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.UserID == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "user_id is required")
			return
		}
		if req.Query == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "query is required")
			return
		}

		ans := deps.Orchestrator.Ask(r.Context(), session.AskRequest{
			UserID:         req.UserID,
			Query:          req.Query,
			JobDescription: req.JobDescription,
		})

		// Busy rejections map to 409 so clients can retry; everything else
		// is a well-formed answer, including degraded ones.
		if !ans.Success && ans.Err == "user busy" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(ans)
			return
		}
		writeJSON(w, ans)
	}
}

func handleGetProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")

		p, ok := deps.Memory.GetProfile(userID)
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "no profile stored for user %q", userID)
			return
		}
		writeJSON(w, p)
	}
}

func handlePutProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		defer r.Body.Close()

		var p profile.UserProfile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid profile body: %v", err)
			return
		}
		if p.IsZero() {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "profile must carry at least one field")
			return
		}

		deps.Orchestrator.SetProfile(userID, p)
		writeJSON(w, map[string]string{"status": "stored"})
	}
}

type captureRequest struct {
	URL string `json:"url"`
}

func handleCaptureProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		defer r.Body.Close()

		var req captureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.URL == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "url is required")
			return
		}

		p := deps.Orchestrator.CaptureProfile(r.Context(), userID, req.URL)
		writeJSON(w, p)
	}
}

func handleGetGoals(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")

		g, ok := deps.Memory.GetGoals(userID)
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "no goals stored for user %q", userID)
			return
		}
		writeJSON(w, g)
	}
}

func handlePutGoals(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		defer r.Body.Close()

		var g profile.Goals
		if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid goals body: %v", err)
			return
		}

		deps.Orchestrator.SetGoals(userID, g)
		writeJSON(w, map[string]string{"status": "stored"})
	}
}

// interactionJSON is the wire form of a stored interaction.
type interactionJSON struct {
	ID         string    `json:"id"`
	Capability string    `json:"capability"`
	Query      string    `json:"query"`
	Response   string    `json:"response"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func handleListInteractions(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		capability := r.URL.Query().Get("capability")
		limit := parseIntParam(r, "limit", 20, storage.RetentionLimit)

		rows := deps.Memory.RecentInteractions(userID, capability, limit)
		out := make([]interactionJSON, 0, len(rows))
		for _, i := range rows {
			out = append(out, interactionJSON{
				ID:         i.ID,
				Capability: i.Capability,
				Query:      i.Query,
				Response:   i.Response,
				Status:     i.Status,
				CreatedAt:  i.CreatedAt,
			})
		}
		writeJSON(w, out)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
