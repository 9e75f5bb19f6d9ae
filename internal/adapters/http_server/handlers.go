package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"flex_reviews/internal/adapters/observability"
	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

type Handlers struct {
	Q    *app.QueryService
	A    *app.ApprovalService
	Auth *app.AuthService
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})

	s.mux.Post("/api/auth/login", h.login)

	s.mux.Route("/api/reviews", func(r chi.Router) {
		r.Get("/hostaway", h.listHostaway)
		r.Get("/publicreviews", h.listPublic)
		r.Get("/insights", h.listingInsights)

		r.With(RequireAuth(h.Auth), RequireAdmin).
			Post("/approve/{id}", h.toggleApproval)
	})
}

type errBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errBody{Error: msg})
}

// mapError translates domain failures to status codes; anything unknown is a
// 500 with no internal detail.
func mapError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, msg)
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, msg)
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, msg)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, msg)
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handlers) listHostaway(w http.ResponseWriter, r *http.Request) {
	payload, err := h.Q.ListChannelReviews(r.Context(), domain.ChannelHostaway)
	if err != nil {
		mapError(w, err, "Not able to fetch hostaway reviews")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handlers) listPublic(w http.ResponseWriter, r *http.Request) {
	payload, err := h.Q.ListPublicReviews(r.Context(), domain.ChannelHostaway)
	if err != nil {
		mapError(w, err, "Failed to fetch public reviews")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handlers) listingInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.Q.ListingInsights(r.Context(), domain.ChannelHostaway)
	if err != nil {
		mapError(w, err, "Failed to build listing insights")
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

func (h *Handlers) toggleApproval(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.A.Toggle(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			observability.ObserveToggle("not_found")
			mapError(w, err, "review not found")
			return
		}
		observability.ObserveToggle("error")
		mapError(w, err, "Not able to toggle the review approval")
		return
	}
	if res.Approved {
		observability.ObserveToggle("approved")
	} else {
		observability.ObserveToggle("unapproved")
	}
	writeJSON(w, http.StatusCreated, res)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password required")
		return
	}
	res, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Email and password required")
			return
		}
		mapError(w, err, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
