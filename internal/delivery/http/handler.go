package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kmohsen11/Argos/internal/entity"
	"github.com/kmohsen11/Argos/internal/form"
	"github.com/kmohsen11/Argos/internal/service"
)

// PreorderService is the pipeline the handlers drive.
type PreorderService interface {
	Submit(ctx context.Context, raw entity.RawPreorder) (*service.Result, error)
	Recent(ctx context.Context, limit int) ([]entity.PreorderRecord, error)
	Options() service.Options
	Ping(ctx context.Context) error
}

// FormMachine tracks per-form submission state.
type FormMachine interface {
	Create(ctx context.Context) (string, entity.SubmissionState, error)
	State(ctx context.Context, id string) (entity.SubmissionState, error)
	SubmitAsync(ctx context.Context, id string, raw entity.RawPreorder) (entity.SubmissionState, error)
	Reset(ctx context.Context, id string) (entity.SubmissionState, error)
}

// Handler handles HTTP requests for the pre-order API.
type Handler struct {
	preorders PreorderService
	forms     FormMachine
}

func NewHandler(preorders PreorderService, forms FormMachine) *Handler {
	return &Handler{preorders: preorders, forms: forms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/preorders", h.handleCreatePreorder)
		r.Get("/preorders", h.handleGetPreorders)
		r.Get("/preorder-options", h.handleGetOptions)

		r.Post("/forms", h.handleCreateForm)
		r.Get("/forms/{formId}", h.handleGetForm)
		r.Post("/forms/{formId}/submit", h.handleSubmitForm)
		r.Post("/forms/{formId}/reset", h.handleResetForm)
	})
}

type preorderResponse struct {
	Preorder *entity.PreorderRecord `json:"preorder"`
	Warning  string                 `json:"warning,omitempty"`
}

type formResponse struct {
	FormID string                 `json:"formId"`
	State  entity.SubmissionState `json:"state"`
}

func (h *Handler) handleCreatePreorder(w http.ResponseWriter, r *http.Request) {
	var raw entity.RawPreorder
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	res, err := h.preorders.Submit(r.Context(), raw)
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, preorderResponse{Preorder: res.Record, Warning: res.Warning()})
}

func writeSubmitError(w http.ResponseWriter, err error) {
	var verr *entity.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_error",
			Field:   verr.Field,
			Message: verr.Message,
		})
		return
	}
	writeError(w, http.StatusBadGateway, "submission_failed", entity.GenericSubmitMessage)
}

func (h *Handler) handleGetPreorders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.preorders.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to get pre-orders", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if records == nil {
		records = []entity.PreorderRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleGetOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.preorders.Options())
}

func (h *Handler) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	id, state, err := h.forms.Create(r.Context())
	if err != nil {
		slog.Error("Failed to create form", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, formResponse{FormID: id, State: state})
}

func (h *Handler) handleGetForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formId")
	state, err := h.forms.State(r.Context(), id)
	if err != nil {
		writeFormError(w, id, state, err)
		return
	}
	writeJSON(w, http.StatusOK, formResponse{FormID: id, State: state})
}

func (h *Handler) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formId")

	var raw entity.RawPreorder
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	state, err := h.forms.SubmitAsync(r.Context(), id, raw)
	if err != nil {
		writeFormError(w, id, state, err)
		return
	}
	writeJSON(w, http.StatusAccepted, formResponse{FormID: id, State: state})
}

func (h *Handler) handleResetForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formId")
	state, err := h.forms.Reset(r.Context(), id)
	if err != nil {
		writeFormError(w, id, state, err)
		return
	}
	writeJSON(w, http.StatusOK, formResponse{FormID: id, State: state})
}

func writeFormError(w http.ResponseWriter, id string, state entity.SubmissionState, err error) {
	switch {
	case errors.Is(err, form.ErrFormNotFound):
		writeError(w, http.StatusNotFound, "form_not_found", "form not found")
	case errors.Is(err, form.ErrSubmissionInFlight):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:   "submission_in_flight",
			Message: "A submission is already in progress.",
			FormID:  id,
			State:   &state,
		})
	case errors.Is(err, form.ErrResetRequired):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:   "reset_required",
			Message: "This form was already submitted. Reset it to place another pre-order.",
			FormID:  id,
			State:   &state,
		})
	default:
		slog.Error("Form operation failed", "form_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.preorders.Ping(r.Context()); err != nil {
		slog.Warn("Health check failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
