package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/kmohsen11/Argos/internal/entity"
	"github.com/kmohsen11/Argos/internal/metrics"
)

// RelayPath is where the relay is served.
const RelayPath = "/api/sendPreorderEmail"

// Dispatcher sends the email for one pre-order.
type Dispatcher interface {
	Dispatch(ctx context.Context, n entity.PreorderNotification) error
}

// RelayHandler turns a pre-order JSON body into email.
type RelayHandler struct {
	dispatcher Dispatcher
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
}

// NewRelayHandler limits requests to r per second with the given burst.
// A non-positive r disables limiting.
func NewRelayHandler(dispatcher Dispatcher, r float64, burst int, m *metrics.Metrics) *RelayHandler {
	h := &RelayHandler{dispatcher: dispatcher, metrics: m}
	if r > 0 {
		if burst < 1 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
	return h
}

type relayOK struct {
	OK bool `json:"ok"`
}

func (h *RelayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := h.serve(w, r)
	h.metrics.ObserveRelay(strconv.Itoa(status))
}

func (h *RelayHandler) serve(w http.ResponseWriter, r *http.Request) int {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return http.StatusMethodNotAllowed
	}
	if h.limiter != nil && !h.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate_limited"})
		return http.StatusTooManyRequests
	}

	var n entity.PreorderNotification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return http.StatusBadRequest
	}
	if n.MissingRequired() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing required fields"})
		return http.StatusBadRequest
	}

	if err := h.dispatcher.Dispatch(r.Context(), n); err != nil {
		slog.Error("Relay failed to send pre-order email", "email", n.Email, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "mail_error", Message: err.Error()})
		return http.StatusInternalServerError
	}

	slog.Info("📧 Pre-order email relayed", "email", n.Email, "product", n.ProductType)
	writeJSON(w, http.StatusOK, relayOK{OK: true})
	return http.StatusOK
}
