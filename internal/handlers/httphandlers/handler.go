package httphandlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/balazs-web/smoky-fish-sub000/internal/checkout"
	"github.com/balazs-web/smoky-fish-sub000/internal/customerrors"
	"github.com/balazs-web/smoky-fish-sub000/internal/delivery"
	"github.com/balazs-web/smoky-fish-sub000/internal/metrics"
	"github.com/balazs-web/smoky-fish-sub000/internal/models"
	"github.com/balazs-web/smoky-fish-sub000/internal/service"
	"github.com/balazs-web/smoky-fish-sub000/pkg/logger"
)

const (
	sessionHeader = "X-Session-ID"

	msgOrderAccepted   = "your order has been received"
	msgUnexpectedError = "something went wrong, please try again later"
)

// Handler wires the order and session services onto the HTTP surface
type Handler struct {
	orders   *service.OrderService
	sessions *service.SessionService
	metrics  *metrics.CheckoutMetrics
}

// NewHandler creates the HTTP handler. m may be nil, counters are skipped then
func NewHandler(orders *service.OrderService, sessions *service.SessionService, m *metrics.CheckoutMetrics) *Handler {
	return &Handler{
		orders:   orders,
		sessions: sessions,
		metrics:  m,
	}
}

// SubmitOrder is the authoritative endpoint behind the final submit button
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	started := time.Now()

	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.countSubmission("rejected")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.orders.SubmitOrder(ctx, mapSubmission(req))
	if h.metrics != nil {
		h.metrics.SubmitDurationMS.Observe(float64(time.Since(started).Milliseconds()))
	}
	if err != nil {
		if ve, ok := customerrors.AsValidation(err); ok {
			h.countSubmission("rejected")
			writeError(w, http.StatusBadRequest, ve.Message)
			return
		}
		h.countSubmission("failed")
		logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "order submission failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgUnexpectedError)
		return
	}

	h.countSubmission("accepted")
	h.countEmail("customer", result.EmailResults.CustomerEmailSent)
	h.countEmail("operator", result.EmailResults.ManagerEmailSent)

	// when the submit came from a tracked session, park its machine on success
	if sessionID := r.Header.Get(sessionHeader); sessionID != "" {
		if _, err := h.sessions.Complete(ctx, sessionID); err != nil {
			logger.GetOrCreateLoggerFromCtx(ctx).Warn(ctx, "couldn't complete checkout session",
				zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, submitOrderResponse{
		Success: result.Success,
		OrderID: result.OrderID,
		// invoicing is disabled upstream, the field stays null
		InvoiceID: nil,
		EmailResults: emailResultsDTO{
			CustomerEmailSent: result.EmailResults.CustomerEmailSent,
			ManagerEmailSent:  result.EmailResults.ManagerEmailSent,
		},
		Message: msgOrderAccepted,
	})
}

// GetOrder reads one persisted order by id
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		if errorsIsNotFound(err) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.GetOrCreateLoggerFromCtx(r.Context()).Error(r.Context(), "couldn't read order",
			zap.String("order_id", orderID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgUnexpectedError)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderResponse(order))
}

// ListOrders lists persisted orders, newest first, optionally by status
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := models.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	orders, err := h.orders.GetLastOrders(r.Context(), status, limit)
	if err != nil {
		logger.GetOrCreateLoggerFromCtx(r.Context()).Error(r.Context(), "couldn't list orders", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgUnexpectedError)
		return
	}

	responses := make([]orderResponse, len(orders))
	for i, order := range orders {
		responses[i] = mapOrderResponse(order)
	}
	writeJSON(w, http.StatusOK, responses)
}

// UpdateOrderStatus writes a lifecycle status. Trusted operators only; any
// status may follow any other
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := models.OrderStatus(req.Status)
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	if err := h.orders.UpdateOrderStatus(r.Context(), orderID, status); err != nil {
		if errorsIsNotFound(err) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.GetOrCreateLoggerFromCtx(r.Context()).Error(r.Context(), "couldn't update order status",
			zap.String("order_id", orderID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgUnexpectedError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CheckDelivery is the advisory serviceability lookup the client uses for
// instant feedback; the submission re-checks it authoritatively anyway
func (h *Handler) CheckDelivery(w http.ResponseWriter, r *http.Request) {
	postcode := chi.URLParam(r, "postcode")
	city := delivery.ResolveCity(postcode)

	writeJSON(w, http.StatusOK, deliveryCheckResponse{
		Serviceable: city != "",
		City:        city,
	})
}

// GetSession returns the session's basket and checkout position
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.sessions.Session(r.Context(), sessionID)
	if err != nil {
		h.sessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSessionResponse(session, h.sessions.Quote(session)))
}

// AddBasketItem merges a catalog product into the session basket
func (h *Handler) AddBasketItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	session, err := h.sessions.AddItem(r.Context(), sessionID, req.ProductID, req.Quantity, req.VariantID)
	if err != nil {
		h.sessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSessionResponse(session, h.sessions.Quote(session)))
}

// UpdateBasketItem sets a line's quantity; zero or below removes the line
func (h *Handler) UpdateBasketItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	session, err := h.sessions.UpdateQuantity(r.Context(), sessionID, req.ProductID, req.Quantity, req.VariantID)
	if err != nil {
		h.sessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSessionResponse(session, h.sessions.Quote(session)))
}

// RemoveBasketItem drops one line, identified by query parameters
func (h *Handler) RemoveBasketItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	productID := r.URL.Query().Get("productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	session, err := h.sessions.RemoveItem(r.Context(), sessionID, productID, r.URL.Query().Get("variantId"))
	if err != nil {
		h.sessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSessionResponse(session, h.sessions.Quote(session)))
}

// ClearBasket empties the session basket
func (h *Handler) ClearBasket(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.sessions.ClearBasket(r.Context(), sessionID)
	if err != nil {
		h.sessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSessionResponse(session, h.sessions.Quote(session)))
}

// CheckoutStep moves the session along one declared edge of the flow
func (h *Handler) CheckoutStep(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req checkoutStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	step, err := checkout.ParseStep(req.Step)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.sessions.Transition(r.Context(), sessionID, step)
	if err != nil {
		h.sessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSessionResponse(session, h.sessions.Quote(session)))
}

// CheckoutReset returns the machine to the basket step for a new purchase
func (h *Handler) CheckoutReset(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.sessions.Reset(r.Context(), sessionID)
	if err != nil {
		h.sessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSessionResponse(session, h.sessions.Quote(session)))
}

// Healthz is the liveness probe
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, sessionHeader+" header is required")
		return "", false
	}
	return sessionID, true
}

func (h *Handler) sessionError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := customerrors.AsValidation(err); ok {
		writeError(w, http.StatusBadRequest, ve.Message)
		return
	}
	logger.GetOrCreateLoggerFromCtx(r.Context()).Error(r.Context(), "session operation failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, msgUnexpectedError)
}

func (h *Handler) countSubmission(outcome string) {
	if h.metrics != nil {
		h.metrics.OrdersSubmitted.WithLabelValues(outcome).Inc()
	}
}

func (h *Handler) countEmail(recipient string, sent bool) {
	if h.metrics == nil {
		return
	}
	outcome := "sent"
	if !sent {
		outcome = "failed"
	}
	h.metrics.Emails.WithLabelValues(recipient, outcome).Inc()
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, customerrors.ErrOrderNotFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
