package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/balazs-web/smoky-fish-sub000/internal/checkout"
	"github.com/balazs-web/smoky-fish-sub000/internal/customerrors"
	"github.com/balazs-web/smoky-fish-sub000/internal/delivery"
	"github.com/balazs-web/smoky-fish-sub000/internal/models"
	"github.com/balazs-web/smoky-fish-sub000/internal/ports"
	"github.com/balazs-web/smoky-fish-sub000/pkg/logger"
)

// NotificationDispatcher sends the two transactional mails of an order and
// reports per-recipient booleans, never errors
type NotificationDispatcher interface {
	DispatchOrderNotifications(ctx context.Context, orderID string, sub models.Submission) models.EmailResults
}

// OrderService is the authoritative server boundary of the checkout: it
// re-validates the submitted payload regardless of what the client already
// checked, mints the order id, persists and announces the order best-effort,
// and fans out the notifications
type OrderService struct {
	storage    ports.OrderStorage
	dispatcher NotificationDispatcher
	events     ports.OrderEventPublisher
	catalog    ports.Catalog
	idPrefix   string
}

// NewOrderService creates the submission service. events may be nil when no
// broker is configured; publishing is skipped then
func NewOrderService(
	storage ports.OrderStorage,
	dispatcher NotificationDispatcher,
	events ports.OrderEventPublisher,
	catalog ports.Catalog,
	idPrefix string,
) *OrderService {
	return &OrderService{
		storage:    storage,
		dispatcher: dispatcher,
		events:     events,
		catalog:    catalog,
		idPrefix:   idPrefix,
	}
}

// SubmitOrder runs the full submission pipeline.
//
// Any validation failure returns before a single side effect: no id minted,
// nothing persisted, nothing sent. After validation passes the order counts
// as placed for the customer; persistence and notification failures only
// degrade the response flags, never the acknowledgment
func (s *OrderService) SubmitOrder(ctx context.Context, sub models.Submission) (models.SubmissionResult, error) {
	log := logger.GetOrCreateLoggerFromCtx(ctx)

	if len(sub.Items) == 0 {
		return models.SubmissionResult{}, customerrors.NewValidationError(checkout.MsgEmptyBasket)
	}

	restricted := s.basketAlcoholRestricted(ctx, sub.Items)

	if err := checkout.ValidateSubmission(sub, restricted); err != nil {
		return models.SubmissionResult{}, err
	}

	// the city is derived from the postcode, the client-sent value is not trusted
	sub.Shipping.City = delivery.ResolveCity(sub.Shipping.Postcode)

	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}
	orderID := mintOrderID(s.idPrefix, sub.SubmittedAt)

	order := anonymizeOrder(orderID, sub)

	// persistence is best-effort: the customer-facing acknowledgment takes
	// priority over internal bookkeeping durability
	if err := s.storage.SaveOrder(ctx, order); err != nil {
		log.Error(ctx, "error persisting order, continuing",
			zap.String("order_id", orderID), zap.Error(err))
	}

	if s.events != nil {
		if err := s.events.PublishOrderCreated(ctx, order); err != nil {
			log.Warn(ctx, "error publishing order event, continuing",
				zap.String("order_id", orderID), zap.Error(err))
		}
	}

	results := s.dispatcher.DispatchOrderNotifications(ctx, orderID, sub)

	log.Info(ctx, "order accepted",
		zap.String("order_id", orderID),
		zap.Int("total_price", sub.TotalPrice),
		zap.Bool("customer_email_sent", results.CustomerEmailSent),
		zap.Bool("manager_email_sent", results.ManagerEmailSent))

	return models.SubmissionResult{
		Success:      true,
		OrderID:      orderID,
		EmailResults: results,
	}, nil
}

// GetOrder reads one persisted order
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (models.PersistedOrder, error) {
	return s.storage.GetOrderByID(ctx, orderID)
}

// GetLastOrders lists up to limit orders, newest first, optionally by status
func (s *OrderService) GetLastOrders(ctx context.Context, status models.OrderStatus, limit int) ([]models.PersistedOrder, error) {
	return s.storage.GetLastOrders(ctx, status, limit)
}

// UpdateOrderStatus writes a new lifecycle status unconditionally
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	err := s.storage.UpdateOrderStatus(ctx, orderID, status)
	if err == nil {
		logger.GetOrCreateLoggerFromCtx(ctx).Info(ctx, "order status updated",
			zap.String("order_id", orderID), zap.String("status", string(status)))
	}
	return err
}

// basketAlcoholRestricted asks the catalog whether any line needs the age
// acknowledgment. A catalog outage degrades the gate open with a warning:
// availability of the checkout wins over strictness here
func (s *OrderService) basketAlcoholRestricted(ctx context.Context, items []models.BasketItem) bool {
	for _, item := range items {
		product, err := s.catalog.Product(ctx, item.ProductID)
		if err != nil {
			logger.GetOrCreateLoggerFromCtx(ctx).Warn(ctx, "couldn't resolve product for alcohol check",
				zap.String("product_id", item.ProductID), zap.Error(err))
			continue
		}
		if product.AlcoholRestricted {
			return true
		}
	}
	return false
}

// anonymizeOrder strips the submission down to the durable record: item
// snapshot, totals, and of the whole address only city and postcode survive
func anonymizeOrder(orderID string, sub models.Submission) models.PersistedOrder {
	lines := make([]models.OrderLine, len(sub.Items))
	for i, item := range sub.Items {
		line := models.OrderLine{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.LineUnitPrice(),
			LineTotal:   item.LineTotal(),
		}
		if item.Variant != nil {
			line.VariantID = item.Variant.ID
			line.VariantName = item.Variant.Name
		}
		lines[i] = line
	}

	now := time.Now().UTC()
	return models.PersistedOrder{
		OrderID:          orderID,
		Items:            lines,
		Subtotal:         sub.Subtotal,
		ShippingCost:     sub.ShippingCost,
		TotalPrice:       sub.TotalPrice,
		Status:           models.StatusNew,
		DeliveryCity:     sub.Shipping.City,
		DeliveryPostcode: sub.Shipping.Postcode,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
