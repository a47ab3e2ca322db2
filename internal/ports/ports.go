package ports

import (
	"context"

	"github.com/balazs-web/smoky-fish-sub000/internal/checkout"
	"github.com/balazs-web/smoky-fish-sub000/internal/models"
)

// OrderStorage port describes the durable, anonymized order record store, e.g. postgres.
//
// SaveOrder is an upsert keyed by order id; re-submitting the same id overwrites.
// UpdateOrderStatus performs an unconditional status write, any status may follow
// any other — only trusted operators call it
type OrderStorage interface {
	SaveOrder(ctx context.Context, order models.PersistedOrder) error
	GetOrderByID(ctx context.Context, orderID string) (models.PersistedOrder, error)
	GetLastOrders(ctx context.Context, status models.OrderStatus, limit int) ([]models.PersistedOrder, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error
}

// SessionStore port describes the per-session checkout state storage so the
// backing medium (in-memory, redis) is swappable without touching pricing logic
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (checkout.Session, bool, error)
	Save(ctx context.Context, sessionID string, session checkout.Session) error
	Delete(ctx context.Context, sessionID string) error
}

// OrderEventPublisher port announces placed orders to downstream consumers, e.g. kafka.
// Publishing is best-effort; callers log failures and move on
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, order models.PersistedOrder) error
}

// Catalog port reads product data from the catalog collaborator
type Catalog interface {
	Product(ctx context.Context, productID string) (models.CatalogProduct, error)
}

// Branding port reads the site display name used to brand notification templates
type Branding interface {
	SiteName(ctx context.Context) string
}
