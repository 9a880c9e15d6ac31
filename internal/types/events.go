package types

import "github.com/R0llcre/promotions/internal/models"

// Lifecycle event types published after a successful mutation.
const (
	EventCreated     = "promotion.created"
	EventUpdated     = "promotion.updated"
	EventDeactivated = "promotion.deactivated"
	EventDeleted     = "promotion.deleted"
)

// EventPublisher publishes promotion lifecycle events. Implementations
// must be safe for concurrent use; publishing is best-effort and must
// never block a request beyond its own retry budget.
type EventPublisher interface {
	PublishPromotionEvent(eventType string, promotion *models.Promotion) error
}
