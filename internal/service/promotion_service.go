package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/R0llcre/promotions/internal/clock"
	"github.com/R0llcre/promotions/internal/logging"
	"github.com/R0llcre/promotions/internal/metrics"
	"github.com/R0llcre/promotions/internal/models"
	"github.com/R0llcre/promotions/internal/types"
)

// PromotionStore is what the service needs from persistence. The
// Postgres repository implements it; tests substitute a fake.
type PromotionStore interface {
	Insert(ctx context.Context, p *models.Promotion) error
	Get(ctx context.Context, id int) (*models.Promotion, error)
	All(ctx context.Context) ([]*models.Promotion, error)
	FindByName(ctx context.Context, name string) ([]*models.Promotion, error)
	FindByProductID(ctx context.Context, productID int) ([]*models.Promotion, error)
	FindByType(ctx context.Context, promotionType string) ([]*models.Promotion, error)
	FindActive(ctx context.Context, today models.Date) ([]*models.Promotion, error)
	FindInactive(ctx context.Context, today models.Date) ([]*models.Promotion, error)
	Replace(ctx context.Context, p *models.Promotion) error
	Delete(ctx context.Context, id int) error
	Clear(ctx context.Context) error
}

// PromotionService holds the business rules: list-filter precedence and
// the deactivate end-date rule.
type PromotionService struct {
	store     PromotionStore
	publisher types.EventPublisher // nil disables event publishing
	clock     clock.Clock
}

func NewPromotionService(store PromotionStore, publisher types.EventPublisher, clk clock.Clock) *PromotionService {
	if clk == nil {
		clk = clock.Real{}
	}
	return &PromotionService{store: store, publisher: publisher, clock: clk}
}

// ListFilters carries the raw query-string filter values. Active is a
// pointer because its mere presence matters: "?active=" is present but
// unparseable, which is a client error rather than "no filter".
type ListFilters struct {
	ID            string
	Active        *string
	Name          string
	ProductID     string
	PromotionType string
}

// List resolves the filters with fixed precedence:
// id > active > name > product_id > promotion_type > all.
// The first present filter wins and the rest are ignored.
func (s *PromotionService) List(ctx context.Context, filters ListFilters) ([]*models.Promotion, error) {
	switch {
	case filters.ID != "":
		id, err := strconv.Atoi(strings.TrimSpace(filters.ID))
		if err != nil {
			// Non-integer id filters match nothing; they are not errors.
			return []*models.Promotion{}, nil
		}
		p, err := s.store.Get(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			return []*models.Promotion{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []*models.Promotion{p}, nil

	case filters.Active != nil:
		active, ok := parseBoolStrict(*filters.Active)
		if !ok {
			return nil, models.NewValidationError(
				"invalid value for query parameter 'active'. Accepted: true, false, 1, 0, yes, no (case-insensitive). Received: %q",
				*filters.Active)
		}
		today := s.clock.Today()
		if active {
			return s.store.FindActive(ctx, today)
		}
		return s.store.FindInactive(ctx, today)

	case filters.Name != "":
		return s.store.FindByName(ctx, strings.TrimSpace(filters.Name))

	case filters.ProductID != "":
		productID, err := strconv.Atoi(strings.TrimSpace(filters.ProductID))
		if err != nil {
			return []*models.Promotion{}, nil
		}
		return s.store.FindByProductID(ctx, productID)

	case filters.PromotionType != "":
		promotionType := strings.TrimSpace(filters.PromotionType)
		if promotionType == "" {
			return []*models.Promotion{}, nil
		}
		return s.store.FindByType(ctx, promotionType)

	default:
		return s.store.All(ctx)
	}
}

// parseBoolStrict accepts true/1/yes and false/0/no, case-insensitive and
// trimmed. Anything else is rejected.
func parseBoolStrict(value string) (parsed, ok bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

// Get returns one promotion by id.
func (s *PromotionService) Get(ctx context.Context, id int) (*models.Promotion, error) {
	return s.store.Get(ctx, id)
}

// Create persists a new promotion. The id is always allocated by the
// store; anything the client supplied is discarded.
func (s *PromotionService) Create(ctx context.Context, p *models.Promotion) (*models.Promotion, error) {
	p.ID = 0
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.publish(types.EventCreated, p)
	return p, nil
}

// Update replaces all six fields of an existing promotion.
func (s *PromotionService) Update(ctx context.Context, id int, p *models.Promotion) (*models.Promotion, error) {
	if id <= 0 {
		return nil, models.NewValidationError("update requires a valid promotion id")
	}
	p.ID = id
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Replace(ctx, p); err != nil {
		return nil, err
	}
	s.publish(types.EventUpdated, p)
	return p, nil
}

// Deactivate truncates the promotion's window so it is no longer active
// today: end_date becomes min(end_date, yesterday). An end date already
// in the past is never moved forward, which also makes the operation
// idempotent.
func (s *PromotionService) Deactivate(ctx context.Context, id int) (*models.Promotion, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	yesterday := s.clock.Today().AddDays(-1)
	if !p.EndDate.After(yesterday.Time) {
		return p, nil
	}

	p.EndDate = yesterday
	if err := s.store.Replace(ctx, p); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		// The deactivate contract surfaces a persistence failure as a
		// bad-request-class error, distinct from not-found.
		logging.Logger.Error("Failed to persist deactivation", zap.Error(err), zap.Int("id", id))
		return nil, models.NewValidationError("could not deactivate promotion with id '%d'", id)
	}
	s.publish(types.EventDeactivated, p)
	return p, nil
}

// Delete removes a promotion by id. Missing ids are models.ErrNotFound.
func (s *PromotionService) Delete(ctx context.Context, id int) error {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(types.EventDeleted, p)
	return nil
}

// Clear removes every promotion. Used by operational tooling and tests.
func (s *PromotionService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *PromotionService) publish(eventType string, p *models.Promotion) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPromotionEvent(eventType, p); err != nil {
		logging.Logger.Error("Failed to publish promotion event",
			zap.Error(err), zap.String("event", eventType), zap.Int("id", p.ID))
		return
	}
	metrics.KafkaPublishedMessages.Inc()
}
