package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ordermanagement/internal/models"
	"github.com/Skotchmaster/ordermanagement/internal/search"
	"github.com/Skotchmaster/ordermanagement/pkg/logging"
	"github.com/Skotchmaster/ordermanagement/pkg/metrics"
)

const (
	EventInserted     = "inserted"
	EventUpdated      = "updated"
	EventRemoved      = "removed"
	EventBatchUpdated = "batch_updated"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Event struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	Entity     string    `json:"entity"`
	ID         int64     `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

// Events publishes domain events after a successful commit. A nil *Events or
// a nil Publisher drops them.
type Events struct {
	Publisher Publisher
	Topic     string
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

func (e *Events) Emit(ctx context.Context, typ, entity string, id int64, data any) {
	if e == nil || e.Publisher == nil {
		return
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	ev := Event{
		EventID:    uuid.NewString(),
		Type:       typ,
		Entity:     entity,
		ID:         id,
		OccurredAt: now().UTC(),
		Data:       data,
	}

	err := e.Publisher.PublishEvent(ctx, e.Topic, entity+":"+strconv.FormatInt(id, 10), ev)
	e.Metrics.Event(err)
	if err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed",
			"type", typ, "entity", entity, "id", id, "error", err)
	}
}

// ProductIndexer keeps the product search index in step with the store.
type ProductIndexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	Search(ctx context.Context, query string, from, size int) (int64, []search.ProductDoc, error)
}
