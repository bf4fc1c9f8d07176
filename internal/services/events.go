package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/devlink-social/apiserver/internal/mq"
)

// ActivityChannel is the broker channel carrying activity events.
const ActivityChannel = "activity"

// Activity event types.
const (
	EventUserRegistered = "user.registered"
	EventPostCreated    = "post.created"
	EventPostLiked      = "post.liked"
	EventPostUnliked    = "post.unliked"
	EventPostCommented  = "post.commented"
)

// Event is a single activity-feed entry published to the broker.
type Event struct {
	Type       string    `json:"type"`
	UserID     int       `json:"user_id"`
	PostID     int       `json:"post_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ActivityPublisher publishes activity events. Publishing is best effort:
// a broker failure is logged and never fails the request that caused the
// event. A nil publisher or nil backend is a no-op.
type ActivityPublisher struct {
	backend mq.Backend
}

func NewActivityPublisher(backend mq.Backend) *ActivityPublisher {
	return &ActivityPublisher{backend: backend}
}

func (p *ActivityPublisher) Publish(ctx context.Context, event Event) {
	if p == nil || p.backend == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode activity event", "type", event.Type, "error", err)
		return
	}

	attrs := map[string]string{"event": event.Type}
	if _, err := p.backend.Publish(ctx, ActivityChannel, data, attrs); err != nil {
		slog.ErrorContext(ctx, "failed to publish activity event", "type", event.Type, "error", err)
	}
}
