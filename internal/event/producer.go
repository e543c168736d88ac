// Package event publishes the service's domain events to Kafka.
package event

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/eaaniwezi/anirecs/pkg/kafka"
)

// Event types emitted by the service.
const (
	TypeUserRegistered = "anirecs.user.registered"
	TypeAnimeCreated   = "anirecs.anime.created"
	TypeAnimeDeleted   = "anirecs.anime.deleted"
)

const source = "anirecs-api"

// Publisher abstracts the Kafka producer so the service layer can be tested
// without brokers and the producer can be disabled by configuration.
type Publisher interface {
	Publish(ctx context.Context, key string, event kafka.Event) error
}

// Producer emits domain events. Publish failures are logged and swallowed;
// events are advisory and must never fail the originating request.
type Producer struct {
	publisher Publisher
	log       *slog.Logger
}

// NewProducer creates a domain event producer.
func NewProducer(publisher Publisher, log *slog.Logger) *Producer {
	return &Producer{publisher: publisher, log: log}
}

// UserRegistered emits an event for a newly registered account.
func (p *Producer) UserRegistered(ctx context.Context, userID int64, username string) {
	p.publish(ctx, strconv.FormatInt(userID, 10), kafka.NewEvent(TypeUserRegistered, source, map[string]any{
		"user_id":  userID,
		"username": username,
	}))
}

// AnimeCreated emits an event for a new catalog entry.
func (p *Producer) AnimeCreated(ctx context.Context, animeID int64, title string) {
	p.publish(ctx, strconv.FormatInt(animeID, 10), kafka.NewEvent(TypeAnimeCreated, source, map[string]any{
		"anime_id": animeID,
		"title":    title,
	}))
}

// AnimeDeleted emits an event for a removed catalog entry.
func (p *Producer) AnimeDeleted(ctx context.Context, animeID int64) {
	p.publish(ctx, strconv.FormatInt(animeID, 10), kafka.NewEvent(TypeAnimeDeleted, source, map[string]any{
		"anime_id": animeID,
	}))
}

func (p *Producer) publish(ctx context.Context, key string, event kafka.Event) {
	if p == nil || p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, key, event); err != nil {
		p.log.LogAttrs(ctx, slog.LevelWarn, "publish event failed",
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()),
		)
	}
}
