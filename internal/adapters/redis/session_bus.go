package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultSignOutChannel is the pub/sub channel carrying terminated session ids.
const DefaultSignOutChannel = "spps:auth:signout"

// SessionBus fans sign-outs out to every process sharing the Redis instance.
type SessionBus struct {
	client  redis.UniversalClient
	channel string
	logger  *slog.Logger
}

// SessionBusOptions configures a SessionBus.
type SessionBusOptions struct {
	Client  redis.UniversalClient
	Channel string
	Logger  *slog.Logger
}

// NewSessionBus creates a SessionBus.
func NewSessionBus(opts SessionBusOptions) *SessionBus {
	ch := opts.Channel
	if ch == "" {
		ch = DefaultSignOutChannel
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionBus{client: opts.Client, channel: ch, logger: logger.With("component", "session_bus")}
}

// PublishSignOut announces that sessionID has ended.
func (b *SessionBus) PublishSignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := b.client.Publish(ctx, b.channel, sessionID).Err(); err != nil {
		return fmt.Errorf("publish signout: %w", err)
	}
	return nil
}

// Listen calls fn for each announced sign-out until ctx is done.
func (b *SessionBus) Listen(ctx context.Context, fn func(sessionID string)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer func() {
		if err := sub.Close(); err != nil {
			b.logger.WarnContext(ctx, "close signout subscription", "error", err)
		}
	}()

	// Wait for the subscription confirmation before consuming messages.
	if _, err := sub.Receive(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			fn(msg.Payload)
		}
	}
}
