package redis

import (
	"auction-settlement/internal/domain"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// ClosureNotifier publishes closure notices on a Redis pub/sub channel.
type ClosureNotifier struct {
	client  *redis.Client
	channel string
	clock   domain.Clock
}

func NewClosureNotifier(client *redis.Client, channel string, clock domain.Clock) *ClosureNotifier {
	return &ClosureNotifier{client: client, channel: channel, clock: clock}
}

func (n *ClosureNotifier) NotifyClosed(ctx context.Context, auction *domain.Auction) error {
	event := &domain.AuctionEvent{
		Type:      domain.AuctionClosedEvent,
		AuctionID: auction.ID,
		Timestamp: n.clock.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: encode closure of %s: %w", domain.ErrNotification, auction.ID, err)
	}

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("%w: publish closure of %s: %w", domain.ErrNotification, auction.ID, err)
	}
	return nil
}
