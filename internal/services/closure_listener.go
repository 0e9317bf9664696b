package services

import (
	"context"
	"fmt"

	"auction-settlement/internal/domain"
	"auction-settlement/pkg/logger"
)

// ClosureListener reacts to closure notices: it flags the auction closed in
// the state cache, tells its watchers and drops their connections.
type ClosureListener struct {
	stateCache        domain.AuctionStateCache
	broadcaster       domain.AuctionBroadcaster
	connectionManager domain.ConnectionManager
	log               logger.Logger
}

func NewClosureListener(stateCache domain.AuctionStateCache, connectionManager domain.ConnectionManager,
	broadcaster domain.AuctionBroadcaster, log logger.Logger) *ClosureListener {
	return &ClosureListener{
		stateCache:        stateCache,
		broadcaster:       broadcaster,
		connectionManager: connectionManager,
		log:               log,
	}
}

func (cl *ClosureListener) Start(ctx context.Context, subscriber domain.EventSubscriber) error {
	cl.log.Info("Starting closure listener")
	return subscriber.SubscribeToAuctionEvents(ctx, cl.handleEvent)
}

func (cl *ClosureListener) handleEvent(event *domain.AuctionEvent) error {
	cl.log.Info("Handling auction event", "type", event.Type, "auction_id", event.AuctionID)

	switch event.Type {
	case domain.AuctionClosedEvent:
		return cl.handleAuctionClosed(event)
	}

	return fmt.Errorf("unknown event type %q for auction %s", event.Type, event.AuctionID)
}

func (cl *ClosureListener) handleAuctionClosed(event *domain.AuctionEvent) error {
	ctx := context.Background()

	if err := cl.stateCache.SetAuctionStatus(ctx, event.AuctionID, domain.AuctionClosed); err != nil {
		cl.log.Error("Failed to cache auction status", "auction_id", event.AuctionID, "error", err)
		return err
	}

	// Final broadcast
	if err := cl.broadcaster.BroadcastToAuction(ctx, event.AuctionID, map[string]interface{}{
		"type":       string(domain.AuctionClosedEvent),
		"auction_id": event.AuctionID,
		"timestamp":  event.Timestamp,
	}); err != nil {
		cl.log.Error("Failed to broadcast auction closed event", "error", err)
		return err
	}

	if err := cl.connectionManager.CloseAndUnregisterConnections(event.AuctionID); err != nil {
		cl.log.Error("Failed to finalize connections for auction", "auction_id",
			event.AuctionID, "error", err)
		return err
	}
	return nil
}
