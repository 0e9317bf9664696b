package websocket

import (
	"auction-settlement/internal/domain"
	"context"
)

type WebSocketBroadcaster struct {
	connManager domain.ConnectionManager
}

func NewWebSocketBroadcaster(connManager domain.ConnectionManager) *WebSocketBroadcaster {
	return &WebSocketBroadcaster{connManager: connManager}
}

func (n *WebSocketBroadcaster) BroadcastToAuction(ctx context.Context, auctionID string, message interface{}) error {
	return n.connManager.BroadcastToAuction(auctionID, message)
}
