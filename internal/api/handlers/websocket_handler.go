package handlers

import (
	"net/http"

	"auction-settlement/internal/domain"
	"auction-settlement/internal/infrastructure/websocket"
	"auction-settlement/pkg/logger"

	"github.com/gorilla/mux"
)

type WebSocketHandlers struct {
	wsHandler *websocket.WebSocketHandler
}

func NewWebSocketHandlers(stateCache domain.AuctionStateCache,
	connManager *websocket.ConnectionManager, log logger.Logger) *WebSocketHandlers {
	return &WebSocketHandlers{
		wsHandler: websocket.NewWebSocketHandler(stateCache, connManager, log),
	}
}

// Register mounts the watch endpoint on the notification router.
func (h *WebSocketHandlers) Register(r *mux.Router) {
	r.HandleFunc("/ws/auction/{auctionID}", h.HandleConnection).Methods(http.MethodGet)
}

func (h *WebSocketHandlers) HandleConnection(w http.ResponseWriter, r *http.Request) {
	h.wsHandler.HandleConnection(w, r)
}
