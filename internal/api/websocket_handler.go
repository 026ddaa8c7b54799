package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/wfunc/life-sim/internal/middleware"
	ws "github.com/wfunc/life-sim/internal/websocket"
	"go.uber.org/zap"
)

// WebSocketHandler WebSocket处理器
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(hub *ws.Hub, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// 在生产环境中应该检查Origin
				return true
			},
		},
		logger: logger,
	}
}

// GameWebSocket 游戏推送连接
// 会话ID来自认证中间件，升级后注册到Hub并启动读写泵。
func (h *WebSocketHandler) GameWebSocket(c *gin.Context) {
	sessionID := middleware.SessionID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket升级失败",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, sessionID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
