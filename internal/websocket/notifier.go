package websocket

import (
	"encoding/json"
	"time"

	"github.com/wfunc/life-sim/internal/game"
	"go.uber.org/zap"
)

// Notifier 游戏事件推送器
// 把引擎产生的叙事和状态变化推送给会话的所有连接。
type Notifier struct {
	hub    *Hub
	logger *zap.Logger
}

// NewNotifier 创建推送器
func NewNotifier(hub *Hub, logger *zap.Logger) *Notifier {
	return &Notifier{
		hub:    hub,
		logger: logger,
	}
}

func (n *Notifier) push(sessionID, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("序列化推送数据失败",
			zap.String("session_id", sessionID),
			zap.String("type", msgType),
			zap.Error(err))
		return
	}

	msg := &Message{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	// 会话没有在线连接不算错误
	if err := n.hub.SendToSession(sessionID, msg); err != nil && err != ErrSessionNotConnected {
		n.logger.Warn("推送失败",
			zap.String("session_id", sessionID),
			zap.String("type", msgType),
			zap.Error(err))
	}
}

// NotifyYearSummary 推送年度结算叙事
func (n *Notifier) NotifyYearSummary(sessionID string, result *game.CommandResult) {
	n.push(sessionID, MessageTypeYearSummary, result)
}

// NotifyLifeEvent 推送单条叙事事件
func (n *Notifier) NotifyLifeEvent(sessionID string, result *game.CommandResult) {
	n.push(sessionID, MessageTypeLifeEvent, result)
}

// NotifyState 推送完整游戏状态
func (n *Notifier) NotifyState(sessionID string, snapshot *game.StateSnapshot) {
	n.push(sessionID, MessageTypeGameState, snapshot)

	if !snapshot.Alive {
		n.push(sessionID, MessageTypeGameOver, snapshot)
	}
}
