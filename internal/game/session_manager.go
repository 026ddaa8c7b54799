package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/wfunc/life-sim/internal/errors"
	"go.uber.org/zap"
)

// GameSession 一局游戏会话
type GameSession struct {
	SessionID    string
	Engine       *LifeEngine
	StartTime    time.Time
	LastActivity time.Time
	mu           sync.RWMutex
}

// UpdateActivity 更新活动时间
func (gs *GameSession) UpdateActivity() {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.LastActivity = time.Now()
}

// SessionConfig 会话管理器配置
type SessionConfig struct {
	Logger         *zap.Logger
	EngineOptions  EngineOptions
	SessionTimeout time.Duration
	MaxSessions    int
}

// SessionManager 游戏会话管理器
// 每个会话持有独立的引擎实例与随机源。
type SessionManager struct {
	mu             sync.RWMutex
	sessions       map[string]*GameSession
	logger         *zap.Logger
	opts           EngineOptions
	sessionTimeout time.Duration
	maxSessions    int
	newRNG         func() RandomGenerator
}

// NewSessionManager 创建会话管理器
func NewSessionManager(config *SessionConfig) *SessionManager {
	return &SessionManager{
		sessions:       make(map[string]*GameSession),
		logger:         config.Logger,
		opts:           config.EngineOptions,
		sessionTimeout: config.SessionTimeout,
		maxSessions:    config.MaxSessions,
		newRNG:         func() RandomGenerator { return NewRandomGenerator() },
	}
}

// CreateSession 创建新会话并立即开局
func (sm *SessionManager) CreateSession(ctx context.Context) (*GameSession, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	// 检查会话数量限制
	if len(sm.sessions) >= sm.maxSessions {
		return nil, apperrors.New(apperrors.ErrSessionLimit, "会话数量已达上限")
	}

	sessionID := uuid.New().String()
	if _, exists := sm.sessions[sessionID]; exists {
		return nil, apperrors.Newf(apperrors.ErrSessionExists, "会话已存在: %s", sessionID)
	}

	engine := NewLifeEngine(sm.opts, sm.newRNG())
	if _, err := engine.StartGame(); err != nil {
		return nil, err
	}

	session := &GameSession{
		SessionID:    sessionID,
		Engine:       engine,
		StartTime:    time.Now(),
		LastActivity: time.Now(),
	}
	sm.sessions[sessionID] = session

	sm.logger.Info("创建游戏会话",
		zap.String("session_id", sessionID))

	return session, nil
}

// GetSession 获取会话
func (sm *SessionManager) GetSession(sessionID string) (*GameSession, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, apperrors.Newf(apperrors.ErrSessionNotFound, "会话不存在: %s", sessionID)
	}

	// 更新活动时间
	session.UpdateActivity()

	return session, nil
}

// RemoveSession 移除会话
func (sm *SessionManager) RemoveSession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return apperrors.Newf(apperrors.ErrSessionNotFound, "会话不存在: %s", sessionID)
	}

	delete(sm.sessions, sessionID)

	sm.logger.Info("移除游戏会话",
		zap.String("session_id", sessionID),
		zap.Duration("lifetime", time.Since(session.StartTime)))

	return nil
}

// CleanupInactiveSessions 清理不活跃的会话
func (sm *SessionManager) CleanupInactiveSessions() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	var toRemove []string

	for sessionID, session := range sm.sessions {
		if now.Sub(session.LastActivity) > sm.sessionTimeout {
			toRemove = append(toRemove, sessionID)
		}
	}

	for _, sessionID := range toRemove {
		session := sm.sessions[sessionID]
		delete(sm.sessions, sessionID)

		sm.logger.Info("清理超时会话",
			zap.String("session_id", sessionID),
			zap.Duration("inactive", now.Sub(session.LastActivity)))
	}
}

// StartCleanupTask 启动清理任务
func (sm *SessionManager) StartCleanupTask(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				sm.logger.Info("停止会话清理任务")
				return
			case <-ticker.C:
				sm.CleanupInactiveSessions()
			}
		}
	}()
}

// GetActiveSessions 获取活跃会话数
func (sm *SessionManager) GetActiveSessions() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// GetSessionStats 获取会话统计
func (sm *SessionManager) GetSessionStats(sessionID string) (map[string]interface{}, error) {
	session, err := sm.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	snapshot, err := session.Engine.Snapshot()
	if err != nil {
		return nil, err
	}

	session.mu.RLock()
	defer session.mu.RUnlock()

	return map[string]interface{}{
		"session_id": session.SessionID,
		"start_time": session.StartTime,
		"duration":   time.Since(session.StartTime).Seconds(),
		"age":        snapshot.Stats.Age,
		"alive":      snapshot.Alive,
	}, nil
}
