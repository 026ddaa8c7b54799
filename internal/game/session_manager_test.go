package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/wfunc/life-sim/internal/errors"
	"go.uber.org/zap"
)

func newTestSessionManager(maxSessions int, timeout time.Duration) *SessionManager {
	return NewSessionManager(&SessionConfig{
		Logger:         zap.NewNop(),
		EngineOptions:  DefaultEngineOptions(),
		SessionTimeout: timeout,
		MaxSessions:    maxSessions,
	})
}

func TestCreateSession(t *testing.T) {
	sm := newTestSessionManager(10, time.Hour)

	session, err := sm.CreateSession(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, 1, sm.GetActiveSessions())

	// 会话创建时已开局
	snapshot, err := session.Engine.Snapshot()
	require.NoError(t, err)
	assert.True(t, snapshot.Alive)
	assert.Equal(t, 0, snapshot.Stats.Age)
}

func TestCreateSession_Limit(t *testing.T) {
	sm := newTestSessionManager(2, time.Hour)

	_, err := sm.CreateSession(context.Background())
	require.NoError(t, err)
	_, err = sm.CreateSession(context.Background())
	require.NoError(t, err)

	_, err = sm.CreateSession(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSessionLimit))
}

func TestGetSession(t *testing.T) {
	sm := newTestSessionManager(10, time.Hour)

	created, err := sm.CreateSession(context.Background())
	require.NoError(t, err)

	got, err := sm.GetSession(created.SessionID)
	require.NoError(t, err)
	assert.Same(t, created, got)

	_, err = sm.GetSession("no-such-session")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSessionNotFound))
}

func TestRemoveSession(t *testing.T) {
	sm := newTestSessionManager(10, time.Hour)

	session, err := sm.CreateSession(context.Background())
	require.NoError(t, err)

	require.NoError(t, sm.RemoveSession(session.SessionID))
	assert.Equal(t, 0, sm.GetActiveSessions())

	err = sm.RemoveSession(session.SessionID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSessionNotFound))
}

func TestCleanupInactiveSessions(t *testing.T) {
	sm := newTestSessionManager(10, 10*time.Millisecond)

	session, err := sm.CreateSession(context.Background())
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	sm.CleanupInactiveSessions()

	assert.Equal(t, 0, sm.GetActiveSessions())
	_, err = sm.GetSession(session.SessionID)
	require.Error(t, err)
}

func TestGetSessionStats(t *testing.T) {
	sm := newTestSessionManager(10, time.Hour)

	session, err := sm.CreateSession(context.Background())
	require.NoError(t, err)

	stats, err := sm.GetSessionStats(session.SessionID)
	require.NoError(t, err)

	assert.Equal(t, session.SessionID, stats["session_id"])
	assert.Equal(t, 0, stats["age"])
	assert.Equal(t, true, stats["alive"])
}
