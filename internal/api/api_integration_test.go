package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/life-sim/internal/config"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Game: config.GameConfig{
			ActionsPerYear:       3,
			MaxLivingPets:        3,
			MaxFriends:           3,
			MaxChildren:          3,
			MinFriendAge:         6,
			MinPartnerAge:        16,
			BirthdayAllowance:    10.0,
			GraduationIntBonus:   10,
			DeathCheckAge:        70,
			DeathChancePerYear:   0.01,
			QuitJobHappinessCost: 10,
			AdoptHappinessBonus:  10,
		},
		Session: config.SessionConfig{
			MaxSessions: 100,
			Timeout:     time.Hour,
		},
		Security: config.SecurityConfig{
			JWT: config.JWTConfig{Secret: "test-secret", ExpireHours: 1},
		},
	}
}

func setupTestRouter(t *testing.T) *Router {
	gin.SetMode(gin.TestMode)
	return NewRouter(testConfig(), zap.NewNop())
}

// startGame 开局并返回会话令牌
func startGame(t *testing.T, router *Router) (token string, sessionID string) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/game/start", nil)
	router.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp StartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.SessionID)

	return resp.Token, resp.SessionID
}

func doJSON(router *Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.Engine().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestStartGame_API(t *testing.T) {
	router := setupTestRouter(t)

	token, _ := startGame(t, router)

	// 开局后状态可查
	w := doJSON(router, http.MethodGet, "/api/v1/game/state", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var state map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, true, state["alive"])
	assert.Equal(t, float64(3), state["actions_left"])
}

func TestAuthRequired(t *testing.T) {
	router := setupTestRouter(t)

	// 没有令牌
	w := doJSON(router, http.MethodPost, "/api/v1/game/advance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 伪造令牌
	w = doJSON(router, http.MethodPost, "/api/v1/game/advance", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdvanceYear_API(t *testing.T) {
	router := setupTestRouter(t)
	token, _ := startGame(t, router)

	w := doJSON(router, http.MethodPost, "/api/v1/game/advance", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CommandResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.State)
	assert.Equal(t, 1, resp.State.Stats.Age)
}

func TestPerformAction_API(t *testing.T) {
	router := setupTestRouter(t)
	token, _ := startGame(t, router)

	t.Run("0岁行动被软性拒绝", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/game/action", token, gin.H{"name": "study"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp CommandResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
	})

	t.Run("未知行动返回404", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/game/action", token, gin.H{"name": "rob_bank"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("缺少参数返回400", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/game/action", token, gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCatalog_API(t *testing.T) {
	router := setupTestRouter(t)
	token, _ := startGame(t, router)

	w := doJSON(router, http.MethodGet, "/api/v1/game/catalog", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var catalog map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	assert.Contains(t, catalog, "actions")
	assert.Contains(t, catalog, "majors")
	assert.Contains(t, catalog, "careers")
	assert.Contains(t, catalog, "species")
}

func TestCareer_API(t *testing.T) {
	router := setupTestRouter(t)
	token, _ := startGame(t, router)

	t.Run("未知职业返回404", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/career/apply", token, gin.H{"career": "wizard"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("条件不足软性拒绝", func(t *testing.T) {
		// 0岁申请任何工作都不满足年龄门槛
		w := doJSON(router, http.MethodPost, "/api/v1/career/apply", token, gin.H{"career": "retail"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp CommandResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
	})

	t.Run("没有工作时辞职软性拒绝", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/career/quit", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp CommandResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
	})
}

func TestPets_API(t *testing.T) {
	router := setupTestRouter(t)
	token, _ := startGame(t, router)

	t.Run("未知物种返回404", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/pets/adopt", token, gin.H{"name": "Spot", "species": "DRAGON"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("钱不够软性拒绝", func(t *testing.T) {
		// 初始财富为0
		w := doJSON(router, http.MethodPost, "/api/v1/pets/adopt", token, gin.H{"name": "Rex", "species": "DOG"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp CommandResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
	})

	t.Run("宠物不存在返回404", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/pets/interact", token, gin.H{"name": "Ghost", "interaction": "Play"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRelationships_API(t *testing.T) {
	router := setupTestRouter(t)
	token, _ := startGame(t, router)

	t.Run("与家人互动", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/relationships/interact", token,
			gin.H{"name": "Mom", "interaction": "Spend time together"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp CommandResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	})

	t.Run("关系不存在返回404", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/relationships/interact", token,
			gin.H{"name": "Stranger", "interaction": "Hang out"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("0岁不能交朋友", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/relationships/friend", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp CommandResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
	})
}

func TestEndSession_API(t *testing.T) {
	router := setupTestRouter(t)
	token, _ := startGame(t, router)

	w := doJSON(router, http.MethodDelete, "/api/v1/game/session", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 会话删除后状态不可查
	w = doJSON(router, http.MethodGet, "/api/v1/game/state", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionLimit_API(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Session.MaxSessions = 1
	router := NewRouter(cfg, zap.NewNop())

	startGame(t, router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/game/start", nil)
	router.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
