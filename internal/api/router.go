package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/life-sim/internal/config"
	"github.com/wfunc/life-sim/internal/game"
	"github.com/wfunc/life-sim/internal/middleware"
	"github.com/wfunc/life-sim/internal/utils"
	ws "github.com/wfunc/life-sim/internal/websocket"
	"go.uber.org/zap"
)

// Router API路由器
type Router struct {
	engine         *gin.Engine
	sessions       *game.SessionManager
	hub            *ws.Hub
	lifeHandler    *LifeHandler
	wsHandler      *WebSocketHandler
	authMiddleware *middleware.AuthMiddleware
	log            *zap.Logger
}

// engineOptions 把配置映射成引擎平衡参数
func engineOptions(cfg *config.GameConfig) game.EngineOptions {
	return game.EngineOptions{
		ActionsPerYear:       cfg.ActionsPerYear,
		MaxLivingPets:        cfg.MaxLivingPets,
		MaxFriends:           cfg.MaxFriends,
		MaxChildren:          cfg.MaxChildren,
		MinFriendAge:         cfg.MinFriendAge,
		MinPartnerAge:        cfg.MinPartnerAge,
		BirthdayAllowance:    cfg.BirthdayAllowance,
		GraduationIntBonus:   cfg.GraduationIntBonus,
		DeathCheckAge:        cfg.DeathCheckAge,
		DeathChancePerYear:   cfg.DeathChancePerYear,
		QuitJobHappinessCost: cfg.QuitJobHappinessCost,
		AdoptHappinessBonus:  cfg.AdoptHappinessBonus,
	}
}

// NewRouter 创建路由器
func NewRouter(cfg *config.Config, log *zap.Logger) *Router {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建Gin引擎
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	// 创建会话管理器
	sessions := game.NewSessionManager(&game.SessionConfig{
		Logger:         log,
		EngineOptions:  engineOptions(&cfg.Game),
		SessionTimeout: cfg.Session.Timeout,
		MaxSessions:    cfg.Session.MaxSessions,
	})

	// 创建令牌管理器
	tokens := utils.NewTokenManager(
		cfg.Security.JWT.Secret,
		time.Duration(cfg.Security.JWT.ExpireHours)*time.Hour,
	)

	// 创建推送组件
	hub := ws.NewHub(log)
	notifier := ws.NewNotifier(hub, log)

	// 创建处理器
	lifeHandler := NewLifeHandler(sessions, tokens, notifier, log)
	wsHandler := NewWebSocketHandler(hub, log)

	// 创建中间件
	authMiddleware := middleware.NewAuthMiddleware(tokens)

	router := &Router{
		engine:         engine,
		sessions:       sessions,
		hub:            hub,
		lifeHandler:    lifeHandler,
		wsHandler:      wsHandler,
		authMiddleware: authMiddleware,
		log:            log,
	}

	// 设置路由
	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// API v1路由组
	v1 := r.engine.Group("/api/v1")
	{
		// 开局不需要令牌
		v1.POST("/game/start", r.lifeHandler.Start)

		// 其余操作需要会话令牌
		authed := v1.Group("")
		authed.Use(r.authMiddleware.RequireSession())
		{
			gameGroup := authed.Group("/game")
			{
				gameGroup.POST("/advance", r.lifeHandler.Advance)
				gameGroup.POST("/action", r.lifeHandler.PerformAction)
				gameGroup.POST("/event/choice", r.lifeHandler.ResolveEvent)
				gameGroup.GET("/state", r.lifeHandler.State)
				gameGroup.GET("/catalog", r.lifeHandler.Catalog)
				gameGroup.DELETE("/session", r.lifeHandler.EndSession)
			}

			career := authed.Group("/career")
			{
				career.POST("/apply", r.lifeHandler.ApplyForJob)
				career.POST("/quit", r.lifeHandler.QuitJob)
			}

			authed.POST("/education/enroll", r.lifeHandler.Enroll)

			relationships := authed.Group("/relationships")
			{
				relationships.POST("/interact", r.lifeHandler.Interact)
				relationships.POST("/friend", r.lifeHandler.FindFriend)
				relationships.POST("/partner", r.lifeHandler.FindPartner)
				relationships.POST("/child", r.lifeHandler.NameChild)
			}

			pets := authed.Group("/pets")
			{
				pets.POST("/adopt", r.lifeHandler.AdoptPet)
				pets.POST("/interact", r.lifeHandler.InteractWithPet)
				pets.POST("/put-down", r.lifeHandler.PutDownPet)
				pets.POST("/give-up", r.lifeHandler.GiveUpPet)
			}

			// WebSocket推送连接（令牌走query参数）
			authed.GET("/ws", r.wsHandler.GameWebSocket)
		}
	}
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"active_sessions": r.sessions.GetActiveSessions(),
		"online_clients":  r.hub.GetOnlineCount(),
	})
}

// Engine 返回底层gin引擎（测试用）
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Sessions 返回会话管理器
func (r *Router) Sessions() *game.SessionManager {
	return r.sessions
}

// Hub 返回WebSocket Hub
func (r *Router) Hub() *ws.Hub {
	return r.hub
}
