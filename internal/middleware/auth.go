package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/life-sim/internal/utils"
)

// SessionKey 上下文中会话ID的键
const SessionKey = "sessionID"

// AuthMiddleware 会话令牌认证中间件
type AuthMiddleware struct {
	tokenManager *utils.TokenManager
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(tokenManager *utils.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{
		tokenManager: tokenManager,
	}
}

// RequireSession 需要有效会话令牌的中间件
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "NO_TOKEN",
				"message": "缺少会话令牌",
			})
			c.Abort()
			return
		}

		// 验证令牌
		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "INVALID_TOKEN",
				"message": "无效的会话令牌",
				"details": err.Error(),
			})
			c.Abort()
			return
		}

		// 将会话信息存入上下文
		c.Set(SessionKey, claims.SessionID)
		c.Set("token", token)

		c.Next()
	}
}

// extractToken 从请求中提取令牌
// 优先级：Authorization头 > query参数 > cookie
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	// 从Authorization头提取
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	// 从query参数提取（WebSocket握手用）
	if token := c.Query("token"); token != "" {
		return token
	}

	// 从cookie提取
	if token, err := c.Cookie("session_token"); err == nil {
		return token
	}

	return ""
}

// SessionID 从上下文读取会话ID
func SessionID(c *gin.Context) string {
	return c.GetString(SessionKey)
}
