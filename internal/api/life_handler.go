package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/wfunc/life-sim/internal/errors"
	"github.com/wfunc/life-sim/internal/game"
	"github.com/wfunc/life-sim/internal/middleware"
	"github.com/wfunc/life-sim/internal/utils"
	ws "github.com/wfunc/life-sim/internal/websocket"
	"go.uber.org/zap"
)

// LifeHandler 人生模拟游戏处理器
type LifeHandler struct {
	sessions *game.SessionManager
	tokens   *utils.TokenManager
	notifier *ws.Notifier
	logger   *zap.Logger
}

// NewLifeHandler 创建游戏处理器
func NewLifeHandler(sessions *game.SessionManager, tokens *utils.TokenManager, notifier *ws.Notifier, logger *zap.Logger) *LifeHandler {
	return &LifeHandler{
		sessions: sessions,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
	}
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Details string              `json:"details,omitempty"`
}

// StartResponse 开局响应
type StartResponse struct {
	SessionID string              `json:"session_id"`
	Token     string              `json:"token"`
	Message   string              `json:"message"`
	State     *game.StateSnapshot `json:"state"`
}

// CommandResponse 通用操作响应
// 软性业务拒绝（条件不满足）也是200，由success区分。
type CommandResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Lines   []string            `json:"lines,omitempty"`
	State   *game.StateSnapshot `json:"state,omitempty"`
}

// respondError 按错误码映射HTTP状态码
func (h *LifeHandler) respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		})
		return
	}

	h.logger.Error("未分类的处理器错误", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    apperrors.ErrUnknown,
		Message: "内部错误",
	})
}

// session 从上下文恢复会话
func (h *LifeHandler) session(c *gin.Context) (*game.GameSession, bool) {
	session, err := h.sessions.GetSession(middleware.SessionID(c))
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return session, true
}

// respondCommand 返回操作结果并附带最新状态
func (h *LifeHandler) respondCommand(c *gin.Context, session *game.GameSession, result *game.CommandResult) {
	snapshot, err := session.Engine.Snapshot()
	if err != nil {
		h.respondError(c, err)
		return
	}

	if result.Success {
		h.notifier.NotifyLifeEvent(session.SessionID, result)
		h.notifier.NotifyState(session.SessionID, snapshot)
	}

	c.JSON(http.StatusOK, CommandResponse{
		Success: result.Success,
		Message: result.Message,
		Lines:   result.Lines,
		State:   snapshot,
	})
}

// Start 开始新的一局
func (h *LifeHandler) Start(c *gin.Context) {
	session, err := h.sessions.CreateSession(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.tokens.GenerateToken(session.SessionID)
	if err != nil {
		h.respondError(c, apperrors.Wrap(err, apperrors.ErrAuthentication))
		return
	}

	snapshot, err := session.Engine.Snapshot()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StartResponse{
		SessionID: session.SessionID,
		Token:     token,
		Message:   "Game started! You are now 0 years old.",
		State:     snapshot,
	})
}

// Advance 推进一年
func (h *LifeHandler) Advance(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	result, err := session.Engine.AdvanceYear()
	if err != nil {
		h.respondError(c, err)
		return
	}

	if result.Success {
		h.notifier.NotifyYearSummary(session.SessionID, result)
	}

	snapshot, err := session.Engine.Snapshot()
	if err != nil {
		h.respondError(c, err)
		return
	}
	if result.Success {
		h.notifier.NotifyState(session.SessionID, snapshot)
	}

	c.JSON(http.StatusOK, CommandResponse{
		Success: result.Success,
		Message: result.Message,
		Lines:   result.Lines,
		State:   snapshot,
	})
}

// State 查询当前状态
func (h *LifeHandler) State(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	snapshot, err := session.Engine.Snapshot()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// Catalog 查询静态目录
func (h *LifeHandler) Catalog(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, session.Engine.Catalog())
}

// ActionRequest 行动请求
type ActionRequest struct {
	Name string `json:"name" binding:"required"`
}

// PerformAction 执行年度行动
func (h *LifeHandler) PerformAction(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(err, apperrors.ErrInvalidParam))
		return
	}

	result, err := session.Engine.PerformAction(req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCommand(c, session, result)
}

// ChoiceRequest 事件选择请求
type ChoiceRequest struct {
	Choice string `json:"choice" binding:"required"`
}

// ResolveEvent 处理待选择事件
func (h *LifeHandler) ResolveEvent(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req ChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(err, apperrors.ErrInvalidParam))
		return
	}

	result, err := session.Engine.ResolveEvent(req.Choice)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCommand(c, session, result)
}

// CareerApplyRequest 求职请求
type CareerApplyRequest struct {
	Career string `json:"career" binding:"required"`
}

// ApplyForJob 申请职位
func (h *LifeHandler) ApplyForJob(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req CareerApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(err, apperrors.ErrInvalidParam))
		return
	}

	result, err := session.Engine.ApplyForJob(req.Career)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCommand(c, session, result)
}

// QuitJob 辞职
func (h *LifeHandler) QuitJob(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	result, err := session.Engine.QuitJob()
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCommand(c, session, result)
}

// EnrollRequest 入学请求
type EnrollRequest struct {
	Major string `json:"major" binding:"required"`
}

// Enroll 入学指定专业
func (h *LifeHandler) Enroll(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(err, apperrors.ErrInvalidParam))
		return
	}

	result, err := session.Engine.StartCollege(req.Major)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCommand(c, session, result)
}

// InteractRequest 关系互动请求
type InteractRequest struct {
	Name        string `json:"name" binding:"required"`
	Interaction string `json:"interaction" binding:"required"`
}

// Interact 与指定关系互动
func (h *LifeHandler) Interact(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req InteractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(err, apperrors.ErrInvalidParam))
		return
	}

	result, err := session.Engine.InteractWithRelationship(req.Name, req.Interaction)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCommand(c, session, result)
}

// FindFriend 结识新朋友
func (h *LifeHandler) FindFriend(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	result, err := session.Engine.FindFriend()
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCommand(c, session, result)
}

// FindPartner 寻找伴侣
func (h *LifeHandler) FindPartner(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	result, err := session.Engine.FindPartner()
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCommand(c, session, result)
}

// NameChildRequest 子女命名请求
type NameChildRequest struct {
	Name string `json:"name" binding:"required"`
}

// NameChild 命名并迎接子女
func (h *LifeHandler) NameChild(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req NameChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(err, apperrors.ErrInvalidParam))
		return
	}

	result, err := session.Engine.NameChild(req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCommand(c, session, result)
}

// AdoptRequest 领养请求
type AdoptRequest struct {
	Name    string `json:"name" binding:"required"`
	Species string `json:"species" binding:"required"`
}

// AdoptPet 领养宠物
func (h *LifeHandler) AdoptPet(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req AdoptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(err, apperrors.ErrInvalidParam))
		return
	}

	result, err := session.Engine.AdoptPet(req.Name, req.Species)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCommand(c, session, result)
}

// PetInteractRequest 宠物互动请求
type PetInteractRequest struct {
	Name        string `json:"name" binding:"required"`
	Interaction string `json:"interaction" binding:"required"`
}

// InteractWithPet 与宠物互动
func (h *LifeHandler) InteractWithPet(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req PetInteractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(err, apperrors.ErrInvalidParam))
		return
	}

	result, err := session.Engine.InteractWithPet(req.Name, req.Interaction)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCommand(c, session, result)
}

// PetNameRequest 按名字操作宠物的请求
type PetNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// PutDownPet 宠物安乐死
func (h *LifeHandler) PutDownPet(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req PetNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(err, apperrors.ErrInvalidParam))
		return
	}

	result, err := session.Engine.PutDownPet(req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCommand(c, session, result)
}

// GiveUpPet 宠物送养
func (h *LifeHandler) GiveUpPet(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req PetNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(err, apperrors.ErrInvalidParam))
		return
	}

	result, err := session.Engine.GiveUpPet(req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCommand(c, session, result)
}

// EndSession 主动结束会话
func (h *LifeHandler) EndSession(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if err := h.sessions.RemoveSession(sessionID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Session ended."})
}
