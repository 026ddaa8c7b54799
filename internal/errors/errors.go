package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// ErrorCode 错误码类型
type ErrorCode int

// 错误码定义（按模块分组）
const (
	// 通用错误 (1000-1999)
	ErrUnknown          ErrorCode = 1000
	ErrInvalidParam     ErrorCode = 1001
	ErrNotFound         ErrorCode = 1002
	ErrAlreadyExists    ErrorCode = 1003
	ErrPermissionDenied ErrorCode = 1004
	ErrTimeout          ErrorCode = 1005

	// 游戏生命周期错误 (2000-2999)
	ErrGameNotStarted     ErrorCode = 2000
	ErrGameAlreadyStarted ErrorCode = 2001
	ErrGameOver           ErrorCode = 2002
	ErrInvalidStatKind    ErrorCode = 2003
	ErrUnknownAction      ErrorCode = 2004
	ErrActionUnavailable  ErrorCode = 2005
	ErrInvalidChoice      ErrorCode = 2006
	ErrNoPendingEvent     ErrorCode = 2007

	// 教育/职业错误 (3000-3999)
	ErrUnknownMajor  ErrorCode = 3000
	ErrUnknownCareer ErrorCode = 3001

	// 人际关系错误 (4000-4999)
	ErrRelationshipNotFound ErrorCode = 4000
	ErrUnknownInteraction   ErrorCode = 4001

	// 宠物错误 (5000-5999)
	ErrPetNotFound       ErrorCode = 5000
	ErrUnknownPetSpecies ErrorCode = 5001
	ErrUnknownPetAction  ErrorCode = 5002

	// 会话错误 (6000-6999)
	ErrSessionNotFound ErrorCode = 6000
	ErrSessionExists   ErrorCode = 6001
	ErrSessionLimit    ErrorCode = 6002

	// 配置错误 (7000-7999)
	ErrConfigLoad     ErrorCode = 7000
	ErrConfigParse    ErrorCode = 7001
	ErrConfigValidate ErrorCode = 7002

	// 安全错误 (8000-8999)
	ErrAuthentication ErrorCode = 8000
	ErrTokenExpired   ErrorCode = 8001
	ErrTokenInvalid   ErrorCode = 8002
)

// 错误码消息映射
var errorMessages = map[ErrorCode]string{
	// 通用错误
	ErrUnknown:          "未知错误",
	ErrInvalidParam:     "无效的参数",
	ErrNotFound:         "资源未找到",
	ErrAlreadyExists:    "资源已存在",
	ErrPermissionDenied: "权限不足",
	ErrTimeout:          "操作超时",

	// 游戏生命周期错误
	ErrGameNotStarted:     "游戏未开始",
	ErrGameAlreadyStarted: "游戏已经开始",
	ErrGameOver:           "游戏已结束",
	ErrInvalidStatKind:    "无效的属性类型",
	ErrUnknownAction:      "未知的行动",
	ErrActionUnavailable:  "行动当前不可用",
	ErrInvalidChoice:      "无效的事件选项",
	ErrNoPendingEvent:     "没有待处理的事件",

	// 教育/职业错误
	ErrUnknownMajor:  "未知的专业",
	ErrUnknownCareer: "未知的职业",

	// 人际关系错误
	ErrRelationshipNotFound: "人际关系不存在",
	ErrUnknownInteraction:   "未知的互动类型",

	// 宠物错误
	ErrPetNotFound:       "宠物不存在",
	ErrUnknownPetSpecies: "未知的宠物种类",
	ErrUnknownPetAction:  "未知的宠物互动",

	// 会话错误
	ErrSessionNotFound: "会话未找到",
	ErrSessionExists:   "会话已存在",
	ErrSessionLimit:    "会话数量已达上限",

	// 配置错误
	ErrConfigLoad:     "配置加载失败",
	ErrConfigParse:    "配置解析失败",
	ErrConfigValidate: "配置验证失败",

	// 安全错误
	ErrAuthentication: "认证失败",
	ErrTokenExpired:   "令牌已过期",
	ErrTokenInvalid:   "无效的令牌",
}

// AppError 应用错误结构
type AppError struct {
	Code    ErrorCode    `json:"code"`            // 错误码
	Message string       `json:"message"`         // 错误消息
	Details string       `json:"details"`         // 详细信息
	Cause   error        `json:"-"`               // 原始错误
	Stack   []StackFrame `json:"stack,omitempty"` // 调用栈
}

// StackFrame 调用栈帧
type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause 添加原因错误
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	if cause != nil && e.Details == "" {
		e.Details = cause.Error()
	}
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, details ...string) *AppError {
	message, ok := errorMessages[code]
	if !ok {
		message = errorMessages[ErrUnknown]
	}

	err := &AppError{
		Code:    code,
		Message: message,
	}

	if len(details) > 0 {
		err.Details = strings.Join(details, "; ")
	}

	// 捕获调用栈
	err.captureStack(2)

	return err
}

// Newf 创建格式化的应用错误
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	details := fmt.Sprintf(format, args...)
	return New(code, details)
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, details ...string) *AppError {
	if err == nil {
		return nil
	}

	// 如果已经是AppError，保留原始错误码
	if appErr, ok := err.(*AppError); ok {
		if len(details) > 0 {
			appErr.Details = strings.Join(details, "; ") + "; " + appErr.Details
		}
		return appErr
	}

	appErr := New(code, details...)
	appErr.Cause = err
	if appErr.Details == "" {
		appErr.Details = err.Error()
	}

	return appErr
}

// Wrapf 包装格式化错误
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	details := fmt.Sprintf(format, args...)
	return Wrap(err, code, details)
}

// Is 判断错误是否为指定错误码
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// GetCode 获取错误码
func GetCode(err error) ErrorCode {
	if err == nil {
		return 0
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}

	return ErrUnknown
}

// captureStack 捕获调用栈
func (e *AppError) captureStack(skip int) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)

	if n > 0 {
		frames := runtime.CallersFrames(pcs[:n])
		for {
			frame, more := frames.Next()

			// 跳过runtime和本包的调用
			if strings.Contains(frame.Function, "runtime.") ||
				strings.Contains(frame.Function, "github.com/wfunc/life-sim/internal/errors") {
				if !more {
					break
				}
				continue
			}

			e.Stack = append(e.Stack, StackFrame{
				Function: frame.Function,
				File:     frame.File,
				Line:     frame.Line,
			})

			if !more {
				break
			}

			// 只保留前10个栈帧
			if len(e.Stack) >= 10 {
				break
			}
		}
	}
}

// GetStack 获取格式化的调用栈
func (e *AppError) GetStack() string {
	if len(e.Stack) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, frame := range e.Stack {
		builder.WriteString(fmt.Sprintf("%d. %s\n   %s:%d\n",
			i+1, frame.Function, frame.File, frame.Line))
	}

	return builder.String()
}

// HTTPStatus 返回对应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	switch {
	case e.Code == ErrInvalidParam || e.Code == ErrInvalidStatKind ||
		e.Code == ErrInvalidChoice || e.Code == ErrNoPendingEvent:
		return 400 // Bad Request
	case e.Code == ErrNotFound || e.Code == ErrSessionNotFound ||
		e.Code == ErrUnknownAction || e.Code == ErrUnknownMajor ||
		e.Code == ErrUnknownCareer || e.Code == ErrRelationshipNotFound ||
		e.Code == ErrUnknownInteraction || e.Code == ErrPetNotFound ||
		e.Code == ErrUnknownPetSpecies || e.Code == ErrUnknownPetAction:
		return 404 // Not Found
	case e.Code == ErrAlreadyExists || e.Code == ErrSessionExists ||
		e.Code == ErrGameAlreadyStarted || e.Code == ErrGameNotStarted ||
		e.Code == ErrGameOver:
		return 409 // Conflict
	case e.Code == ErrPermissionDenied:
		return 403 // Forbidden
	case e.Code >= ErrAuthentication && e.Code <= ErrTokenInvalid:
		return 401 // Unauthorized
	case e.Code == ErrSessionLimit:
		return 429 // Too Many Requests
	case e.Code == ErrTimeout:
		return 408 // Request Timeout
	default:
		return 500 // Internal Server Error
	}
}
