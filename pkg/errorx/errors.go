package errorx

import (
	"errors"
	"fmt"
)

// 定义业务错误（预留）
var (
	ErrQuoteNotFound    = errors.New("quote not found")
	ErrProviderNotFound = errors.New("provider not found")
	ErrDuplicateQuote   = errors.New("duplicate quote")
)

// Kind 错误类别
type Kind int

const (
	// KindUnknown 未分类错误
	KindUnknown Kind = iota
	// KindInvalidArgument 构造参数非法（单位错误、经纬度越界等）
	KindInvalidArgument
	// KindTypeMismatch 访问了 Location 的错误变体
	KindTypeMismatch
	// KindInvalidState 对象构造时校验失败，处于不可用状态
	KindInvalidState
	// KindNetworkError HTTP 传输失败（连接失败等）
	KindNetworkError
	// KindNetworkTimeout HTTP 请求超时
	KindNetworkTimeout
	// KindProviderError 服务商返回了业务失败（key 无效、配额超限等）
	KindProviderError
)

// String 返回类别名（用于日志与序列化）
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindTypeMismatch:
		return "type_mismatch"
	case KindInvalidState:
		return "invalid_state"
	case KindNetworkError:
		return "network_error"
	case KindNetworkTimeout:
		return "network_timeout"
	case KindProviderError:
		return "provider_error"
	default:
		return "unknown"
	}
}

// Error 错误结构（包含类别与可重试标记）
type Error struct {
	Kind      Kind   `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// Error 实现 error 接口
func (e *Error) Error() string {
	return e.Message
}

// New 创建指定类别的错误
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:      kind,
		Message:   message,
		Retryable: kind == KindNetworkError || kind == KindNetworkTimeout,
	}
}

// Newf 创建指定类别的错误（格式化消息）
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// KindOf 提取错误类别（非 *Error 返回 KindUnknown）
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Wrap 包装错误（已经是 *Error 则直接返回）
func Wrap(err error, kind Kind) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return New(kind, err.Error())
}
