package provider

import (
	"shipcalc/internal/geo"
	"shipcalc/internal/httpx"
)

// CalcResult 距离计算结果
// 成功/失败二选一；始终携带产生它的 Dispatcher 供事后排查
// 仅能通过 Success/Failure 工厂构造
type CalcResult struct {
	distance   *geo.Distance
	errMessage string
	failed     bool
	dispatcher *httpx.Dispatcher
}

// Success 构造成功结果
func Success(distance *geo.Distance, dispatcher *httpx.Dispatcher) *CalcResult {
	if distance == nil {
		panic("provider: Success called with nil distance")
	}
	return &CalcResult{distance: distance, dispatcher: dispatcher}
}

// Failure 构造失败结果
func Failure(message string, dispatcher *httpx.Dispatcher) *CalcResult {
	if message == "" {
		message = "distance calculation failed"
	}
	return &CalcResult{errMessage: message, failed: true, dispatcher: dispatcher}
}

// IsError 是否为失败结果
func (r *CalcResult) IsError() bool {
	return r.failed
}

// Distance 获取距离（仅成功结果可调用，失败结果调用属编程错误）
func (r *CalcResult) Distance() *geo.Distance {
	if r.failed {
		panic("provider: Distance called on failure result")
	}
	return r.distance
}

// ErrorMessage 获取错误消息（仅失败结果可调用）
func (r *CalcResult) ErrorMessage() string {
	if !r.failed {
		panic("provider: ErrorMessage called on success result")
	}
	return r.errMessage
}

// Dispatcher 获取产生该结果的 Dispatcher（可能为 nil，如请求构造前即失败）
func (r *CalcResult) Dispatcher() *httpx.Dispatcher {
	return r.dispatcher
}
