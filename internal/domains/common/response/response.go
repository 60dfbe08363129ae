package response

import (
	"errors"

	"shipcalc/internal/domains/common/job"
	"shipcalc/pkg/errorx"
)

// ResultI 业务结果接口
type ResultI interface {
	// Set 设置元数据和错误
	Set(meta *job.Meta, err error)

	// GetStatus 获取状态
	GetStatus() string
}

// Response 统一响应结构
type Response struct {
	Error     *ErrorInfo  `json:"error"`
	Result    ResultI     `json:"result"`
	Processed bool        `json:"processed"`
	Meta      interface{} `json:"meta"`
}

// ErrorInfo 序列化用的错误信息
type ErrorInfo struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// WrapResponse 包装响应
func (r *Response) WrapResponse(result ResultI, meta *job.Meta, err error) {
	result.Set(meta, err)

	if err == nil {
		r.Processed = true
	}
	r.Meta = meta
	r.Error = unwrapError(err)
	r.Result = result
}

// Retryable 响应对应的错误是否可重试
func (r *Response) Retryable() bool {
	return r.Error != nil && r.Error.Retryable
}

// unwrapError 将 error 转换为可序列化的错误信息
func unwrapError(err error) *ErrorInfo {
	if err == nil {
		return nil
	}

	var ex *errorx.Error
	if errors.As(err, &ex) {
		return &ErrorInfo{
			Kind:      ex.Kind.String(),
			Message:   ex.Message,
			Retryable: ex.Retryable,
		}
	}

	return &ErrorInfo{
		Kind:    errorx.KindUnknown.String(),
		Message: err.Error(),
	}
}
