package quote

import (
	"shipcalc/internal/domains/common/job"
	"shipcalc/internal/model"
)

// QuoteResulter 报价结果容器（实现 response.ResultI）
type QuoteResulter struct {
	QuoteID string                 `json:"quote_id"`
	Status  string                 `json:"status"`
	Data    *model.QuoteResultData `json:"data,omitempty"`
}

// NewQuoteResulter 创建报价结果容器
func NewQuoteResulter() *QuoteResulter {
	return &QuoteResulter{}
}

// Set 设置元数据和错误
func (r *QuoteResulter) Set(meta *job.Meta, err error) {
	if r.QuoteID == "" && meta != nil {
		r.QuoteID = meta.ID
	}
	if err != nil && r.Status == "" {
		r.Status = model.QuoteStatusFailed
	}
}

// GetStatus 获取状态
func (r *QuoteResulter) GetStatus() string {
	return r.Status
}
