package quote

import (
	"context"
	"encoding/json"
	"fmt"

	bizquote "shipcalc/internal/business/quote"
	"shipcalc/internal/domains/common"
	"shipcalc/internal/domains/common/job"
	"shipcalc/internal/domains/common/response"
	"shipcalc/internal/model"
)

// QuoteHandler 报价计算 Handler
type QuoteHandler struct {
	ctx     context.Context
	meta    *job.Meta
	bizData *model.QuoteBusinessData
}

// NewQuoteHandler 创建报价 Handler
// 解析标准化 Job 消息
func NewQuoteHandler(ctx context.Context, meta *job.Meta, payload interface{}) (common.HandlerServ, error) {
	// 解析 payload（业务数据）
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload failed: %w", err)
	}

	var bizData model.QuoteBusinessData
	if err := json.Unmarshal(payloadBytes, &bizData); err != nil {
		return nil, fmt.Errorf("unmarshal business data failed: %w", err)
	}

	// 校验必填字段
	if bizData.QuoteID == "" {
		return nil, fmt.Errorf("quote_id is required")
	}
	if bizData.Origin == nil || bizData.Destination == nil {
		return nil, fmt.Errorf("origin and destination are required")
	}

	return &QuoteHandler{
		ctx:     ctx,
		meta:    meta,
		bizData: &bizData,
	}, nil
}

// GetProcess 处理报价请求
func (h *QuoteHandler) GetProcess() *response.Response {
	result := NewQuoteResulter()
	result.QuoteID = h.bizData.QuoteID

	err := h.process(result)

	resp := &response.Response{}
	resp.WrapResponse(result, h.meta, err)

	return resp
}

// process 业务处理逻辑
func (h *QuoteHandler) process(result *QuoteResulter) error {
	// 从 Context 获取报价服务
	service, ok := h.ctx.Value("quote_service").(*bizquote.Service)
	if !ok || service == nil {
		return fmt.Errorf("quote service not found in context")
	}

	input := &bizquote.Input{
		QuoteID:     h.bizData.QuoteID,
		RequestID:   h.meta.RequestID,
		Provider:    h.bizData.Provider,
		Origin:      locationFromPayload(h.bizData.Origin),
		Destination: locationFromPayload(h.bizData.Destination),
		Order:       orderFromPayload(h.bizData.Order),
	}

	output, err := service.Execute(h.ctx, input)
	if err != nil {
		return err
	}

	result.Status = output.Status
	result.Data = output.Result

	return nil
}
