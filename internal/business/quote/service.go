package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shipcalc/internal/model"
	"shipcalc/pkg/infra/mysql"
	"shipcalc/pkg/infra/redis"
	"shipcalc/pkg/lmstfy"
	"shipcalc/pkg/logger"
)

// Service 报价服务（worker 侧）
// 职责：执行计算 → 落库 → Redis 通知 → 回调队列
type Service struct {
	calculator    *Calculator
	quoteDAO      *mysql.QuoteDAO
	pubsub        *redis.PubSub
	lmstfyClient  *lmstfy.Client
	callbackQueue string
	logger        logger.Logger
}

// NewService 创建报价服务实例
func NewService(
	calculator *Calculator,
	quoteDAO *mysql.QuoteDAO,
	pubsub *redis.PubSub,
	lmstfyClient *lmstfy.Client,
	callbackQueue string,
	log logger.Logger,
) *Service {
	return &Service{
		calculator:    calculator,
		quoteDAO:      quoteDAO,
		pubsub:        pubsub,
		lmstfyClient:  lmstfyClient,
		callbackQueue: callbackQueue,
		logger:        log,
	}
}

// Execute 执行报价计算并广播结果
// 返回 error 表示基础设施故障（计算结果无法落库），调用方应重投消息
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	output, err := s.calculator.Calculate(ctx, input)
	if err != nil {
		return nil, err
	}

	// 1. 落库
	errorMsg := ""
	if output.Status == model.QuoteStatusFailed && output.Result != nil {
		errorMsg = output.Result.FailureReason
	}
	if err := s.quoteDAO.UpdateResult(ctx, input.QuoteID, output.Result, output.Status, errorMsg); err != nil {
		return nil, fmt.Errorf("persist quote result failed: %w", err)
	}

	// 2. Redis 通知（Smart Wait 等待方）
	// 通知失败只降级为轮询，不影响主流程
	notification := &model.QuoteNotification{
		QuoteID:   input.QuoteID,
		Status:    output.Status,
		Timestamp: time.Now().Unix(),
	}
	if err := s.pubsub.PublishQuoteComplete(ctx, notification); err != nil {
		s.logger.Warnf(ctx, "[Service] publish notification failed: quote_id=%s, error=%v", input.QuoteID, err)
	}

	// 3. 回调队列
	if err := s.sendCallback(ctx, input, output); err != nil {
		s.logger.Warnf(ctx, "[Service] send callback failed: quote_id=%s, error=%v", input.QuoteID, err)
	}

	return output, nil
}

// sendCallback 发送回调消息到 callback 队列
func (s *Service) sendCallback(ctx context.Context, input *Input, output *Output) error {
	callback := model.QuoteCallback{
		RequestID:   input.RequestID,
		QuoteID:     input.QuoteID,
		ProcessedAt: time.Now().Unix(),
	}

	if output.Status == model.QuoteStatusFailed {
		callback.Status = model.CallbackStatusFailed
		if output.Result != nil {
			callback.Error = output.Result.FailureReason
		}
	} else {
		callback.Status = model.CallbackStatusSuccess
		callback.Result = output.Result
	}

	callbackJSON, err := json.Marshal(callback)
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	// ttl=0 表示永不过期, delay=0 表示立即可用
	if err := s.lmstfyClient.Publish(s.callbackQueue, callbackJSON, 0, 0); err != nil {
		return fmt.Errorf("failed to publish callback: %w", err)
	}

	return nil
}
