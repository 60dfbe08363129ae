package svquote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"shipcalc/internal/model"
	"shipcalc/pkg/idgen"
	"shipcalc/pkg/infra/mysql"
	"shipcalc/pkg/infra/redis"
	"shipcalc/pkg/lmstfy"
)

// QuoteService 报价服务（API 侧），负责报价业务编排
type QuoteService struct {
	quoteDAO        *mysql.QuoteDAO
	lmstfyClient    *lmstfy.Client
	pubsub          *redis.PubSub
	queueName       string
	defaultProvider string
}

// NewQuoteService 创建报价服务实例
func NewQuoteService(
	quoteDAO *mysql.QuoteDAO,
	lmstfyClient *lmstfy.Client,
	pubsub *redis.PubSub,
	queueName string,
	defaultProvider string,
) *QuoteService {
	return &QuoteService{
		quoteDAO:        quoteDAO,
		lmstfyClient:    lmstfyClient,
		pubsub:          pubsub,
		queueName:       queueName,
		defaultProvider: defaultProvider,
	}
}

// CreateQuote 创建报价（完整业务流程）
// 1. 创建报价记录并落库（状态 CALCULATING）
// 2. 发布到计算队列
// 3. Smart Wait（等待计算结果）
func (s *QuoteService) CreateQuote(
	ctx context.Context,
	biz *model.QuoteBusinessData,
	waitSeconds int,
) (*mysql.Quote, error) {
	quoteID := uuid.New().String()
	biz.QuoteID = quoteID

	slug := biz.Provider
	if slug == "" {
		slug = s.defaultProvider
	}

	requestJSON, err := json.Marshal(biz)
	if err != nil {
		return nil, fmt.Errorf("marshal quote request failed: %w", err)
	}

	quote := &mysql.Quote{
		ID:        quoteID,
		Reference: idgen.GenerateReference(),
		Provider:  slug,
		Request:   requestJSON,
		Status:    model.QuoteStatusCalculating,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.quoteDAO.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("save quote failed: %w", err)
	}

	// 发布到计算队列
	if err := s.publishCalculateJob(ctx, quoteID, biz); err != nil {
		// 发布失败只记录日志，报价记录仍可由补偿任务重投
		log.Printf("[WARN] publish calculate job failed: quote_id=%s, error=%v", quoteID, err)
	}

	// Smart Wait（等待计算结果）
	if waitSeconds > 0 {
		timeout := time.Duration(waitSeconds) * time.Second
		_, err := s.pubsub.Subscribe(ctx, redis.QuoteChannel(quoteID), timeout)
		if err != nil {
			// 超时或订阅失败，只记录日志，返回 CALCULATING 状态的报价
			log.Printf("[WARN] wait for quote result failed: quote_id=%s, error=%v", quoteID, err)
			return quote, nil
		}

		// 收到通知，重新读取已落库的结果
		fresh, err := s.quoteDAO.GetByID(ctx, quoteID)
		if err != nil {
			return nil, fmt.Errorf("reload quote failed: %w", err)
		}
		return fresh, nil
	}

	return quote, nil
}

// GetQuote 查询报价
func (s *QuoteService) GetQuote(ctx context.Context, quoteID string) (*mysql.Quote, error) {
	return s.quoteDAO.GetByID(ctx, quoteID)
}

// publishCalculateJob 构造标准化 Job 消息并入队
func (s *QuoteService) publishCalculateJob(ctx context.Context, quoteID string, biz *model.QuoteBusinessData) error {
	requestID := uuid.New().String()
	if traceID, ok := ctx.Value("trace_id").(string); ok && traceID != "" {
		requestID = traceID
	}

	job := model.QuoteJob{
		Payload: model.QuotePayload{
			Data: model.QuoteData{
				RequestID:  requestID,
				OrgID:      "0",
				ActionType: "quote_calculate",
				ID:         quoteID,
				Data:       *biz,
			},
		},
	}

	jobJSON, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job failed: %w", err)
	}

	// ttl=0 永不过期, delay=0 立即可用
	return s.lmstfyClient.Publish(s.queueName, jobJSON, 0, 0)
}
