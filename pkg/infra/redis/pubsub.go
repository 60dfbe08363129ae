package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shipcalc/internal/model"
)

// QuoteChannel 报价结果通知频道名
func QuoteChannel(quoteID string) string {
	return fmt.Sprintf("quote:result:%s", quoteID)
}

// PubSub Redis 发布/订阅客户端
type PubSub struct {
	client *redis.Client
}

// NewPubSub 创建 PubSub 实例
func NewPubSub(addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &PubSub{
		client: client,
	}, nil
}

// PublishQuoteComplete 发布报价完成通知
// 参数：
//   - ctx: 上下文
//   - notification: 通知消息（频道按 QuoteID 派生）
func (p *PubSub) PublishQuoteComplete(
	ctx context.Context,
	notification *model.QuoteNotification,
) error {
	msgJSON, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	channel := QuoteChannel(notification.QuoteID)
	if err := p.client.Publish(ctx, channel, msgJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// Subscribe 订阅指定 channel 并等待消息，支持超时控制
// 用于 Smart Wait：订阅报价结果频道，等待 worker 推送结果
func (p *PubSub) Subscribe(ctx context.Context, channel string, timeout time.Duration) (string, error) {
	sub := p.client.Subscribe(ctx, channel)
	defer sub.Close()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case msg := <-sub.Channel():
		return msg.Payload, nil
	case <-timeoutCtx.Done():
		return "", timeoutCtx.Err()
	}
}

// Close 关闭 Redis 连接
func (p *PubSub) Close() error {
	return p.client.Close()
}
