package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"shipcalc/internal/model"
	"shipcalc/pkg/errorx"
)

// QuoteDAO 报价数据访问对象
type QuoteDAO struct {
	db *gorm.DB
}

// NewQuoteDAO 创建 QuoteDAO 实例
func NewQuoteDAO(db *gorm.DB) *QuoteDAO {
	return &QuoteDAO{db: db}
}

// Create 创建报价记录（状态 CALCULATING）
func (dao *QuoteDAO) Create(ctx context.Context, quote *Quote) error {
	if err := dao.db.WithContext(ctx).Create(quote).Error; err != nil {
		return fmt.Errorf("failed to create quote: %w", err)
	}
	return nil
}

// GetByID 根据报价 ID 获取报价
func (dao *QuoteDAO) GetByID(ctx context.Context, quoteID string) (*Quote, error) {
	var quote Quote
	err := dao.db.WithContext(ctx).Where("id = ?", quoteID).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return &quote, nil
}

// UpdateResult 更新报价的计算结果
// 参数：
//   - ctx: 上下文
//   - quoteID: 报价 ID
//   - result: 计算结果数据（nil 表示无结果，仅更新状态）
//   - status: 报价状态（DONE/NO_RATE/FAILED）
//   - errorMsg: 错误消息（失败时）
func (dao *QuoteDAO) UpdateResult(
	ctx context.Context,
	quoteID string,
	result *model.QuoteResultData,
	status string,
	errorMsg string,
) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}

	if result != nil {
		resultJSON, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal quote result: %w", err)
		}
		updates["result"] = resultJSON
	}

	if errorMsg != "" {
		updates["error_message"] = errorMsg
	}

	dbResult := dao.db.WithContext(ctx).
		Model(&Quote{}).
		Where("id = ?", quoteID).
		Updates(updates)

	if dbResult.Error != nil {
		return fmt.Errorf("failed to update quote: %w", dbResult.Error)
	}

	if dbResult.RowsAffected == 0 {
		return errorx.ErrQuoteNotFound
	}

	return nil
}
