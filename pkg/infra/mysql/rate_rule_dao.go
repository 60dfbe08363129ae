package mysql

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"shipcalc/internal/rate"
)

// RateRuleDAO 运费规则数据访问对象
type RateRuleDAO struct {
	db *gorm.DB
}

// NewRateRuleDAO 创建 RateRuleDAO 实例
func NewRateRuleDAO(db *gorm.DB) *RateRuleDAO {
	return &RateRuleDAO{db: db}
}

// ListOrdered 按 position 升序返回所有启用的规则行
// 存储顺序即匹配顺序
func (dao *RateRuleDAO) ListOrdered(ctx context.Context) ([]*rate.Row, error) {
	var rules []RateRule
	err := dao.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("position ASC").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rate rules: %w", err)
	}

	rows := make([]*rate.Row, 0, len(rules))
	for _, rule := range rules {
		var fields map[string]string
		if err := json.Unmarshal(rule.Fields, &fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rate rule fields (id=%d): %w", rule.ID, err)
		}
		rows = append(rows, rate.RowFromMap(fields))
	}

	return rows, nil
}
