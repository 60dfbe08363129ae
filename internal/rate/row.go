package rate

import (
	"strconv"
	"strings"
)

// 字段值 inherit 表示沿用全局设置（空串等价）
const Inherit = "inherit"

// 成本聚合策略
const (
	TotalCostFlatHighest           = "flat__highest"
	TotalCostFlatLowest            = "flat__lowest"
	TotalCostFlatAverage           = "flat__average"
	TotalCostProgressivePerClass   = "progressive__per_shipping_class"
	TotalCostProgressivePerProduct = "progressive__per_product"
	TotalCostProgressivePerPiece   = "progressive__per_piece"
)

// 附加费/折扣类型
const (
	AdjustmentNone    = "none"
	AdjustmentFixed   = "fixed"
	AdjustmentPercent = "percent"
)

// rateClassPrefix 费率等级字段前缀（rate_class_0 为基础费率）
const rateClassPrefix = "rate_class_"

// Row 一条运费规则
// 数值字段保持持久化时的字符串形态，计算时按需解析；
// 空串的可继承字段沿用全局设置
type Row struct {
	MaxDistance      string // 必填规则字段，缺失则该行永不匹配
	MinOrderAmount   string
	MaxOrderAmount   string
	MinOrderQuantity string
	MaxOrderQuantity string

	// RateClasses 费率表：0 为基础费率，其余键为运费类别 ID 的覆盖值
	RateClasses map[int64]string

	TotalCostType string
	SurchargeType string
	Surcharge     string
	DiscountType  string
	Discount      string
	MinCost       string
	MaxCost       string
	Title         string
}

// RowFromMap 从持久化的字段表物化规则行
func RowFromMap(fields map[string]string) *Row {
	row := &Row{
		MaxDistance:      fields["max_distance"],
		MinOrderAmount:   fields["min_order_amount"],
		MaxOrderAmount:   fields["max_order_amount"],
		MinOrderQuantity: fields["min_order_quantity"],
		MaxOrderQuantity: fields["max_order_quantity"],
		TotalCostType:    fields["total_cost_type"],
		SurchargeType:    fields["surcharge_type"],
		Surcharge:        fields["surcharge"],
		DiscountType:     fields["discount_type"],
		Discount:         fields["discount"],
		MinCost:          fields["min_cost"],
		MaxCost:          fields["max_cost"],
		Title:            fields["title"],
		RateClasses:      make(map[int64]string),
	}

	for key, value := range fields {
		if !strings.HasPrefix(key, rateClassPrefix) {
			continue
		}
		classID, err := strconv.ParseInt(strings.TrimPrefix(key, rateClassPrefix), 10, 64)
		if err != nil {
			continue
		}
		row.RateClasses[classID] = value
	}

	return row
}

// OrderItem 订单行项目快照
type OrderItem struct {
	ProductID       int64
	ShippingClassID int64
	Quantity        int
	NeedsShipping   bool
}

// OrderContext 待计费订单的只读快照
type OrderContext struct {
	CartSubtotal float64
	ItemCount    int
	Items        []OrderItem
}

// parseNum 解析数值字段（空串/非法值视为 0）
func parseNum(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// resolve 行级字段为空或 inherit 时回退全局值
func resolve(rowValue, globalValue string) string {
	if rowValue == "" || rowValue == Inherit {
		return globalValue
	}
	return rowValue
}
