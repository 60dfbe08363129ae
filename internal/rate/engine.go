package rate

import (
	"fmt"
	"strconv"

	"shipcalc/internal/geo"
)

// Engine 费率引擎：规则行匹配与成本计算
// 无共享可变状态，按请求构造即可并发安全
type Engine struct {
	settings Settings
}

// NewEngine 创建费率引擎
func NewEngine(settings Settings) *Engine {
	return &Engine{settings: settings}
}

// MatchRow 按存储顺序返回第一条全部条件命中的规则行
// 无命中返回 nil（属正常结果：该订单无可用运费方案，非错误）
func (e *Engine) MatchRow(rows []*Row, distance *geo.Distance, order OrderContext) *Row {
	value, err := distance.ValueInUnit(e.settings.DistanceUnit)
	if err != nil {
		return nil
	}

	for _, row := range rows {
		if e.rowMatches(row, value, order) {
			return row
		}
	}

	return nil
}

// rowMatches 规则谓词的 AND 求值（首个不命中即短路）
func (e *Engine) rowMatches(row *Row, distanceValue float64, order OrderContext) bool {
	// max_distance 为必填规则字段，缺失则该行永不匹配
	if row.MaxDistance == "" {
		return false
	}
	if distanceValue > parseNum(row.MaxDistance) {
		return false
	}

	if v := parseNum(row.MinOrderAmount); v != 0 && v > order.CartSubtotal {
		return false
	}
	if v := parseNum(row.MaxOrderAmount); v != 0 && v < order.CartSubtotal {
		return false
	}
	if v := parseNum(row.MinOrderQuantity); v != 0 && v > float64(order.ItemCount) {
		return false
	}
	if v := parseNum(row.MaxOrderQuantity); v != 0 && v < float64(order.ItemCount) {
		return false
	}

	return true
}

// ComputeCost 计算最终运费，返回两位小数、无千分位的字符串
func (e *Engine) ComputeCost(row *Row, distance *geo.Distance, order OrderContext) (string, error) {
	distanceValue, err := distance.ValueInUnit(e.settings.DistanceUnit)
	if err != nil {
		return "", err
	}

	// 1. 逐行项目计算单项成本（按运费类别查费率，缺失回退基础费率）
	type itemCost struct {
		item OrderItem
		cost float64
	}
	costs := make([]itemCost, 0, len(order.Items))
	for _, item := range order.Items {
		if !item.NeedsShipping {
			continue
		}
		rateStr := row.RateClasses[item.ShippingClassID]
		if rateStr == "" {
			rateStr = row.RateClasses[0]
		}
		costs = append(costs, itemCost{item: item, cost: parseNum(rateStr) * distanceValue})
	}

	// 2. 按聚合策略合并单项成本
	// progressive 分支按键去重：同键后项覆盖前项（保留观测到的参考行为，不做求和）
	var cost float64
	switch resolve(row.TotalCostType, e.settings.TotalCostType) {
	case TotalCostFlatHighest:
		for _, c := range costs {
			if c.cost > cost {
				cost = c.cost
			}
		}
	case TotalCostFlatLowest:
		for i, c := range costs {
			if i == 0 || c.cost < cost {
				cost = c.cost
			}
		}
	case TotalCostFlatAverage:
		if len(costs) > 0 {
			sum := 0.0
			for _, c := range costs {
				sum += c.cost
			}
			cost = sum / float64(len(costs))
		}
	case TotalCostProgressivePerClass:
		byClass := make(map[int64]float64, len(costs))
		for _, c := range costs {
			byClass[c.item.ShippingClassID] = c.cost
		}
		for _, v := range byClass {
			cost += v
		}
	case TotalCostProgressivePerProduct:
		byProduct := make(map[int64]float64, len(costs))
		for _, c := range costs {
			byProduct[c.item.ProductID] = c.cost
		}
		for _, v := range byProduct {
			cost += v
		}
	default: // progressive__per_piece
		byProduct := make(map[int64]float64, len(costs))
		for _, c := range costs {
			byProduct[c.item.ProductID] = c.cost * float64(c.item.Quantity)
		}
		for _, v := range byProduct {
			cost += v
		}
	}

	// 3. 附加费
	switch resolve(row.SurchargeType, e.settings.SurchargeType) {
	case AdjustmentFixed:
		cost += parseNum(resolve(row.Surcharge, e.settings.Surcharge))
	case AdjustmentPercent:
		cost += cost * parseNum(resolve(row.Surcharge, e.settings.Surcharge)) / 100
	}

	// 4. 折扣
	switch resolve(row.DiscountType, e.settings.DiscountType) {
	case AdjustmentFixed:
		cost -= parseNum(resolve(row.Discount, e.settings.Discount))
	case AdjustmentPercent:
		cost -= cost * parseNum(resolve(row.Discount, e.settings.Discount)) / 100
	}

	// 5. 上下限夹逼
	if minCost := parseNum(resolve(row.MinCost, e.settings.MinCost)); minCost > 0 && cost < minCost {
		cost = minCost
	}
	if maxCost := parseNum(resolve(row.MaxCost, e.settings.MaxCost)); maxCost > 0 && cost > maxCost {
		cost = maxCost
	}

	return strconv.FormatFloat(cost, 'f', 2, 64), nil
}

// Label 生成运费方案展示名
// 行标题为空回退全局标题，再回退通用名；按设置附加距离文本
func (e *Engine) Label(row *Row, distance *geo.Distance) string {
	title := resolve(row.Title, e.settings.Title)
	if title == "" {
		title = "Shipping"
	}

	if e.settings.ShowDistance {
		if text, err := distance.InUnit(e.settings.DistanceUnit); err == nil {
			title = fmt.Sprintf("%s (%s %s)", title, text, e.settings.DistanceUnit)
		}
	}

	return title
}
