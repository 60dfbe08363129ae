package rate

import "shipcalc/internal/geo"

// Settings 全局费率设置
// 可继承字段与 Row 保持字符串形态，统一走 resolve 回退
type Settings struct {
	DistanceUnit    geo.Unit
	RoundUpDistance bool
	ShowDistance    bool

	TotalCostType string
	SurchargeType string
	Surcharge     string
	DiscountType  string
	Discount      string
	MinCost       string
	MaxCost       string
	Title         string
}

// DefaultSettings 缺省全局设置
func DefaultSettings() Settings {
	return Settings{
		DistanceUnit:  geo.UnitKm,
		TotalCostType: TotalCostProgressivePerPiece,
		SurchargeType: AdjustmentNone,
		DiscountType:  AdjustmentNone,
	}
}
