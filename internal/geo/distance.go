package geo

import (
	"math"
	"strconv"

	"shipcalc/pkg/errorx"
)

// Unit 距离单位
type Unit string

const (
	UnitM  Unit = "m"
	UnitKm Unit = "km"
	UnitMi Unit = "mi"
)

// 单位换算常量
const (
	metersPerKm   = 1000.0
	metersPerMile = 1609.34
	kmPerMile     = 1.60934
)

// FormatterFunc 距离展示格式化函数
type FormatterFunc func(value float64) string

// Distance 距离值对象
// (number, unit) 不可变；ceiling 作用于换算后的数值，formatter 仅影响文本
type Distance struct {
	number    string
	unit      Unit
	ceiling   bool
	formatter FormatterFunc
}

// FromUnit 从数值字符串和单位创建距离
func FromUnit(number string, unit Unit) (*Distance, error) {
	if _, err := strconv.ParseFloat(number, 64); err != nil {
		return nil, errorx.Newf(errorx.KindInvalidArgument, "invalid distance number: %q", number)
	}

	switch unit {
	case UnitM, UnitKm, UnitMi:
	default:
		return nil, errorx.Newf(errorx.KindInvalidArgument, "invalid distance unit: %q", unit)
	}

	return &Distance{number: number, unit: unit}, nil
}

// FromMeters 从米创建距离
func FromMeters(number string) (*Distance, error) {
	return FromUnit(number, UnitM)
}

// FromKm 从千米创建距离
func FromKm(number string) (*Distance, error) {
	return FromUnit(number, UnitKm)
}

// FromMiles 从英里创建距离
func FromMiles(number string) (*Distance, error) {
	return FromUnit(number, UnitMi)
}

// SetCeiling 设置向上取整开关（作用于换算后的数值）
func (d *Distance) SetCeiling(ceiling bool) {
	d.ceiling = ceiling
}

// SetFormatter 设置自定义格式化函数
func (d *Distance) SetFormatter(fn FormatterFunc) {
	d.formatter = fn
}

// Unit 返回原始单位
func (d *Distance) Unit() Unit {
	return d.unit
}

// ValueInUnit 换算到目标单位的数值（ceiling 开启时向上取整）
func (d *Distance) ValueInUnit(unit Unit) (float64, error) {
	raw, _ := strconv.ParseFloat(d.number, 64)

	var value float64
	switch {
	case d.unit == unit:
		value = raw
	case d.unit == UnitM && unit == UnitKm:
		value = raw / metersPerKm
	case d.unit == UnitM && unit == UnitMi:
		value = raw / metersPerMile
	case d.unit == UnitKm && unit == UnitM:
		value = raw * metersPerKm
	case d.unit == UnitKm && unit == UnitMi:
		value = raw / kmPerMile
	case d.unit == UnitMi && unit == UnitM:
		value = raw * metersPerMile
	case d.unit == UnitMi && unit == UnitKm:
		value = raw * kmPerMile
	default:
		return 0, errorx.Newf(errorx.KindInvalidArgument, "invalid distance unit: %q", unit)
	}

	if d.ceiling {
		value = math.Ceil(value)
	}

	return value, nil
}

// InUnit 换算到目标单位并格式化
func (d *Distance) InUnit(unit Unit) (string, error) {
	value, err := d.ValueInUnit(unit)
	if err != nil {
		return "", err
	}

	if d.formatter != nil {
		return d.formatter(value), nil
	}

	return formatDecimal(value), nil
}

// InM 换算为米
func (d *Distance) InM() string {
	s, _ := d.InUnit(UnitM)
	return s
}

// InKm 换算为千米
func (d *Distance) InKm() string {
	s, _ := d.InUnit(UnitKm)
	return s
}

// InMi 换算为英里
func (d *Distance) InMi() string {
	s, _ := d.InUnit(UnitMi)
	return s
}

// ToArray 导出原始 (number, unit) 对
func (d *Distance) ToArray() map[string]string {
	return map[string]string{
		"number": d.number,
		"unit":   string(d.unit),
	}
}

// FromArray 从 ToArray 导出的数据还原距离
func FromArray(data map[string]string) (*Distance, error) {
	return FromUnit(data["number"], Unit(data["unit"]))
}

// formatDecimal 默认格式化：最短十进制表示，无千分位
func formatDecimal(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
