package geo

import (
	"strings"

	"shipcalc/pkg/errorx"
)

// LocationType 地点变体类型
type LocationType string

const (
	LocationTypeAddress     LocationType = "address"
	LocationTypeComponents  LocationType = "address_components"
	LocationTypeCoordinates LocationType = "coordinates"
)

// componentFields 地址组件白名单
var componentFields = []string{"address_1", "city", "state", "postcode", "country"}

// Location 地点值对象
// 三种互斥变体：地址字符串 / 地址组件 / 经纬度坐标
// 变体在构造时确定，构造后不可变
type Location struct {
	typ        LocationType
	address    string
	components map[string]string
	lat        float64
	lng        float64
	valid      bool
}

// FromAddress 从地址字符串创建地点（空地址标记为无效）
func FromAddress(address string) *Location {
	address = strings.TrimSpace(address)
	return &Location{
		typ:     LocationTypeAddress,
		address: address,
		valid:   address != "",
	}
}

// FromAddressComponents 从地址组件创建地点
// 仅保留白名单字段；address_1 缺失时回退到旧版 address 字段
func FromAddressComponents(components map[string]string) *Location {
	normalized := make(map[string]string, len(componentFields))
	for _, field := range componentFields {
		if v, ok := components[field]; ok {
			normalized[field] = strings.TrimSpace(v)
		}
	}

	if normalized["address_1"] == "" {
		if legacy, ok := components["address"]; ok {
			normalized["address_1"] = strings.TrimSpace(legacy)
		}
	}

	valid := false
	for _, v := range normalized {
		if v != "" {
			valid = true
			break
		}
	}

	return &Location{
		typ:        LocationTypeComponents,
		components: normalized,
		valid:      valid,
	}
}

// FromCoordinates 从经纬度创建地点（越界标记为无效）
func FromCoordinates(lat, lng float64) *Location {
	valid := lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
	return &Location{
		typ:   LocationTypeCoordinates,
		lat:   lat,
		lng:   lng,
		valid: valid,
	}
}

// LocationType 返回变体类型
func (l *Location) LocationType() LocationType {
	return l.typ
}

// IsValid 返回构造时的校验结果
func (l *Location) IsValid() bool {
	return l.valid
}

// Address 获取地址字符串（仅 address 变体）
func (l *Location) Address() (string, error) {
	if err := l.check(LocationTypeAddress); err != nil {
		return "", err
	}
	return l.address, nil
}

// AddressComponents 获取地址组件（仅 address_components 变体）
func (l *Location) AddressComponents() (map[string]string, error) {
	if err := l.check(LocationTypeComponents); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(l.components))
	for k, v := range l.components {
		out[k] = v
	}
	return out, nil
}

// Latitude 获取纬度（仅 coordinates 变体）
func (l *Location) Latitude() (float64, error) {
	if err := l.check(LocationTypeCoordinates); err != nil {
		return 0, err
	}
	return l.lat, nil
}

// Longitude 获取经度（仅 coordinates 变体）
func (l *Location) Longitude() (float64, error) {
	if err := l.check(LocationTypeCoordinates); err != nil {
		return 0, err
	}
	return l.lng, nil
}

// FormattedAddress 按变体拼接为可读地址串
// 组件变体按 address_1, city, state, postcode, country 顺序拼接
func (l *Location) FormattedAddress() (string, error) {
	switch l.typ {
	case LocationTypeAddress:
		return l.Address()
	case LocationTypeComponents:
		components, err := l.AddressComponents()
		if err != nil {
			return "", err
		}
		parts := make([]string, 0, len(componentFields))
		for _, field := range componentFields {
			if v := components[field]; v != "" {
				parts = append(parts, v)
			}
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", errorx.Newf(errorx.KindTypeMismatch, "location type %s has no address form", l.typ)
	}
}

// check 统一的访问器前置校验
func (l *Location) check(want LocationType) error {
	if !l.valid {
		return errorx.Newf(errorx.KindInvalidState, "location is invalid, type=%s", l.typ)
	}
	if l.typ != want {
		return errorx.Newf(errorx.KindTypeMismatch, "location type is %s, not %s", l.typ, want)
	}
	return nil
}
