package provider

import (
	"context"
	"fmt"
	"strings"

	"shipcalc/internal/geo"
	"shipcalc/internal/httpx"
)

// geoapifyAPIBase Geoapify API 基础地址
const geoapifyAPIBase = "https://api.geoapify.com"

// GeoapifyRouting Geoapify Routing API 集成
// GET 请求，waypoints 为 lat,lng|lat,lng；地址型地点先经地理编码转为坐标
type GeoapifyRouting struct {
	baseURL string
}

// NewGeoapifyRouting 创建 Geoapify Routing 服务商
func NewGeoapifyRouting() *GeoapifyRouting {
	return &GeoapifyRouting{baseURL: geoapifyAPIBase}
}

// Slug 服务商标识
func (p *GeoapifyRouting) Slug() string {
	return "geoapify_routing"
}

// DisplayName 展示名
func (p *GeoapifyRouting) DisplayName() string {
	return "Geoapify Routing API"
}

// SettingsFields 配置字段声明
func (p *GeoapifyRouting) SettingsFields() []SettingsField {
	return []SettingsField{
		{
			Key:      "api_key",
			Title:    "API Key",
			Required: true,
			Secret:   true,
			ParamKey: "apiKey",
		},
		{
			Key:      "mode",
			Title:    "Travel Mode",
			Default:  "drive",
			ParamKey: "mode",
			Sanitize: strings.ToLower,
		},
	}
}

// CalculateDistance 计算两点距离
func (p *GeoapifyRouting) CalculateDistance(ctx context.Context, destination, origin *geo.Location, settings Settings) *CalcResult {
	fields := p.SettingsFields()
	mask := secretMask(fields)
	params, _ := buildRequest(fields, settings)

	// 地理编码预处理：失败时静默回退原地点
	origin = p.maybeGeocode(ctx, origin, settings, mask)
	destination = p.maybeGeocode(ctx, destination, settings, mask)

	originStr, err := latLngCoord(origin)
	if err != nil {
		return Failure("geoapify requires coordinates: "+err.Error(), nil)
	}
	destStr, err := latLngCoord(destination)
	if err != nil {
		return Failure("geoapify requires coordinates: "+err.Error(), nil)
	}
	params.Add(originStr+"|"+destStr, "waypoints", false)

	disp := httpx.Get(ctx, p.baseURL+"/v1/routing", params, nil, mask)
	if disp.IsError() {
		return Failure(failureMessage(disp, [][]string{{"message"}}, "geoapify routing request failed"), disp)
	}

	meters, ok := metersFromResponse(disp, []string{"features", "0", "properties", "distance"})
	if !ok {
		return Failure(failureMessage(disp, [][]string{{"message"}}, "distance not found in geoapify response"), disp)
	}

	distance, err := distanceFromMeters(meters)
	if err != nil {
		return Failure(err.Error(), disp)
	}

	return Success(distance, disp)
}

// ValidateSettings 配置校验（固定坐标实测一次）
func (p *GeoapifyRouting) ValidateSettings(ctx context.Context, settings Settings) []FieldError {
	return validateByTestCall(ctx, p, settings, "api_key")
}

// maybeGeocode 地址型地点转坐标；任何失败都返回原地点（静默降级）
func (p *GeoapifyRouting) maybeGeocode(ctx context.Context, loc *geo.Location, settings Settings, mask httpx.MaskFunc) *geo.Location {
	if loc.LocationType() == geo.LocationTypeCoordinates {
		return loc
	}

	query, err := loc.FormattedAddress()
	if err != nil || query == "" {
		return loc
	}

	params := httpx.NewParams()
	params.Add(query, "text", false)
	params.Add("1", "limit", false)
	params.Add(settings.Get("api_key"), "apiKey", false)

	disp := httpx.Get(ctx, p.baseURL+"/v1/geocode/search", params, nil, mask)
	if disp.IsError() {
		return loc
	}

	lat, latOK := disp.GetJSONPath([]string{"features", "0", "properties", "lat"}, nil).(float64)
	lng, lngOK := disp.GetJSONPath([]string{"features", "0", "properties", "lon"}, nil).(float64)
	if !latOK || !lngOK {
		return loc
	}

	resolved := geo.FromCoordinates(lat, lng)
	if !resolved.IsValid() {
		return loc
	}
	return resolved
}

// latLngCoord 格式化为 lat,lng
func latLngCoord(loc *geo.Location) (string, error) {
	lat, err := loc.Latitude()
	if err != nil {
		return "", err
	}
	lng, err := loc.Longitude()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%f,%f", lat, lng), nil
}
