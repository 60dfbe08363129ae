package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"shipcalc/internal/geo"
	"shipcalc/internal/httpx"
)

// mapboxAPIBase Mapbox API 基础地址
const mapboxAPIBase = "https://api.mapbox.com"

// MapboxMatrix Mapbox Matrix API 集成
// GET 请求，坐标为 lng,lat 顺序；地址型地点先经地理编码转为坐标
type MapboxMatrix struct {
	baseURL string
}

// NewMapboxMatrix 创建 Mapbox Matrix 服务商
func NewMapboxMatrix() *MapboxMatrix {
	return &MapboxMatrix{baseURL: mapboxAPIBase}
}

// Slug 服务商标识
func (p *MapboxMatrix) Slug() string {
	return "mapbox_matrix"
}

// DisplayName 展示名
func (p *MapboxMatrix) DisplayName() string {
	return "Mapbox Matrix API"
}

// SettingsFields 配置字段声明
func (p *MapboxMatrix) SettingsFields() []SettingsField {
	return []SettingsField{
		{
			Key:      "access_token",
			Title:    "Access Token",
			Required: true,
			Secret:   true,
			ParamKey: "access_token",
		},
		{
			// profile 拼接在 URL 路径中，不映射到参数
			Key:      "profile",
			Title:    "Routing Profile",
			Default:  "driving",
			Sanitize: strings.ToLower,
		},
	}
}

// CalculateDistance 计算两点距离
func (p *MapboxMatrix) CalculateDistance(ctx context.Context, destination, origin *geo.Location, settings Settings) *CalcResult {
	fields := p.SettingsFields()
	mask := secretMask(fields)
	params, _ := buildRequest(fields, settings)

	// 地理编码预处理：失败时静默回退原地点
	origin = p.maybeGeocode(ctx, origin, settings, mask)
	destination = p.maybeGeocode(ctx, destination, settings, mask)

	originStr, err := mapboxCoord(origin)
	if err != nil {
		return Failure("mapbox requires coordinates: "+err.Error(), nil)
	}
	destStr, err := mapboxCoord(destination)
	if err != nil {
		return Failure("mapbox requires coordinates: "+err.Error(), nil)
	}

	profile := settings.Get("profile")
	if profile == "" {
		profile = "driving"
	}
	endpoint := fmt.Sprintf("%s/directions-matrix/v1/mapbox/%s/%s;%s",
		p.baseURL, strings.ToLower(profile), originStr, destStr)

	params.Add("distance", "annotations", false)
	params.Add("0", "sources", false)
	params.Add("1", "destinations", false)

	disp := httpx.Get(ctx, endpoint, params, nil, mask)
	if disp.IsError() {
		return Failure(failureMessage(disp, [][]string{{"message"}}, "mapbox matrix request failed"), disp)
	}

	meters, ok := metersFromResponse(disp, []string{"distances", "0", "0"})
	if !ok {
		return Failure(failureMessage(disp, [][]string{{"message"}}, "distance not found in mapbox response"), disp)
	}

	distance, err := distanceFromMeters(meters)
	if err != nil {
		return Failure(err.Error(), disp)
	}

	return Success(distance, disp)
}

// ValidateSettings 配置校验（固定坐标实测一次）
func (p *MapboxMatrix) ValidateSettings(ctx context.Context, settings Settings) []FieldError {
	return validateByTestCall(ctx, p, settings, "access_token")
}

// maybeGeocode 地址型地点转坐标；任何失败都返回原地点（静默降级）
func (p *MapboxMatrix) maybeGeocode(ctx context.Context, loc *geo.Location, settings Settings, mask httpx.MaskFunc) *geo.Location {
	if loc.LocationType() == geo.LocationTypeCoordinates {
		return loc
	}

	query, err := loc.FormattedAddress()
	if err != nil || query == "" {
		return loc
	}

	params := httpx.NewParams()
	params.Add(settings.Get("access_token"), "access_token", false)
	params.Add("1", "limit", false)

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json", p.baseURL, url.PathEscape(query))
	disp := httpx.Get(ctx, endpoint, params, nil, mask)
	if disp.IsError() {
		return loc
	}

	center, ok := disp.GetJSONPath([]string{"features", "0", "center"}, nil).([]interface{})
	if !ok || len(center) < 2 {
		return loc
	}

	// center 为 [lng, lat]
	lng, lngOK := center[0].(float64)
	lat, latOK := center[1].(float64)
	if !lngOK || !latOK {
		return loc
	}

	resolved := geo.FromCoordinates(lat, lng)
	if !resolved.IsValid() {
		return loc
	}
	return resolved
}

// mapboxCoord 格式化为 lng,lat
func mapboxCoord(loc *geo.Location) (string, error) {
	lat, err := loc.Latitude()
	if err != nil {
		return "", err
	}
	lng, err := loc.Longitude()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%f,%f", lng, lat), nil
}
