package provider

import (
	"context"
	"strings"

	"shipcalc/internal/geo"
	"shipcalc/internal/httpx"
)

// googleRoutesEndpoint Google Routes API computeRoutes 端点
const googleRoutesEndpoint = "https://routes.googleapis.com/directions/v2:computeRoutes"

// GoogleRoutes Google Routes API 集成
// POST 请求，API Key 走 X-Goog-Api-Key 请求头，坐标为嵌套 latLng 结构
type GoogleRoutes struct {
	endpoint string
}

// NewGoogleRoutes 创建 Google Routes 服务商
func NewGoogleRoutes() *GoogleRoutes {
	return &GoogleRoutes{endpoint: googleRoutesEndpoint}
}

// Slug 服务商标识
func (p *GoogleRoutes) Slug() string {
	return "google_routes"
}

// DisplayName 展示名
func (p *GoogleRoutes) DisplayName() string {
	return "Google Routes API"
}

// SettingsFields 配置字段声明
func (p *GoogleRoutes) SettingsFields() []SettingsField {
	return []SettingsField{
		{
			Key:       "api_key",
			Title:     "API Key",
			Required:  true,
			Secret:    true,
			HeaderKey: "X-Goog-Api-Key",
		},
		{
			Key:      "travel_mode",
			Title:    "Travel Mode",
			Default:  "DRIVE",
			ParamKey: "travelMode",
			Sanitize: strings.ToUpper,
		},
	}
}

// CalculateDistance 计算两点距离
func (p *GoogleRoutes) CalculateDistance(ctx context.Context, destination, origin *geo.Location, settings Settings) *CalcResult {
	fields := p.SettingsFields()
	params, headers := buildRequest(fields, settings)

	// FieldMask 限定只返回距离与时长，降低响应体大小
	headers.Add("routes.distanceMeters,routes.duration", "X-Goog-FieldMask")

	originWP, err := googleWaypoint(origin)
	if err != nil {
		return Failure("invalid origin: "+err.Error(), nil)
	}
	destWP, err := googleWaypoint(destination)
	if err != nil {
		return Failure("invalid destination: "+err.Error(), nil)
	}
	params.Add(originWP, "origin", false)
	params.Add(destWP, "destination", false)

	disp := httpx.Post(ctx, p.endpoint, params, headers, secretMask(fields))
	if disp.IsError() {
		return Failure(failureMessage(disp, [][]string{{"error", "message"}}, "google routes request failed"), disp)
	}

	meters, ok := metersFromResponse(disp, []string{"routes", "0", "distanceMeters"})
	if !ok {
		return Failure(failureMessage(disp, [][]string{{"error", "message"}}, "distance not found in google routes response"), disp)
	}

	distance, err := distanceFromMeters(meters)
	if err != nil {
		return Failure(err.Error(), disp)
	}

	return Success(distance, disp)
}

// ValidateSettings 配置校验（固定坐标实测一次）
func (p *GoogleRoutes) ValidateSettings(ctx context.Context, settings Settings) []FieldError {
	return validateByTestCall(ctx, p, settings, "api_key")
}

// googleWaypoint 将 Location 转为 Routes API waypoint 结构
func googleWaypoint(loc *geo.Location) (map[string]interface{}, error) {
	if loc.LocationType() == geo.LocationTypeCoordinates {
		lat, err := loc.Latitude()
		if err != nil {
			return nil, err
		}
		lng, err := loc.Longitude()
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"location": map[string]interface{}{
				"latLng": map[string]interface{}{
					"latitude":  lat,
					"longitude": lng,
				},
			},
		}, nil
	}

	address, err := loc.FormattedAddress()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"address": address}, nil
}
