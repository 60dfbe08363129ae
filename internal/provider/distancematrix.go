package provider

import (
	"context"
	"fmt"
	"strings"

	"shipcalc/internal/geo"
	"shipcalc/internal/httpx"
)

// distanceMatrixEndpoint DistanceMatrix.ai 距离矩阵端点
const distanceMatrixEndpoint = "https://api.distancematrix.ai/maps/api/distancematrix/json"

// DistanceMatrixAI DistanceMatrix.ai 集成
// GET 请求，坐标为 lat,lng 字符串，也接受纯地址串
type DistanceMatrixAI struct {
	endpoint string
}

// NewDistanceMatrixAI 创建 DistanceMatrix.ai 服务商
func NewDistanceMatrixAI() *DistanceMatrixAI {
	return &DistanceMatrixAI{endpoint: distanceMatrixEndpoint}
}

// Slug 服务商标识
func (p *DistanceMatrixAI) Slug() string {
	return "distancematrix_ai"
}

// DisplayName 展示名
func (p *DistanceMatrixAI) DisplayName() string {
	return "DistanceMatrix.ai"
}

// SettingsFields 配置字段声明
func (p *DistanceMatrixAI) SettingsFields() []SettingsField {
	return []SettingsField{
		{
			Key:      "api_key",
			Title:    "API Key",
			Required: true,
			Secret:   true,
			ParamKey: "key",
		},
		{
			Key:      "mode",
			Title:    "Travel Mode",
			Default:  "driving",
			ParamKey: "mode",
			Sanitize: strings.ToLower,
		},
		{
			Key:      "language",
			Title:    "Language",
			ParamKey: "language",
		},
	}
}

// CalculateDistance 计算两点距离
func (p *DistanceMatrixAI) CalculateDistance(ctx context.Context, destination, origin *geo.Location, settings Settings) *CalcResult {
	fields := p.SettingsFields()
	params, headers := buildRequest(fields, settings)

	originStr, err := distanceMatrixPlace(origin)
	if err != nil {
		return Failure("invalid origin: "+err.Error(), nil)
	}
	destStr, err := distanceMatrixPlace(destination)
	if err != nil {
		return Failure("invalid destination: "+err.Error(), nil)
	}
	params.Add(originStr, "origins", false)
	params.Add(destStr, "destinations", false)

	disp := httpx.Get(ctx, p.endpoint, params, headers, secretMask(fields))
	if disp.IsError() {
		return Failure(failureMessage(disp, [][]string{{"error_message"}}, "distancematrix.ai request failed"), disp)
	}

	if status, ok := disp.GetJSONPath([]string{"status"}, nil).(string); ok && status != "OK" {
		return Failure(failureMessage(disp, [][]string{{"error_message"}}, "distancematrix.ai status: "+status), disp)
	}
	if status, ok := disp.GetJSONPath([]string{"rows", "0", "elements", "0", "status"}, nil).(string); ok && status != "OK" {
		return Failure("distancematrix.ai element status: "+status, disp)
	}

	meters, ok := metersFromResponse(disp, []string{"rows", "0", "elements", "0", "distance", "value"})
	if !ok {
		return Failure(failureMessage(disp, [][]string{{"error_message"}}, "distance not found in distancematrix.ai response"), disp)
	}

	distance, err := distanceFromMeters(meters)
	if err != nil {
		return Failure(err.Error(), disp)
	}

	return Success(distance, disp)
}

// ValidateSettings 配置校验（固定坐标实测一次）
func (p *DistanceMatrixAI) ValidateSettings(ctx context.Context, settings Settings) []FieldError {
	return validateByTestCall(ctx, p, settings, "api_key")
}

// distanceMatrixPlace 坐标格式化为 lat,lng，地址型地点转为地址串
func distanceMatrixPlace(loc *geo.Location) (string, error) {
	if loc.LocationType() == geo.LocationTypeCoordinates {
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
	return loc.FormattedAddress()
}
