package provider

import (
	"context"
	"encoding/json"
	"strconv"

	"shipcalc/internal/geo"
	"shipcalc/internal/httpx"
)

// Settings 服务商配置（字段键 → 值）
type Settings map[string]string

// Get 读取配置值（缺失返回空串）
func (s Settings) Get(key string) string {
	return s[key]
}

// SanitizeFunc 配置值清洗函数
type SanitizeFunc func(value string) string

// SettingsField 服务商配置字段声明
// 声明式描述字段如何映射到出站请求的参数/请求头
type SettingsField struct {
	Key       string       // 配置键
	Title     string       // 展示名
	Required  bool         // 是否必填
	Secret    bool         // 是否为密钥（写日志前必须脱敏）
	Default   string       // 缺省值
	ParamKey  string       // 映射到的请求参数名（为空则不映射）
	HeaderKey string       // 映射到的请求头名（为空则不映射）
	Sanitize  SanitizeFunc // 写入请求前的清洗函数
}

// FieldError 配置校验错误（按字段收集，不中断控制流）
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Provider 距离服务商接口
// 实现者负责构造服务商专属请求并解析专属响应
type Provider interface {
	Slug() string
	DisplayName() string
	SettingsFields() []SettingsField

	// CalculateDistance 计算 origin → destination 的距离
	// 失败以 CalcResult.Failure 返回，永不抛错（距离不可用是常规运营状况）
	CalculateDistance(ctx context.Context, destination, origin *geo.Location, settings Settings) *CalcResult

	// ValidateSettings 配置校验：必填检查 + 一次固定坐标的实测调用
	ValidateSettings(ctx context.Context, settings Settings) []FieldError
}

// 配置校验使用的固定参考坐标（雅加达）
var (
	validationOrigin      = geo.FromCoordinates(-6.1753924, 106.8271528)
	validationDestination = geo.FromCoordinates(-6.2, 106.8166666)
)

// buildRequest 按字段声明将配置映射为请求参数/请求头
func buildRequest(fields []SettingsField, settings Settings) (*httpx.Params, *httpx.Headers) {
	params := httpx.NewParams()
	headers := httpx.NewHeaders()

	for _, field := range fields {
		value := settings.Get(field.Key)
		if value == "" {
			value = field.Default
		}
		if value == "" {
			continue
		}
		if field.Sanitize != nil {
			value = field.Sanitize(value)
		}

		if field.ParamKey != "" {
			params.Add(value, field.ParamKey, false)
		}
		if field.HeaderKey != "" {
			headers.Add(value, field.HeaderKey)
		}
	}

	return params, headers
}

// secretMask 构造服务商专属脱敏回调（按密钥字段的参数/请求头名匹配路径后缀）
func secretMask(fields []SettingsField) httpx.MaskFunc {
	suffixes := make([]string, 0, 2)
	for _, field := range fields {
		if !field.Secret {
			continue
		}
		if field.ParamKey != "" {
			suffixes = append(suffixes, "."+field.ParamKey)
		}
		if field.HeaderKey != "" {
			suffixes = append(suffixes, "."+field.HeaderKey)
		}
	}
	return httpx.SuffixMask(suffixes...)
}

// validateRequired 收集必填字段错误
func validateRequired(fields []SettingsField, settings Settings) []FieldError {
	var errs []FieldError
	for _, field := range fields {
		if field.Required && settings.Get(field.Key) == "" {
			errs = append(errs, FieldError{Field: field.Key, Message: field.Title + " is required"})
		}
	}
	return errs
}

// validateByTestCall 执行一次实测调用，失败归因到密钥字段
func validateByTestCall(ctx context.Context, p Provider, settings Settings, keyField string) []FieldError {
	if errs := validateRequired(p.SettingsFields(), settings); len(errs) > 0 {
		return errs
	}

	result := p.CalculateDistance(ctx, validationDestination, validationOrigin, settings)
	if result.IsError() {
		return []FieldError{{Field: keyField, Message: result.ErrorMessage()}}
	}

	return nil
}

// metersFromResponse 从响应路径提取米数（缺失或非正数视为失败）
func metersFromResponse(disp *httpx.Dispatcher, path []string) (float64, bool) {
	value := disp.GetJSONPath(path, nil)

	var meters float64
	switch v := value.(type) {
	case float64:
		meters = v
	case json.Number:
		meters, _ = v.Float64()
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		meters = parsed
	default:
		return 0, false
	}

	return meters, meters > 0
}

// distanceFromMeters 将米数包装为 Distance
func distanceFromMeters(meters float64) (*geo.Distance, error) {
	return geo.FromMeters(strconv.FormatFloat(meters, 'f', -1, 64))
}

// failureMessage 提取响应中的错误消息，依次尝试各候选路径
func failureMessage(disp *httpx.Dispatcher, paths [][]string, fallback string) string {
	for _, path := range paths {
		if msg, ok := disp.GetJSONPath(path, nil).(string); ok && msg != "" {
			return msg
		}
	}
	if err := disp.Err(); err != nil {
		return err.Error()
	}
	return fallback
}
