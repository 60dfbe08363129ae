package response

import (
	"time"

	"shipcalc/internal/model"
)

// QuoteResponse 报价响应（DTO）
type QuoteResponse struct {
	ID           string                 `json:"id"`
	Reference    int64                  `json:"reference"`
	Provider     string                 `json:"provider"`
	Status       string                 `json:"status"`
	Result       *model.QuoteResultData `json:"result,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ProviderInfoResponse 服务商信息（DTO）
type ProviderInfoResponse struct {
	Slug        string                  `json:"slug"`
	DisplayName string                  `json:"display_name"`
	Fields      []ProviderFieldResponse `json:"fields"`
}

// ProviderFieldResponse 服务商配置字段（DTO）
type ProviderFieldResponse struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Required bool   `json:"required"`
	Secret   bool   `json:"secret"`
	Default  string `json:"default,omitempty"`
}

// ValidateProviderResponse 配置验证结果（DTO）
type ValidateProviderResponse struct {
	Valid  bool                 `json:"valid"`
	Errors []FieldErrorResponse `json:"errors,omitempty"`
}

// FieldErrorResponse 字段级验证错误（DTO）
type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
