package response

import (
	"encoding/json"

	"shipcalc/internal/model"
	"shipcalc/internal/provider"
	"shipcalc/pkg/infra/mysql"
)

// FromQuoteEntity 将存储实体转换为响应 DTO
func FromQuoteEntity(quote *mysql.Quote) *QuoteResponse {
	resp := &QuoteResponse{
		ID:           quote.ID,
		Reference:    quote.Reference,
		Provider:     quote.Provider,
		Status:       quote.Status,
		ErrorMessage: quote.ErrorMessage,
		CreatedAt:    quote.CreatedAt,
		UpdatedAt:    quote.UpdatedAt,
	}

	if len(quote.Result) > 0 {
		var result model.QuoteResultData
		if err := json.Unmarshal(quote.Result, &result); err == nil {
			resp.Result = &result
		}
	}

	return resp
}

// FromProvider 将服务商定义转换为响应 DTO
// Secret 字段只暴露元信息，默认值不回传
func FromProvider(p provider.Provider) *ProviderInfoResponse {
	fields := p.SettingsFields()
	out := make([]ProviderFieldResponse, 0, len(fields))
	for _, f := range fields {
		fr := ProviderFieldResponse{
			Key:      f.Key,
			Title:    f.Title,
			Required: f.Required,
			Secret:   f.Secret,
		}
		if !f.Secret {
			fr.Default = f.Default
		}
		out = append(out, fr)
	}

	return &ProviderInfoResponse{
		Slug:        p.Slug(),
		DisplayName: p.DisplayName(),
		Fields:      out,
	}
}

// FromFieldErrors 将字段验证错误转换为响应 DTO
func FromFieldErrors(errs []provider.FieldError) *ValidateProviderResponse {
	if len(errs) == 0 {
		return &ValidateProviderResponse{Valid: true}
	}

	out := make([]FieldErrorResponse, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldErrorResponse{
			Field:   e.Field,
			Message: e.Message,
		})
	}

	return &ValidateProviderResponse{
		Valid:  false,
		Errors: out,
	}
}
