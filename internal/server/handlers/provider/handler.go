package provider

import "shipcalc/internal/provider"

// ProviderHandler 服务商 HTTP 处理器
type ProviderHandler struct {
	registry *provider.Registry
}

// NewProviderHandler 创建服务商处理器实例
func NewProviderHandler(registry *provider.Registry) *ProviderHandler {
	return &ProviderHandler{
		registry: registry,
	}
}
