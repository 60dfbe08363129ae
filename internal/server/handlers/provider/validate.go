package provider

import (
	"github.com/gin-gonic/gin"

	providerpkg "shipcalc/internal/provider"
	"shipcalc/internal/server/apimodel/request"
	"shipcalc/internal/server/apimodel/response"
	"shipcalc/pkg/ginx"
)

// List 列出所有可用服务商及其配置字段
// GET /api/v1/providers
func (h *ProviderHandler) List(c *gin.Context) {
	providers := h.registry.All()
	out := make([]*response.ProviderInfoResponse, 0, len(providers))
	for _, p := range providers {
		out = append(out, response.FromProvider(p))
	}
	ginx.Success(c, out)
}

// Validate 验证服务商配置（发起真实测试请求）
// POST /api/v1/providers/:slug/validate
func (h *ProviderHandler) Validate(c *gin.Context) {
	slug := c.Param("slug")
	p, ok := h.registry.Get(slug)
	if !ok {
		ginx.NotFound(c, "provider not found")
		return
	}

	var req request.ValidateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	errs := p.ValidateSettings(c.Request.Context(), providerpkg.Settings(req.Settings))
	ginx.Success(c, response.FromFieldErrors(errs))
}
