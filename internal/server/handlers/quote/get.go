package quote

import (
	"log"

	"github.com/gin-gonic/gin"

	"shipcalc/internal/server/apimodel/response"
	"shipcalc/pkg/ginx"
)

// Get 获取报价详情
// GET /api/v1/quotes/:id
//
// 使用场景：
//   - 创建报价返回 code=3001 时，通过此接口轮询结果
//   - 查询历史报价详情
func (h *QuoteHandler) Get(c *gin.Context) {
	quoteID := c.Param("id")
	if quoteID == "" {
		ginx.BadRequest(c, "quote_id required")
		return
	}

	quote, err := h.quoteService.GetQuote(c.Request.Context(), quoteID)
	if err != nil {
		log.Printf("[ERROR] get quote failed: %v", err)
		ginx.NotFound(c, "quote not found")
		return
	}

	ginx.Success(c, response.FromQuoteEntity(quote))
}
