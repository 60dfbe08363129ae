package quote

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"shipcalc/internal/model"
	"shipcalc/internal/server/apimodel/request"
	"shipcalc/internal/server/apimodel/response"
	"shipcalc/pkg/ginx"
)

// Create 创建报价接口
// POST /api/v1/quotes?wait=10
func (h *QuoteHandler) Create(c *gin.Context) {
	waitSeconds := 0
	if waitStr := c.Query("wait"); waitStr != "" {
		if w, err := strconv.Atoi(waitStr); err == nil && w > 0 {
			waitSeconds = w
		}
	}

	var req request.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	biz := &model.QuoteBusinessData{
		Provider:    req.Provider,
		Origin:      req.Origin.ToLocationPayload(),
		Destination: req.Destination.ToLocationPayload(),
		Order:       req.Order.ToOrderPayload(),
	}

	quote, err := h.quoteService.CreateQuote(c.Request.Context(), biz, waitSeconds)
	if err != nil {
		log.Printf("[ERROR] create quote failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	if quote.Status == model.QuoteStatusCalculating {
		pollURL := fmt.Sprintf("/api/v1/quotes/%s", quote.ID)
		ginx.Processing(c, quote.ID, pollURL)
		return
	}

	ginx.Success(c, response.FromQuoteEntity(quote))
}
