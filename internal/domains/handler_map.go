package domains

import (
	"shipcalc/internal/domains/common"
	quotehandler "shipcalc/internal/domains/handlers/quote"
)

// HandlerMap 路由表（ActionType → Handler 映射）
var HandlerMap = map[string]common.HandlerServProc{
	"quote_calculate": quotehandler.NewQuoteHandler,

	// 未来扩展示例：
	// "quote_batch_calculate": quotehandler.NewBatchHandler,
}
