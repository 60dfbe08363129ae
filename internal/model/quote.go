package model

// 报价状态常量
const (
	QuoteStatusCalculating = "CALCULATING"
	QuoteStatusDone        = "DONE"
	QuoteStatusNoRate      = "NO_RATE"
	QuoteStatusFailed      = "FAILED"
)

// QuoteJob 报价计算任务消息（标准化）
// 用于 apiserver → worker 的消息传递
type QuoteJob struct {
	Payload QuotePayload `json:"payload"`
}

// QuotePayload Job 负载
type QuotePayload struct {
	Data QuoteData `json:"data"`
}

// QuoteData Job 数据层
type QuoteData struct {
	// 元信息
	RequestID  string `json:"request_id"`  // 请求 ID（全链路追踪）
	OrgID      string `json:"org_id"`      // 组织 ID（MVP 固定为 "0"）
	ActionType string `json:"action_type"` // 动作类型，固定值 "quote_calculate"
	ID         string `json:"id"`          // 报价 ID

	// 业务数据
	Data QuoteBusinessData `json:"data"`
}

// QuoteBusinessData 报价业务数据
// 包含 worker 计算运费所需的全部数据（避免回查 DB）
type QuoteBusinessData struct {
	QuoteID     string           `json:"quote_id"`           // 报价 ID
	Provider    string           `json:"provider,omitempty"` // 服务商 slug（空则用默认）
	Origin      *LocationPayload `json:"origin"`             // 发货地
	Destination *LocationPayload `json:"destination"`        // 收货地
	Order       *OrderPayload    `json:"order"`              // 订单快照
}

// LocationPayload 地点载荷：address / components / 坐标三选一
type LocationPayload struct {
	Address    string            `json:"address,omitempty"`
	Components map[string]string `json:"components,omitempty"`
	Latitude   *float64          `json:"latitude,omitempty"`
	Longitude  *float64          `json:"longitude,omitempty"`
}

// OrderPayload 订单快照
type OrderPayload struct {
	CartSubtotal float64             `json:"cart_subtotal"`
	Items        []*OrderItemPayload `json:"items"`
}

// OrderItemPayload 订单行项目
type OrderItemPayload struct {
	ProductID       int64 `json:"product_id"`
	ShippingClassID int64 `json:"shipping_class_id"`
	Quantity        int   `json:"quantity"`
	NeedsShipping   bool  `json:"needs_shipping"`
}
