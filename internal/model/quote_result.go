package model

// QuoteResultData 报价结果容器
type QuoteResultData struct {
	Provider      string `json:"provider"`                 // 服务商 slug
	DistanceText  string `json:"distance_text,omitempty"`  // 距离文本（计费单位下）
	DistanceUnit  string `json:"distance_unit,omitempty"`  // 计费距离单位
	Cost          string `json:"cost,omitempty"`           // 最终运费（两位小数字符串）
	Label         string `json:"label,omitempty"`          // 运费方案展示名
	MatchedRow    int    `json:"matched_row,omitempty"`    // 命中规则行序号（从 1 起，0 表示未命中）
	CalculatedAt  int64  `json:"calculated_at"`            // 计算完成时间戳
	FailureReason string `json:"failure_reason,omitempty"` // 失败原因（FAILED 时）
}

// QuoteCallback 报价回调消息（标准化）
// 用于 worker → apiserver callback consumer 的消息传递
type QuoteCallback struct {
	RequestID   string           `json:"request_id"`       // 对应请求的 request_id（链路追踪）
	QuoteID     string           `json:"quote_id"`         // 报价 ID
	Status      string           `json:"status"`           // 回调状态: SUCCESS / FAILED
	Result      *QuoteResultData `json:"result,omitempty"` // 报价结果（成功时返回）
	Error       string           `json:"error,omitempty"`  // 错误信息（失败时返回）
	ProcessedAt int64            `json:"processed_at"`     // 处理时间戳（Unix timestamp）
}

// 回调状态常量
const (
	CallbackStatusSuccess = "SUCCESS" // 计算成功（含 NO_RATE）
	CallbackStatusFailed  = "FAILED"  // 计算失败
)

// QuoteNotification 报价完成通知消息（Redis Pub/Sub）
type QuoteNotification struct {
	QuoteID   string `json:"quote_id"`
	Status    string `json:"status"` // DONE/NO_RATE/FAILED
	Timestamp int64  `json:"timestamp"`
}
