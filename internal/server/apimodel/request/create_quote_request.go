package request

// CreateQuoteRequest 创建报价请求
type CreateQuoteRequest struct {
	Provider    string    `json:"provider" example:"google_routes"`
	Origin      *Location `json:"origin" binding:"required"`
	Destination *Location `json:"destination" binding:"required"`
	Order       *Order    `json:"order" binding:"required"`
}

// Location 地点信息（address / components / 坐标三选一）
type Location struct {
	Address    string            `json:"address" example:"Jl. Medan Merdeka Utara No.3, Jakarta"`
	Components map[string]string `json:"components"`
	Latitude   *float64          `json:"latitude" example:"-6.1753924"`
	Longitude  *float64          `json:"longitude" example:"106.8271528"`
}

// Order 订单快照
type Order struct {
	CartSubtotal float64      `json:"cart_subtotal" example:"250000"`
	Items        []*OrderItem `json:"items" binding:"required,min=1"`
}

// OrderItem 订单行项目
type OrderItem struct {
	ProductID       int64 `json:"product_id" binding:"required" example:"101"`
	ShippingClassID int64 `json:"shipping_class_id" example:"0"`
	Quantity        int   `json:"quantity" binding:"required,min=1" example:"2"`
	NeedsShipping   bool  `json:"needs_shipping" example:"true"`
}

// ValidateProviderRequest 服务商配置验证请求
type ValidateProviderRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}
