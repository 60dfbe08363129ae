package quote

import (
	"shipcalc/internal/geo"
	"shipcalc/internal/model"
	"shipcalc/internal/rate"
)

// locationFromPayload 将消息里的地点载荷物化为 Location
// 坐标 > 组件 > 整串地址，取第一个给出的形态
func locationFromPayload(p *model.LocationPayload) *geo.Location {
	if p == nil {
		return nil
	}
	if p.Latitude != nil && p.Longitude != nil {
		return geo.FromCoordinates(*p.Latitude, *p.Longitude)
	}
	if len(p.Components) > 0 {
		return geo.FromAddressComponents(p.Components)
	}
	return geo.FromAddress(p.Address)
}

// orderFromPayload 将消息里的订单快照物化为计费上下文
func orderFromPayload(p *model.OrderPayload) rate.OrderContext {
	order := rate.OrderContext{}
	if p == nil {
		return order
	}

	order.CartSubtotal = p.CartSubtotal
	order.Items = make([]rate.OrderItem, 0, len(p.Items))
	for _, item := range p.Items {
		if item == nil {
			continue
		}
		order.Items = append(order.Items, rate.OrderItem{
			ProductID:       item.ProductID,
			ShippingClassID: item.ShippingClassID,
			Quantity:        item.Quantity,
			NeedsShipping:   item.NeedsShipping,
		})
		order.ItemCount += item.Quantity
	}

	return order
}
