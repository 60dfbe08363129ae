package request

import "shipcalc/internal/model"

// ToLocationPayload 转换为消息载荷
func (l *Location) ToLocationPayload() *model.LocationPayload {
	if l == nil {
		return nil
	}
	return &model.LocationPayload{
		Address:    l.Address,
		Components: l.Components,
		Latitude:   l.Latitude,
		Longitude:  l.Longitude,
	}
}

// ToOrderPayload 转换为消息载荷
func (o *Order) ToOrderPayload() *model.OrderPayload {
	if o == nil {
		return nil
	}

	items := make([]*model.OrderItemPayload, 0, len(o.Items))
	for _, item := range o.Items {
		if item == nil {
			continue
		}
		items = append(items, &model.OrderItemPayload{
			ProductID:       item.ProductID,
			ShippingClassID: item.ShippingClassID,
			Quantity:        item.Quantity,
			NeedsShipping:   item.NeedsShipping,
		})
	}

	return &model.OrderPayload{
		CartSubtotal: o.CartSubtotal,
		Items:        items,
	}
}
