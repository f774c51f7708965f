package dto

import "github.com/stylofitness/storefront-api/internal/model"

func NewProductResponse(p *model.Product) ProductResponse {
	reviews := p.Reviews
	if reviews == nil {
		reviews = []model.Review{}
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Stock:       p.Stock,
		Rating:      p.Rating,
		Reviews:     reviews,
		Brand:       p.Brand,
		Featured:    p.Featured,
		BestSeller:  p.BestSeller,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func NewStockMovementResponse(m *model.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		Timestamp:   m.Timestamp,
		WorkerName:  m.WorkerName,
		Type:        m.Type,
		Reason:      m.Reason,
	}
}

func NewOrderResponse(o *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return OrderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		Items:         items,
		Delivery: DeliveryResponse{
			Method:     o.Delivery.Method,
			Address:    o.Delivery.Address,
			District:   o.Delivery.District,
			Reference:  o.Delivery.Reference,
			LocationID: o.Delivery.LocationID,
		},
		PaymentMethod:     o.PaymentMethod,
		Total:             o.Total,
		Status:            o.Status,
		CreatedAt:         o.CreatedAt,
		EstimatedDelivery: o.EstimatedDelivery,
	}
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role}
}
