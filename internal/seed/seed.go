// Package seed loads the demo catalog, staff accounts and sample orders into an empty
// store.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stylofitness/storefront-api/internal/model"
	"github.com/stylofitness/storefront-api/internal/repository"
	"github.com/stylofitness/storefront-api/internal/service"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "stylo123"

var products = []model.Product{
	{Name: "Whey Protein Gold Standard", Description: "24g of protein per serving, double rich chocolate.", Price: decimal.RequireFromString("289.90"), Image: "/images/whey-gold.jpg", Category: model.CategoryProtein, Stock: 25, Brand: "Optimum Nutrition", Featured: true, BestSeller: true},
	{Name: "Iso 100 Hydrolyzed", Description: "Fast absorbing hydrolyzed whey isolate.", Price: decimal.RequireFromString("349.90"), Image: "/images/iso-100.jpg", Category: model.CategoryProtein, Stock: 12, Brand: "Dymatize", Featured: true},
	{Name: "Creatine Monohydrate 300g", Description: "Micronized creatine for strength and power.", Price: decimal.RequireFromString("89.90"), Image: "/images/creatine-300.jpg", Category: model.CategoryCreatine, Stock: 40, Brand: "Universal", BestSeller: true},
	{Name: "Creapure Creatine 500g", Description: "German pharmaceutical grade creatine.", Price: decimal.RequireFromString("139.90"), Image: "/images/creapure-500.jpg", Category: model.CategoryCreatine, Stock: 18, Brand: "Scitec"},
	{Name: "Hydroxycut Hardcore Elite", Description: "Thermogenic formula with caffeine.", Price: decimal.RequireFromString("159.90"), Image: "/images/hydroxycut.jpg", Category: model.CategoryFatBurner, Stock: 9, Brand: "MuscleTech", Featured: true},
	{Name: "L-Carnitine 1000", Description: "Liquid L-carnitine, citrus flavor.", Price: decimal.RequireFromString("69.90"), Image: "/images/l-carnitine.jpg", Category: model.CategoryFatBurner, Stock: 30, Brand: "BPI Sports"},
	{Name: "Opti-Men Multivitamin", Description: "75+ active ingredients for active men.", Price: decimal.RequireFromString("119.90"), Image: "/images/opti-men.jpg", Category: model.CategoryVitamins, Stock: 22, Brand: "Optimum Nutrition", BestSeller: true},
	{Name: "Omega 3 Fish Oil", Description: "1000mg softgels with EPA and DHA.", Price: decimal.RequireFromString("59.90"), Image: "/images/omega-3.jpg", Category: model.CategoryVitamins, Stock: 50, Brand: "Now Foods"},
}

var reviews = map[int][]model.Review{
	0: {
		{ID: 1, UserName: "Diego R.", Rating: 5, Comment: "Mixes well and tastes great."},
		{ID: 2, UserName: "Andrea P.", Rating: 4, Comment: "Good value."},
	},
	2: {{ID: 1, UserName: "Luis M.", Rating: 5, Comment: "Noticeable strength gains."}},
}

var users = []struct {
	name, email, phone string
	role               model.Role
}{
	{"Stylo Admin", "admin@stylofitness.pe", "999111222", model.RoleAdmin},
	{"Carlos Worker", "worker@stylofitness.pe", "999333444", model.RoleWorker},
	{"Maria Lopez", "maria@example.com", "987654321", model.RoleCustomer},
}

// Run seeds store when its catalog is empty. A populated store is left untouched.
func Run(ctx context.Context, store *repository.Store, log *slog.Logger) error {
	existing, err := store.Products.List(ctx, model.ProductFilter{})
	if err != nil {
		return fmt.Errorf("check catalog: %w", err)
	}
	if len(existing) > 0 {
		log.Info("store already has data, skipping seed")
		return nil
	}

	now := time.Now().UTC()
	created := make([]model.Product, 0, len(products))
	for i, p := range products {
		p.Reviews = append([]model.Review(nil), reviews[i]...)
		for j := range p.Reviews {
			p.Reviews[j].Date = now.AddDate(0, 0, -7*(j+1))
		}
		p.RecomputeRating()
		if err := store.Products.Create(ctx, &p); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		created = append(created, p)
	}

	hashed, err := service.HashPassword(DefaultPassword)
	if err != nil {
		return err
	}
	var customer model.User
	for _, u := range users {
		user := model.User{Name: u.name, Email: u.email, Phone: u.phone, Role: u.role, Password: hashed}
		if err := store.Users.Create(ctx, &user); err != nil {
			return fmt.Errorf("seed user %q: %w", u.email, err)
		}
		if u.role == model.RoleCustomer {
			customer = user
		}
	}

	if err := seedOrders(ctx, store, created, customer, now); err != nil {
		return err
	}

	for _, m := range []model.StockMovement{
		{ProductID: created[0].ID, ProductName: created[0].Name, Quantity: 10, WorkerName: "Carlos Worker", Type: model.MovementAddition, Reason: "supplier delivery", Timestamp: now.Add(-72 * time.Hour)},
		{ProductID: created[2].ID, ProductName: created[2].Name, Quantity: 20, WorkerName: "Carlos Worker", Type: model.MovementAddition, Reason: "supplier delivery", Timestamp: now.Add(-48 * time.Hour)},
		{ProductID: created[4].ID, ProductName: created[4].Name, Quantity: 1, WorkerName: "Stylo Admin", Type: model.MovementReduction, Reason: "damaged", Timestamp: now.Add(-24 * time.Hour)},
	} {
		if err := store.Stock.Record(ctx, &m); err != nil {
			return fmt.Errorf("seed stock movement: %w", err)
		}
	}

	log.Info("seeded store", "products", len(created), "users", len(users))
	return nil
}

// seedOrders creates one sample order per status along the fulfillment path.
func seedOrders(ctx context.Context, store *repository.Store, catalog []model.Product, customer model.User, now time.Time) error {
	samples := []struct {
		items    []int
		delivery model.DeliveryInfo
		payment  model.PaymentMethod
		status   model.OrderStatus
		age      time.Duration
	}{
		{[]int{0, 2}, model.DeliveryInfo{Method: model.DeliveryPickup, LocationID: "stylo-miraflores"}, model.PaymentYape, model.OrderStatusPending, 2 * time.Hour},
		{[]int{6}, model.DeliveryInfo{Method: model.DeliveryDelivery, Address: "Av. Larco 345", District: "Miraflores", Reference: "Near the park"}, model.PaymentCash, model.OrderStatusConfirmed, 26 * time.Hour},
		{[]int{1, 7}, model.DeliveryInfo{Method: model.DeliveryDelivery, Address: "Jr. Union 120", District: "Lima"}, model.PaymentWhatsApp, model.OrderStatusInProgress, 50 * time.Hour},
		{[]int{3}, model.DeliveryInfo{Method: model.DeliveryPickup, LocationID: "stylo-san-isidro"}, model.PaymentYape, model.OrderStatusDelivered, 120 * time.Hour},
	}

	for _, s := range samples {
		order := &model.Order{
			CustomerID:    customer.ID,
			CustomerName:  customer.Name,
			CustomerEmail: customer.Email,
			CustomerPhone: customer.Phone,
			Delivery:      s.delivery,
			PaymentMethod: s.payment,
			Status:        model.OrderStatusPending,
			CreatedAt:     now.Add(-s.age),
		}
		total := decimal.Zero
		for _, idx := range s.items {
			p := catalog[idx]
			order.Items = append(order.Items, model.OrderItem{ProductID: p.ID, ProductName: p.Name, Quantity: 1, Price: p.Price})
			total = total.Add(p.Price)
		}
		order.Total = total
		eta := 48 * time.Hour
		if s.delivery.Method == model.DeliveryPickup {
			eta = 24 * time.Hour
		}
		order.EstimatedDelivery = order.CreatedAt.Add(eta)

		if err := store.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("seed order: %w", err)
		}
		if s.status != model.OrderStatusPending {
			if _, err := store.Orders.UpdateStatus(ctx, order.ID, model.OrderStatusPending, s.status); err != nil {
				return fmt.Errorf("seed order %d status: %w", order.ID, err)
			}
		}
	}
	return nil
}
