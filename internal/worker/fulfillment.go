package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/stylofitness/storefront-api/internal/broker"
	"github.com/stylofitness/storefront-api/internal/model"
	"github.com/stylofitness/storefront-api/internal/repository"
	"github.com/stylofitness/storefront-api/internal/service"
)

const (
	fulfillmentWorkerName = "fulfillment"
	idempotencyTTL        = 24 * time.Hour
)

// FulfillmentWorker takes stock out of inventory when an order leaves pending.
type FulfillmentWorker struct {
	channel     *amqp.Channel
	orderRepo   repository.OrderRepository
	stock       *service.StockService
	redisClient *redis.Client
	log         *slog.Logger
	done        chan struct{}
	stopOnce    sync.Once

	// processed stands in for Redis when no client is configured.
	mu        sync.Mutex
	processed map[string]struct{}
}

func NewFulfillmentWorker(
	ch *amqp.Channel,
	orderRepo repository.OrderRepository,
	stock *service.StockService,
	redisClient *redis.Client,
	log *slog.Logger,
) *FulfillmentWorker {
	return &FulfillmentWorker{
		channel:     ch,
		orderRepo:   orderRepo,
		stock:       stock,
		redisClient: redisClient,
		log:         log,
		done:        make(chan struct{}),
		processed:   make(map[string]struct{}),
	}
}

func (w *FulfillmentWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(broker.FulfillmentQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("fulfillment worker started")
	return nil
}

func (w *FulfillmentWorker) Stop() { w.stopOnce.Do(func() { close(w.done) }) }

func (w *FulfillmentWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var event model.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		w.log.Error("unmarshal order event", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	if err := w.Handle(ctx, event); err != nil {
		w.log.Error("fulfill order failed", "order_id", event.OrderID, "error", err)
		_ = msg.Nack(false, false) // dead-lettered
		return
	}
	_ = msg.Ack(false)
}

// Handle applies one order event. The first move out of pending into any status other
// than cancelled reduces stock, including forward skips past confirmed. Each order is
// fulfilled at most once.
func (w *FulfillmentWorker) Handle(ctx context.Context, event model.OrderEvent) error {
	if !fulfills(event) {
		return nil
	}
	log := w.log.With("order_id", event.OrderID)

	key := "order_fulfilled:" + strconv.FormatInt(event.OrderID, 10)
	seen, err := w.seen(ctx, key)
	if err != nil {
		return fmt.Errorf("check idempotency key: %w", err)
	}
	if seen {
		log.Info("order already fulfilled, skipping")
		return nil
	}

	order, err := w.orderRepo.GetByID(ctx, event.OrderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order %d: %w", event.OrderID, service.ErrOrderNotFound)
	}

	reason := "order #" + strconv.FormatInt(order.ID, 10)
	for i, item := range order.Items {
		_, _, err := w.stock.ReduceStock(ctx, service.Adjustment{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			WorkerName: fulfillmentWorkerName,
			Reason:     reason,
		})
		if err != nil {
			w.restock(ctx, log, order.Items[:i], reason)
			return fmt.Errorf("reduce stock for product %d: %w", item.ProductID, err)
		}
	}

	if err := w.mark(ctx, key); err != nil {
		log.Error("set idempotency key", "error", err)
	}
	log.Info("order fulfilled", "items", len(order.Items))
	return nil
}

// restock returns the lines already taken out of inventory when an order cannot be
// fulfilled completely.
func (w *FulfillmentWorker) restock(ctx context.Context, log *slog.Logger, items []model.OrderItem, reason string) {
	for _, item := range items {
		_, _, err := w.stock.AddStock(ctx, service.Adjustment{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			WorkerName: fulfillmentWorkerName,
			Reason:     reason + " rollback",
		})
		if err != nil {
			log.Error("restock after failed fulfillment", "product_id", item.ProductID, "error", err)
		}
	}
}

func (w *FulfillmentWorker) seen(ctx context.Context, key string) (bool, error) {
	if w.redisClient == nil {
		w.mu.Lock()
		defer w.mu.Unlock()
		_, ok := w.processed[key]
		return ok, nil
	}
	exists, err := w.redisClient.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (w *FulfillmentWorker) mark(ctx context.Context, key string) error {
	if w.redisClient == nil {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.processed[key] = struct{}{}
		return nil
	}
	return w.redisClient.Set(ctx, key, "1", idempotencyTTL).Err()
}

func fulfills(event model.OrderEvent) bool {
	return event.PreviousStatus == model.OrderStatusPending && event.Status != model.OrderStatusCancelled
}
