package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"

	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
)

const (
	topicOrderStatus = "settlement.order-status"
	topicPayments    = "settlement.payments"
)

// orderStatusEvent is the wire payload for order lifecycle changes.
type orderStatusEvent struct {
	OrderID    int64  `json:"order_id"`
	CustomerID int64  `json:"customer_id"`
	StoreID    int64  `json:"store_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	OccurredAt string `json:"occurred_at"`
}

// paymentEvent is the wire payload for settled money movements.
type paymentEvent struct {
	OrderID    int64  `json:"order_id"`
	Kind       string `json:"kind"`
	Amount     string `json:"amount"`
	OccurredAt string `json:"occurred_at"`
}

// KafkaNotifier publishes settlement events to Kafka. Publishing is
// asynchronous and never blocks order processing; failed deliveries are
// logged and dropped.
type KafkaNotifier struct {
	producer sarama.AsyncProducer
	logger   *slog.Logger
	done     chan struct{}
}

// NewKafkaNotifier connects an async producer to the given brokers.
func NewKafkaNotifier(brokers []string, logger *slog.Logger) (*KafkaNotifier, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Flush.Frequency = 500 * time.Millisecond
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewAsyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	n := &KafkaNotifier{producer: producer, logger: logger, done: make(chan struct{})}
	go n.drainErrors()
	return n, nil
}

func (n *KafkaNotifier) drainErrors() {
	defer close(n.done)
	for err := range n.producer.Errors() {
		n.logger.Error("event delivery failed",
			slog.String("topic", err.Msg.Topic),
			slog.String("error", err.Err.Error()))
	}
}

func (n *KafkaNotifier) publish(topic string, key int64, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("event marshal failed", slog.String("topic", topic), slog.String("error", err.Error()))
		return
	}
	n.producer.Input() <- &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(key, 10)),
		Value: sarama.ByteEncoder(data),
	}
}

// OrderStatusChanged publishes one lifecycle transition.
func (n *KafkaNotifier) OrderStatusChanged(_ context.Context, order *model.Order, from model.OrderStatus) {
	n.publish(topicOrderStatus, order.ID, orderStatusEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		StoreID:    order.StoreID,
		From:       string(from),
		To:         string(order.Status),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// PaymentSettled publishes one completed money movement.
func (n *KafkaNotifier) PaymentSettled(_ context.Context, orderID int64, kind model.WalletTransactionKind, amount money.Amount) {
	n.publish(topicPayments, orderID, paymentEvent{
		OrderID:    orderID,
		Kind:       string(kind),
		Amount:     amount.String(),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// Close flushes pending messages and stops the error drain.
func (n *KafkaNotifier) Close() error {
	err := n.producer.Close()
	<-n.done
	return err
}
