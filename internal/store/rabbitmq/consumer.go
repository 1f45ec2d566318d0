package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrDeliveriesClosed means the broker closed the delivery channel while the consumer was
// still meant to run, for example after a connection loss.
var ErrDeliveriesClosed = errors.New("rabbitmq: delivery channel closed")

// Handler processes one job id. A returned error dead-letters the delivery.
type Handler func(ctx context.Context, jobID string) error

// Delivery is the subset of amqp.Delivery the pool needs.
type Delivery interface {
	Body() []byte
	Ack() error
	Nack() error
}

type amqpDelivery struct{ d amqp.Delivery }

func (a amqpDelivery) Body() []byte { return a.d.Body }
func (a amqpDelivery) Ack() error   { return a.d.Ack(false) }
func (a amqpDelivery) Nack() error  { return a.d.Nack(false, false) }

// Consume opens a channel with prefetch equal to concurrency and runs the pool until ctx
// ends or the broker stops delivering. The latter returns ErrDeliveriesClosed.
func Consume(ctx context.Context, conn *amqp.Connection, queue string, concurrency int, h Handler, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := Declare(ch, queue); err != nil {
		return err
	}
	// strict concurrency control
	if err := ch.Qos(concurrency, 0, false); err != nil {
		return err
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	return consume(ctx, msgs, concurrency, h, log)
}

// consume forwards msgs into the pool and waits for in-flight jobs before returning.
func consume(ctx context.Context, msgs <-chan amqp.Delivery, concurrency int, h Handler, log *zap.Logger) error {
	in := make(chan Delivery)
	closed := make(chan struct{})
	go func() {
		defer close(in)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					log.Warn("delivery channel closed")
					close(closed)
					return
				}
				select {
				case in <- amqpDelivery{d: d}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	RunPool(ctx, in, concurrency, h, log)
	select {
	case <-closed:
		return ErrDeliveriesClosed
	default:
		return ctx.Err()
	}
}

// RunPool fans deliveries out to concurrency workers and returns once in is closed and
// every worker has finished.
func RunPool(ctx context.Context, in <-chan Delivery, concurrency int, h Handler, log *zap.Logger) {
	if concurrency <= 0 {
		concurrency = 1
	}
	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range in {
				jobID, err := DecodeJob(d.Body())
				if err != nil {
					log.Warn("bad job message", zap.Int("worker", workerID), zap.Error(err))
					_ = d.Nack()
					continue
				}

				start := time.Now()
				if err := h(ctx, jobID); err != nil {
					log.Error("job failed",
						zap.Int("worker", workerID),
						zap.String("job_id", jobID),
						zap.Duration("cost", time.Since(start)),
						zap.Error(err))
					_ = d.Nack()
					continue
				}
				if err := d.Ack(); err != nil {
					log.Warn("ack failed", zap.Int("worker", workerID), zap.String("job_id", jobID), zap.Error(err))
				}
				if cost := time.Since(start); cost > 2*time.Second {
					log.Info("slow job", zap.String("job_id", jobID), zap.Duration("cost", cost))
				}
			}
		}(i)
	}
	wg.Wait()
}
