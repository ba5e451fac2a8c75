package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Config describes the broker topology the worker uses.
type Config struct {
	URL   string `mapstructure:"url"`
	Queue string `mapstructure:"queue" validate:"required"`
	// ResultsExchange receives responses for messages without a reply-to queue,
	// routed by "analysis.<status>". Empty means such responses are dropped.
	ResultsExchange string `mapstructure:"results-exchange"`
	Workers         int    `mapstructure:"workers" validate:"gte=0"`
	Prefetch        int    `mapstructure:"prefetch" validate:"gte=0"`
}

const (
	DefaultQueue    = "resume-analysis"
	DefaultWorkers  = 3
	defaultPrefetch = 1
)

type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Worker consumes analysis requests with a pool of goroutines, one channel each.
type Worker struct {
	cfg       Config
	processor *Processor
	logger    *zap.Logger
}

func NewWorker(cfg Config, processor *Processor, logger *zap.Logger) *Worker {
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = defaultPrefetch
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{cfg: cfg, processor: processor, logger: logger}
}

// Run blocks until ctx is cancelled or the broker connection is lost.
func (w *Worker) Run(ctx context.Context) error {
	if w.cfg.URL == "" {
		return errors.New("amqp url is required")
	}

	conn, err := amqp.Dial(w.cfg.URL)
	if err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}
	defer conn.Close()

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, w.cfg.Workers)
	var wg sync.WaitGroup
	wg.Add(w.cfg.Workers)
	for i := range w.cfg.Workers {
		go func() {
			defer wg.Done()
			if err := w.consume(runCtx, conn, i+1); err != nil {
				errs <- err
				cancel()
			}
		}()
	}

	w.logger.Info("worker pool started", zap.String("queue", w.cfg.Queue), zap.Int("workers", w.cfg.Workers))

	var runErr error
	select {
	case <-ctx.Done():
	case <-runCtx.Done():
	case amqpErr := <-closed:
		if amqpErr != nil {
			runErr = fmt.Errorf("amqp connection closed: %w", amqpErr)
		}
	}

	cancel()
	// closing the connection ends every delivery channel
	_ = conn.Close()
	wg.Wait()
	close(errs)

	if runErr != nil {
		return runErr
	}
	if err, ok := <-errs; ok {
		return err
	}
	return nil
}

func (w *Worker) consume(ctx context.Context, conn *amqp.Connection, id int) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("worker %d: open channel: %w", id, err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(w.cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("worker %d: declare queue: %w", id, err)
	}
	if w.cfg.ResultsExchange != "" {
		if err := ch.ExchangeDeclare(w.cfg.ResultsExchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
			return fmt.Errorf("worker %d: declare exchange: %w", id, err)
		}
	}
	if err := ch.Qos(w.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("worker %d: set qos: %w", id, err)
	}

	msgs, err := ch.Consume(w.cfg.Queue, fmt.Sprintf("resume-analyzer-%d", id), false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("worker %d: consume: %w", id, err)
	}

	log := w.logger.With(zap.Int("worker", id))
	log.Debug("worker consuming")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, ch, msg, log)
		}
	}
}

func (w *Worker) handle(ctx context.Context, ch *amqp.Channel, msg amqp.Delivery, log *zap.Logger) {
	resp := w.processor.Process(ctx, msg.Body)
	log.Info("request processed",
		zap.String("request_id", resp.RequestID),
		zap.String("status", resp.Status),
		zap.String("error", resp.Error),
	)

	if err := Reply(ch, w.cfg.ResultsExchange, msg.ReplyTo, msg.CorrelationId, resp); err != nil {
		log.Error("failed to publish response", zap.Error(err))
		// leave it to another consumer
		if nackErr := msg.Nack(false, true); nackErr != nil {
			log.Error("failed to nack message", zap.Error(nackErr))
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		log.Error("failed to ack message", zap.Error(err))
	}
}

// Reply publishes resp to the reply-to queue when set, else to the results
// exchange. With neither, the response is discarded.
func Reply(pub publisher, exchange, replyTo, correlationID string, resp Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	key := replyTo
	if replyTo != "" {
		exchange = ""
	} else {
		if exchange == "" {
			return nil
		}
		key = "analysis." + resp.Status
	}

	if correlationID == "" {
		correlationID = resp.RequestID
	}

	return pub.Publish(exchange, key, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: correlationID,
		DeliveryMode:  amqp.Persistent,
		Timestamp:     resp.Timestamp,
		Body:          body,
	})
}
