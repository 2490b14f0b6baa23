package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"portfolio/internal/observability"
)

var (
	// ErrQueueFull is returned when the queue has no free slot.
	ErrQueueFull = errors.New("notification queue is full")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("notification dispatcher is closed")
)

// DispatcherConfig sizes the dispatcher.
type DispatcherConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// Dispatcher is a fire-and-forget queue of messages drained by a fixed
// set of workers. Enqueue never blocks.
type Dispatcher struct {
	sender  Sender
	logger  *slog.Logger
	timeout time.Duration

	jobs   chan Message
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts cfg.Workers goroutines delivering through sender.
func NewDispatcher(sender Sender, logger *slog.Logger, cfg DispatcherConfig) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		sender:  sender,
		logger:  logger,
		timeout: cfg.SendTimeout,
		jobs:    make(chan Message, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.worker()
	}
	return d
}

// Enqueue queues msg for delivery.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	select {
	case d.jobs <- msg:
		observability.EmailDispatch.WithLabelValues(msg.Template, "queued").Inc()
		observability.NotifyQueueDepth.Inc()
		return nil
	default:
		observability.EmailDispatch.WithLabelValues(msg.Template, "rejected").Inc()
		return ErrQueueFull
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
// If ctx ends first, in-flight sends are cancelled and the rest are dropped.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.jobs {
		observability.NotifyQueueDepth.Dec()
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	if d.ctx.Err() != nil {
		observability.EmailDispatch.WithLabelValues(msg.Template, "dropped").Inc()
		return
	}

	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		observability.EmailDispatch.WithLabelValues(msg.Template, "failed").Inc()
		d.logger.Error("email delivery failed",
			slog.String("template", msg.Template),
			slog.String("to", msg.To),
			slog.String("error", err.Error()),
		)
		return
	}
	observability.EmailDispatch.WithLabelValues(msg.Template, "sent").Inc()
}
