package notification

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/joblink/internal/pkg/email"
)

// Config tunes the dispatcher
type Config struct {
	Workers        int
	QueueSize      int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	SendTimeout    time.Duration
	BaseURL        string
}

func (c *Config) applyDefaults() {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.QueueSize < 1 {
		c.QueueSize = 1
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 500 * time.Millisecond
	}
	if c.MaxBackoff < c.InitialBackoff {
		c.MaxBackoff = c.InitialBackoff
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 30 * time.Second
	}
}

// Stats is a snapshot of the dispatcher counters
type Stats struct {
	Queued  int64
	Sent    int64
	Failed  int64
	Dropped int64
	Retried int64
}

// Dispatcher hands events to a bounded pool of workers that render and mail them.
// Notify never blocks; when the queue is full the event is dropped and counted.
type Dispatcher struct {
	cfg    Config
	mailer email.Mailer
	broker Broker
	logger zerolog.Logger

	pending chan Event
	work    chan Event

	started atomic.Bool
	closed  atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	queued, sent, failed, dropped, retried atomic.Int64

	sleep func(ctx context.Context, d time.Duration) error
}

// NewDispatcher creates a dispatcher. broker may be nil, in which case events stay in process.
func NewDispatcher(cfg Config, mailer email.Mailer, broker Broker, logger zerolog.Logger) *Dispatcher {
	cfg.applyDefaults()
	d := &Dispatcher{
		cfg:     cfg,
		mailer:  mailer,
		broker:  broker,
		logger:  logger,
		pending: make(chan Event, cfg.QueueSize),
		sleep:   sleepCtx,
	}
	if broker == nil {
		d.work = d.pending
	} else {
		d.work = make(chan Event, cfg.Workers)
	}
	return d
}

// Notify enqueues ev for delivery
func (d *Dispatcher) Notify(ev Event) {
	if d.closed.Load() {
		d.dropped.Add(1)
		d.logger.Warn().Int64("jobID", ev.JobID).Int64("studentID", ev.StudentID).Msg("Notification dispatcher stopped, dropping event")
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	select {
	case d.pending <- ev:
		d.queued.Add(1)
	default:
		d.dropped.Add(1)
		d.logger.Error().
			Int64("jobID", ev.JobID).
			Int64("studentID", ev.StudentID).
			Str("outcome", string(ev.Outcome)).
			Msg("Notification queue full, dropping event")
	}
}

// Start launches the workers, plus the broker forwarder and consumer when a broker is set
func (d *Dispatcher) Start(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return errors.New("notification dispatcher already started")
	}
	ctx, d.cancel = context.WithCancel(ctx)

	if d.broker != nil {
		if err := d.broker.Consume(ctx, d.accept); err != nil {
			d.cancel()
			return err
		}
		d.wg.Add(1)
		go d.forward(ctx)
	}

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}

	d.logger.Info().Int("workers", d.cfg.Workers).Bool("broker", d.broker != nil).Msg("Notification dispatcher started")
	return nil
}

// Stop stops accepting events and waits for in-flight deliveries or ctx expiry
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.closed.Store(true)
	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if d.broker != nil {
		if cerr := d.broker.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	st := d.Stats()
	d.logger.Info().
		Int64("sent", st.Sent).
		Int64("failed", st.Failed).
		Int64("dropped", st.Dropped).
		Int("unprocessed", len(d.pending)).
		Msg("Notification dispatcher stopped")
	return err
}

// Stats returns a snapshot of the counters
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Queued:  d.queued.Load(),
		Sent:    d.sent.Load(),
		Failed:  d.failed.Load(),
		Dropped: d.dropped.Load(),
		Retried: d.retried.Load(),
	}
}

// forward moves locally queued events onto the broker.
// If publishing fails the event is delivered in process instead.
func (d *Dispatcher) forward(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.pending:
			if err := d.broker.Publish(ctx, ev); err != nil {
				d.logger.Warn().Err(err).Int64("jobID", ev.JobID).Int64("studentID", ev.StudentID).
					Msg("Failed to publish notification, delivering in process")
				if !d.accept(ctx, ev) {
					d.dropped.Add(1)
				}
			}
		}
	}
}

// accept hands an event to the workers, blocking until one is free or ctx ends
func (d *Dispatcher) accept(ctx context.Context, ev Event) bool {
	select {
	case d.work <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	log := d.logger.With().Int("worker", id).Logger()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.work:
			d.deliver(ctx, log, ev)
		}
	}
}

// deliver renders ev and mails it, retrying with exponential backoff
func (d *Dispatcher) deliver(ctx context.Context, log zerolog.Logger, ev Event) {
	subject, body, err := Render(ev, d.cfg.BaseURL)
	if err != nil {
		d.failed.Add(1)
		log.Error().Err(err).Int64("jobID", ev.JobID).Int64("studentID", ev.StudentID).Msg("Failed to render notification")
		return
	}

	backoff := d.cfg.InitialBackoff
	for attempt := 1; ; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
		err = d.mailer.Send(sendCtx, ev.RecipientEmail, subject, body)
		cancel()
		if err == nil {
			d.sent.Add(1)
			log.Info().
				Int64("jobID", ev.JobID).
				Int64("studentID", ev.StudentID).
				Str("outcome", string(ev.Outcome)).
				Int("attempt", attempt).
				Msg("Notification sent")
			return
		}

		if attempt >= d.cfg.MaxAttempts {
			break
		}
		log.Warn().Err(err).
			Int64("jobID", ev.JobID).
			Int64("studentID", ev.StudentID).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("Notification delivery failed, retrying")
		d.retried.Add(1)
		if serr := d.sleep(ctx, backoff); serr != nil {
			err = serr
			break
		}
		backoff *= 2
		if backoff > d.cfg.MaxBackoff {
			backoff = d.cfg.MaxBackoff
		}
	}

	d.failed.Add(1)
	log.Error().Err(err).
		Int64("jobID", ev.JobID).
		Int64("studentID", ev.StudentID).
		Str("outcome", string(ev.Outcome)).
		Int("maxAttempts", d.cfg.MaxAttempts).
		Msg("Notification delivery failed")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
