// Package events is the domain event bus. Events are stored in PostgreSQL
// through watermill-sql, so a repository can publish inside the same
// transaction that writes its rows: the event exists if and only if the
// write committed.
//
// Subscribers sharing a consumer group split the stream between them; each
// message is handled by one instance. Handlers must be idempotent because a
// failed message is retried and may be redelivered.
//
// OpenTelemetry trace context rides along in message metadata, so a handler's
// spans join the trace of the request that produced the event.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/orderserver/pkg/database"
	"github.com/ghuser/orderserver/pkg/logger"
)

const (
	maxRetries      = 3
	retryBaseDelay  = time.Second
	shutdownTimeout = 30 * time.Second
	errBuffer       = 100
	forwarderTopic  = "_orderserver_outbox"

	metaEventID      = "event_id"
	metaEventVersion = "event_version"
)

// ErrNoForwarder is returned by StartForwarder on a bus built without one.
var ErrNoForwarder = errors.New("events: bus was created without a forwarder")

// Event is implemented by every domain event payload.
type Event interface {
	// Topic is the watermill topic the event is published to.
	Topic() string
	// ID uniquely identifies one publication, for consumer-side deduplication.
	ID() string
	// SchemaVersion is bumped on breaking payload changes.
	SchemaVersion() int
}

// Handler processes one message. Returning an error triggers a retry.
type Handler func(ctx context.Context, msg *message.Message) error

// Options configures a bus.
type Options struct {
	// ConsumerGroup is shared by every instance that should split the stream.
	ConsumerGroup string
	// Forwarder routes publications through an outbox topic drained by
	// StartForwarder instead of writing them to their topic directly.
	Forwarder bool
}

// EventBus publishes and consumes domain events stored in PostgreSQL.
type EventBus struct {
	db         *sql.DB
	opts       Options
	log        logger.Logger
	wlog       watermill.LoggerAdapter
	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder

	wg sync.WaitGroup
}

// NewEventBus builds a bus over db. The watermill schema is created on first
// use. The bus does not own db; closing the bus leaves it open.
func NewEventBus(db *sql.DB, opts Options, log logger.Logger) (*EventBus, error) {
	wlog := &slogAdapter{log: log}

	pub, err := watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: true,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    opts.ConsumerGroup,
	}, wlog)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	return &EventBus{
		db:         db,
		opts:       opts,
		log:        log,
		wlog:       wlog,
		publisher:  wrapForwarder(pub, opts.Forwarder),
		subscriber: sub,
	}, nil
}

func wrapForwarder(pub message.Publisher, enabled bool) message.Publisher {
	if !enabled {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
}

// StartForwarder drains the outbox topic into the real topics until ctx is
// cancelled or the bus is closed. It returns once the forwarder is running.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	if !b.opts.Forwarder {
		return ErrNoForwarder
	}
	if b.fwd != nil {
		return errors.New("events: forwarder already started")
	}

	outbox, err := watermillsql.NewSubscriber(b.db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    b.opts.ConsumerGroup + "-forwarder",
	}, b.wlog)
	if err != nil {
		return fmt.Errorf("events: new outbox subscriber: %w", err)
	}

	target, err := watermillsql.NewPublisher(b.db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: true,
	}, b.wlog)
	if err != nil {
		_ = outbox.Close()
		return fmt.Errorf("events: new forwarder publisher: %w", err)
	}

	fwd, err := forwarder.NewForwarder(outbox, target, b.wlog, forwarder.Config{ForwarderTopic: forwarderTopic})
	if err != nil {
		_ = target.Close()
		_ = outbox.Close()
		return fmt.Errorf("events: new forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
			return
		}
		b.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		b.log.InfoContext(ctx, "events: forwarder running")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// Publish encodes evt as JSON and publishes it. When ctx carries a database
// transaction the message is written inside it and only becomes visible to
// subscribers if that transaction commits.
func (b *EventBus) Publish(ctx context.Context, evt Event) error {
	msg, err := NewMessage(ctx, evt)
	if err != nil {
		return err
	}

	pub := b.publisher
	if tx, ok := database.TxFromContext(ctx); ok {
		if pub, err = b.txPublisher(tx); err != nil {
			return err
		}
	}

	if err := pub.Publish(evt.Topic(), msg); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", evt.Topic(), err)
	}
	return nil
}

// txPublisher returns a publisher bound to tx. The schema already exists once
// the bus has been constructed, so it is not re-initialized here.
func (b *EventBus) txPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := watermillsql.NewPublisher(tx, watermillsql.PublisherConfig{
		SchemaAdapter: watermillsql.DefaultPostgreSQLSchema{},
	}, b.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	return wrapForwarder(pub, b.opts.Forwarder), nil
}

// NewMessage builds the watermill message for evt, carrying its id, schema
// version and the trace context of ctx in the metadata.
func NewMessage(ctx context.Context, evt Event) (*message.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("events: marshal %s: %w", evt.Topic(), err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(metaEventID, evt.ID())
	msg.Metadata.Set(metaEventVersion, strconv.Itoa(evt.SchemaVersion()))

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}
	return msg, nil
}

// Decode unmarshals the payload of msg into T.
func Decode[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("events: decode message %s: %w", msg.UUID, err)
	}
	return v, nil
}

// Subscribe starts consuming topic in the background. Each message is handed
// to handler with the publisher's trace context restored. A message whose
// handler keeps failing after the retries is nacked and its error is sent on
// the returned channel, which callers must drain. The channel is closed when
// the subscription ends.
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	msgs, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errBuffer)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)

		for msg := range msgs {
			msgCtx := extractTrace(ctx, msg)
			if err := retryWithBackoff(msgCtx, msg, handler, maxRetries, retryBaseDelay, b.log); err != nil {
				msg.Nack()
				select {
				case errCh <- err:
				default:
					b.log.ErrorContext(msgCtx, "events: error channel full", "topic", topic, "error", err)
				}
				continue
			}
			msg.Ack()
		}
	}()

	return errCh, nil
}

func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	carrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		carrier[k] = v
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// retryWithBackoff calls handler until it succeeds, doubling the delay after
// every failure. It gives up after attempts calls or when ctx ends.
func retryWithBackoff(ctx context.Context, msg *message.Message, handler Handler, attempts int, delay time.Duration, log logger.Logger) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		log.WarnContext(ctx, "events: handler failed",
			"attempt", attempt,
			"next_delay", delay,
			"event_id", msg.Metadata.Get(metaEventID),
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d attempts: %w", attempts, err)
}

// Ping checks the connection the bus publishes through.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping: %w", err)
	}
	return nil
}

// Close stops the subscriber and the forwarder, waits up to 30s for running
// handlers, then closes the publisher.
func (b *EventBus) Close() error {
	if err := b.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		b.log.Error("events: handlers still running at shutdown")
	}

	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return nil
}

// slogAdapter lets watermill log through logger.Logger.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}

func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}

func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}

func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}

func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
