package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const (
	// UpsertSubject carries catalog record creates and updates.
	UpsertSubject = "engine.catalog.upsert"
	// DeleteSubject carries catalog record deletions.
	DeleteSubject = "engine.catalog.delete"
	// DLQSubject receives messages that exhausted their retries.
	DLQSubject = "engine.catalog.dlq"
	// MaxRetries before a message goes to the DLQ.
	MaxRetries = 3
)

// retryHeader counts delivery attempts across re-publishes.
const retryHeader = "X-Retry-Count"

// DeleteMessage is the wire form of a deletion.
type DeleteMessage struct {
	ID string `json:"id"`
}

// dlqMessage wraps a failed message with its terminal error.
type dlqMessage struct {
	Subject string          `json:"subject"`
	Payload json.RawMessage `json:"payload"`
	Error   string          `json:"error"`
	Retries int             `json:"retries"`
}

// Consumer applies catalog deltas arriving over NATS.
type Consumer struct {
	nc      *nats.Conn
	indexer Indexer
	logger  *slog.Logger
	subs    []*nats.Subscription
}

// NewConsumer creates a Consumer. Call Start to begin receiving.
func NewConsumer(nc *nats.Conn, indexer Indexer, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{nc: nc, indexer: indexer, logger: logger}
}

// Start subscribes to the upsert and delete subjects.
func (c *Consumer) Start() error {
	pipeline := NewPipeline(c.indexer)

	upsertSub, err := c.nc.Subscribe(UpsertSubject, func(msg *nats.Msg) {
		c.handle(msg, func(ctx context.Context, data []byte) error {
			var rec upsertMessage
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("unmarshal: %w", err)
			}
			_, err := pipeline(ctx, rec.VehicleRecord()).Unwrap()
			return err
		})
	})
	if err != nil {
		return fmt.Errorf("ingest: subscribe %s: %w", UpsertSubject, err)
	}
	c.subs = append(c.subs, upsertSub)

	deleteSub, err := c.nc.Subscribe(DeleteSubject, func(msg *nats.Msg) {
		c.handle(msg, func(ctx context.Context, data []byte) error {
			var del DeleteMessage
			if err := json.Unmarshal(data, &del); err != nil {
				return fmt.Errorf("unmarshal: %w", err)
			}
			if del.ID == "" {
				return fmt.Errorf("delete message without id")
			}
			return c.indexer.IndexDelete(ctx, del.ID)
		})
	})
	if err != nil {
		return fmt.Errorf("ingest: subscribe %s: %w", DeleteSubject, err)
	}
	c.subs = append(c.subs, deleteSub)

	c.logger.Info("ingest: consumer started", "subjects", []string{UpsertSubject, DeleteSubject})
	return nil
}

// Stop drains the subscriptions.
func (c *Consumer) Stop() {
	for _, sub := range c.subs {
		_ = sub.Drain()
	}
	c.subs = nil
}

// handle runs one message through fn, re-publishing with an incremented retry
// header on failure and routing to the DLQ once retries are exhausted.
func (c *Consumer) handle(msg *nats.Msg, fn func(context.Context, []byte) error) {
	ctx := context.Background()

	retries := 0
	if msg.Header != nil {
		if v := msg.Header.Get(retryHeader); v != "" {
			fmt.Sscanf(v, "%d", &retries)
		}
	}

	err := fn(ctx, msg.Data)
	if err == nil {
		if msg.Reply != "" {
			_ = msg.Ack()
		}
		return
	}

	retries++
	c.logger.Error("ingest: message failed", "subject", msg.Subject, "retry", retries, "err", err)

	if retries >= MaxRetries {
		dlq := dlqMessage{
			Subject: msg.Subject,
			Payload: msg.Data,
			Error:   err.Error(),
			Retries: retries,
		}
		data, _ := json.Marshal(dlq)
		if perr := c.nc.Publish(DLQSubject, data); perr != nil {
			c.logger.Error("ingest: DLQ publish failed", "err", perr)
		}
	} else {
		retry := nats.NewMsg(msg.Subject)
		retry.Data = msg.Data
		retry.Header = nats.Header{}
		retry.Header.Set(retryHeader, fmt.Sprintf("%d", retries))
		if perr := c.nc.PublishMsg(retry); perr != nil {
			c.logger.Error("ingest: retry publish failed", "err", perr)
		}
	}

	if msg.Reply != "" {
		_ = msg.Ack()
	}
}
