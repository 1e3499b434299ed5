package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/fetch"
	"github.com/xuenqlve/rangekit/log"
	"github.com/xuenqlve/rangekit/ranges"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Sink 把规划好的请求以 JSON 写入 Kafka，消息 key 为请求的 history key
type Sink[T ranges.Number] struct {
	writer messageWriter
}

var _ fetch.Sink[float64] = (*Sink[float64])(nil)

func NewSink[T ranges.Number](c *Config) (*Sink[T], error) {
	writer, err := c.CreateWriter()
	if err != nil {
		return nil, err
	}
	return &Sink[T]{writer: writer}, nil
}

func (s *Sink[T]) Publish(ctx context.Context, requests []fetch.Request[T]) error {
	msgs := make([]kafka.Message, 0, len(requests))
	for _, req := range requests {
		value, err := json.Marshal(req)
		if err != nil {
			return errors.Trace(err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(req.Key), Value: value})
	}
	if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
		return errors.NewRangeError(errors.ErrCodeSink, errors.Annotatef(err, "publish %d requests", len(msgs)))
	}
	return nil
}

func (s *Sink[T]) Close() error {
	return s.writer.Close()
}

// Consumer 从 Kafka 读取请求并交给 handle 执行，执行成功才提交 offset
type Consumer[T ranges.Number] struct {
	reader messageReader
}

func NewConsumer[T ranges.Number](c *Config) (*Consumer[T], error) {
	reader, err := c.CreateReader()
	if err != nil {
		return nil, err
	}
	return &Consumer[T]{reader: reader}, nil
}

// Run blocks until ctx is done or handle returns an error. Messages that
// cannot be decoded are logged and committed.
func (c *Consumer[T]) Run(ctx context.Context, handle func(ctx context.Context, req fetch.Request[T]) error) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Trace(err)
		}

		var req fetch.Request[T]
		if err = json.Unmarshal(msg.Value, &req); err != nil {
			log.Warnf("skip malformed request at offset %d: %v", msg.Offset, err)
		} else if err = handle(ctx, req); err != nil {
			return errors.Annotatef(err, "handle request %s", req.ID)
		}

		if err = c.reader.CommitMessages(ctx, msg); err != nil {
			return errors.Trace(err)
		}
	}
}

func (c *Consumer[T]) Close() error {
	return c.reader.Close()
}
