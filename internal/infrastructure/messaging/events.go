// Package messaging 图书领域事件的发布与消费
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

// 事件名，同时作为routing key
const (
	EventBookCreated = "book.created"
	EventBookDeleted = "book.deleted"
)

// bindingKey 审计队列绑定的routing key
const bindingKey = "book.*"

// BookEvent 图书事件消息体
type BookEvent struct {
	Event      string    `json:"event"`
	BookID     uint      `json:"book_id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newBookEvent(event string, b *book.Book, now time.Time) BookEvent {
	return BookEvent{
		Event:      event,
		BookID:     b.ID,
		Title:      b.Title,
		Author:     b.AuthorName(),
		OccurredAt: now.UTC(),
	}
}

// EventPublisher 图书事件发布者
// 设计说明：
// 1. 事件在数据库事务提交之后发布，发布失败只记日志，不影响已经成功的写操作
// 2. mq.enabled=false时publisher为nil，发布退化为空操作
type EventPublisher struct {
	publisher *mq.Publisher
	log       *zap.Logger
	now       func() time.Time
}

// NewEventPublisher 创建事件发布者
func NewEventPublisher(cfg *config.Config, log *zap.Logger) (*EventPublisher, func(), error) {
	log = log.Named("events")
	if !cfg.MQ.Enabled {
		log.Info("消息队列未启用，图书事件不会发布")
		return &EventPublisher{log: log, now: time.Now}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, log)
	if err != nil {
		return nil, nil, fmt.Errorf("创建事件发布者失败: %w", err)
	}

	cleanup := func() {
		_ = publisher.Close()
	}
	return &EventPublisher{publisher: publisher, log: log, now: time.Now}, cleanup, nil
}

// BookCreated 发布book.created事件
func (p *EventPublisher) BookCreated(ctx context.Context, b *book.Book) {
	p.publish(ctx, newBookEvent(EventBookCreated, b, p.now()))
}

// BookDeleted 发布book.deleted事件
func (p *EventPublisher) BookDeleted(ctx context.Context, b *book.Book) {
	p.publish(ctx, newBookEvent(EventBookDeleted, b, p.now()))
}

func (p *EventPublisher) publish(ctx context.Context, event BookEvent) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, event.Event, event); err != nil {
		p.log.Error("发布图书事件失败",
			zap.String("event", event.Event),
			zap.Uint("book_id", event.BookID),
			zap.Error(err),
		)
	}
}

// RunAuditConsumer 消费图书事件并写入日志，直到ctx取消
func RunAuditConsumer(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log = log.Named("audit")

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, cfg.MQ.Queue, []string{bindingKey}, log)
	if err != nil {
		return fmt.Errorf("创建事件消费者失败: %w", err)
	}
	defer consumer.Close()

	log.Info("开始消费图书事件", zap.String("queue", cfg.MQ.Queue))
	return consumer.Consume(ctx, LogBookEvent(log))
}

// LogBookEvent 返回把图书事件写入日志的消息处理函数
// 无法解析的消息直接丢弃（返回nil），避免反复重新入队
func LogBookEvent(log *zap.Logger) mq.Handler {
	return func(_ context.Context, routingKey string, body []byte) error {
		var event BookEvent
		if err := json.Unmarshal(body, &event); err != nil {
			log.Warn("丢弃无法解析的图书事件",
				zap.String("routing_key", routingKey),
				zap.ByteString("body", body),
				zap.Error(err),
			)
			return nil
		}

		log.Info("图书事件",
			zap.String("event", event.Event),
			zap.Uint("book_id", event.BookID),
			zap.String("title", event.Title),
			zap.String("author", event.Author),
			zap.Time("occurred_at", event.OccurredAt),
		)
		return nil
	}
}
