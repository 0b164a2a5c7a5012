// Package mq 基于RabbitMQ的消息发布与消费
//
// 拓扑：
//
//	Publisher ──(routing key: book.created)──> Exchange(topic) ──(binding: book.*)──> Queue ──> Consumer
//
// 约定：
// 1. Exchange和Queue都声明为durable，消息以Persistent模式发送
// 2. 消息体统一为JSON
// 3. 消费者手动ACK，处理失败时Nack并重新入队
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// ExchangeTopic topic类型的Exchange，支持通配符路由
const ExchangeTopic = "topic"

// Publisher 消息发布者
// amqp.Channel不是并发安全的，Publish通过互斥锁串行化
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
	mu       sync.Mutex
}

// NewPublisher 连接RabbitMQ并声明Exchange
func NewPublisher(url, exchange, exchangeType string, logger *zap.Logger) (*Publisher, error) {
	conn, channel, err := dial(url)
	if err != nil {
		return nil, err
	}

	if err := declareExchange(channel, exchange, exchangeType); err != nil {
		closeAll(channel, conn)
		return nil, err
	}

	logger.Info("消息发布者已创建", zap.String("exchange", exchange), zap.String("type", exchangeType))

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish 将message序列化为JSON并发布到routingKey
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	p.mu.Lock()
	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	p.mu.Unlock()

	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, prometheus.Labels{
		"exchange": p.exchange, "routing_key": routingKey, "result": result,
	})

	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	p.logger.Debug("消息已发布", zap.String("routing_key", routingKey), zap.ByteString("body", body))
	return nil
}

// Close 关闭Channel和连接
func (p *Publisher) Close() error {
	closeAll(p.channel, p.conn)
	return nil
}

// Handler 消息处理函数，返回错误时消息重新入队
type Handler func(ctx context.Context, routingKey string, body []byte) error

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *zap.Logger
}

// NewConsumer 连接RabbitMQ，声明Exchange和Queue并按routingKeys绑定
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string, logger *zap.Logger) (*Consumer, error) {
	conn, channel, err := dial(url)
	if err != nil {
		return nil, err
	}

	if err := declareExchange(channel, exchange, exchangeType); err != nil {
		closeAll(channel, conn)
		return nil, err
	}

	q, err := channel.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		closeAll(channel, conn)
		return nil, fmt.Errorf("声明Queue失败: %w", err)
	}

	for _, key := range routingKeys {
		if err := channel.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			closeAll(channel, conn)
			return nil, fmt.Errorf("绑定Queue失败: %w", err)
		}
	}

	logger.Info("消息消费者已创建", zap.String("queue", q.Name), zap.Strings("routing_keys", routingKeys))

	return &Consumer{
		conn:    conn,
		channel: channel,
		queue:   q.Name,
		logger:  logger,
	}, nil
}

// Consume 阻塞消费消息，直到ctx取消（返回nil）或连接断开（返回错误）
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	// 每次只预取一条，处理完再取下一条
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag，空表示自动生成
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	c.logger.Info("开始消费消息", zap.String("queue", c.queue))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("消费者退出", zap.String("queue", c.queue))
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("消息Channel已关闭")
			}
			c.handle(ctx, msg, handler)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg amqp.Delivery, handler Handler) {
	if err := handler(ctx, msg.RoutingKey, msg.Body); err != nil {
		c.logger.Warn("消息处理失败，重新入队",
			zap.String("routing_key", msg.RoutingKey),
			zap.Error(err),
		)
		_ = msg.Nack(false, true)
		metrics.IncCounterVec(metrics.MessagesConsumedTotal, prometheus.Labels{"queue": c.queue, "result": "failure"})
		return
	}

	_ = msg.Ack(false)
	metrics.IncCounterVec(metrics.MessagesConsumedTotal, prometheus.Labels{"queue": c.queue, "result": "success"})
}

// Close 关闭Channel和连接
func (c *Consumer) Close() error {
	closeAll(c.channel, c.conn)
	return nil
}

func dial(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("创建Channel失败: %w", err)
	}
	return conn, channel, nil
}

func declareExchange(channel *amqp.Channel, exchange, exchangeType string) error {
	err := channel.ExchangeDeclare(
		exchange,
		exchangeType,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("声明Exchange失败: %w", err)
	}
	return nil
}

func closeAll(channel *amqp.Channel, conn *amqp.Connection) {
	if channel != nil {
		_ = channel.Close()
	}
	if conn != nil {
		_ = conn.Close()
	}
}
