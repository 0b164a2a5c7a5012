package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

func TestNewBookEvent(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CST", 8*3600))
	event := newBookEvent(EventBookDeleted, &book.Book{ID: 7, Title: "Dune"}, now)

	assert.Equal(t, "book.deleted", event.Event)
	assert.Equal(t, uint(7), event.BookID)
	assert.Equal(t, "", event.Author)
	assert.Equal(t, time.UTC, event.OccurredAt.Location())
}

func TestEventPublisher_Disabled(t *testing.T) {
	p, cleanup, err := NewEventPublisher(&config.Config{}, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	// 未启用时不连接RabbitMQ，发布为空操作
	p.BookCreated(context.Background(), &book.Book{ID: 1, Title: "Dune"})
}

func TestLogBookEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := LogBookEvent(zap.New(core))

	body := []byte(`{"event":"book.created","book_id":3,"title":"Dune","author":"Herbert","occurred_at":"2024-03-01T00:00:00Z"}`)
	require.NoError(t, handler(context.Background(), "book.created", body))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "图书事件", entry.Message)
	assert.Equal(t, "Herbert", entry.ContextMap()["author"])

	assert.NoError(t, handler(context.Background(), "book.created", []byte("not json")), "坏消息应丢弃而不是重新入队")
	assert.Equal(t, 1, logs.FilterMessage("丢弃无法解析的图书事件").Len())
}
