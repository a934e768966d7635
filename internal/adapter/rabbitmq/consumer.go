package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YelzhanWeb/sous/internal/adapter/logger"
	"github.com/YelzhanWeb/sous/internal/interfaces"
)

var errChannelClosed = errors.New("channel closed gracefully")

type consumer struct {
	conn           Connection
	logger         logger.Logger
	reconnectDelay time.Duration
}

func NewConsumer(conn Connection, logger logger.Logger, reconnectDelay time.Duration) interfaces.MessageConsumer {
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	return &consumer{conn: conn, logger: logger, reconnectDelay: reconnectDelay}
}

// ConsumeNotifications subscribes an exclusive queue to the notifications
// exchange and feeds every message to handler until ctx is cancelled.
// Lost channels are reopened after reconnectDelay; a lost connection
// ends consumption with ErrConnectionClosed.
func (c *consumer) ConsumeNotifications(ctx context.Context, handler interfaces.NotificationHandler) error {
	for {
		err := c.consumeNotifications(ctx, handler)

		// Если контекст отменен или соединение закрыто намеренно - выходим
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err == nil || errors.Is(err, ErrConnectionClosed) {
			return err
		}

		// Соединение с брокером потеряно, канал не переоткрыть
		if c.conn.IsClosed() {
			return fmt.Errorf("%w: %v", ErrConnectionClosed, err)
		}

		c.logger.Error("consumer_disconnected", fmt.Sprintf("Notifications consumer disconnected, reconnecting in %s", c.reconnectDelay), "", nil, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.reconnectDelay):
		}
	}
}

func (c *consumer) consumeNotifications(ctx context.Context, handler interfaces.NotificationHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	// Отслеживаем закрытие канала
	closeChan := ch.NotifyClose()

	if err := ch.ExchangeDeclare(NotificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Declare temporary exclusive queue
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", NotificationsExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("consumer_started", "Listening for order notifications", "", map[string]interface{}{
		"queue": q.Name,
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return errChannelClosed

		case msg, ok := <-msgs:
			if !ok {
				return errors.New("messages channel closed")
			}

			// Игнорируем ошибки обработки уведомлений
			_ = handler(ctx, msg.Body)
		}
	}
}
