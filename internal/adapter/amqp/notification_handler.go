package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/YelzhanWeb/sous/internal/adapter/logger"
	"github.com/YelzhanWeb/sous/internal/interfaces"
)

var ErrInvalidNotification = errors.New("notification has no order number or status")

type NotificationHandler struct {
	logger logger.Logger
	out    io.Writer
}

// NewNotificationHandler prints received notifications to stdout.
func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return NewNotificationHandlerTo(logger, os.Stdout)
}

func NewNotificationHandlerTo(logger logger.Logger, out io.Writer) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
		out:    out,
	}
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var msg interfaces.StatusUpdateMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse notification", "", nil, err)
		return err
	}
	if msg.OrderNumber == "" || msg.NewStatus == "" {
		h.logger.Error("message_parse_failed", "Notification is incomplete", "", nil, ErrInvalidNotification)
		return ErrInvalidNotification
	}

	h.logger.Debug("notification_received", fmt.Sprintf("Received status update for order %s", msg.OrderNumber),
		msg.OrderNumber, map[string]interface{}{
			"order_number": msg.OrderNumber,
			"new_status":   msg.NewStatus,
		})

	line := fmt.Sprintf("Notification for order %s (%s): status changed from '%s' to '%s' by %s",
		msg.OrderNumber, msg.Mode, msg.OldStatus, msg.NewStatus, msg.ChangedBy)
	if msg.OldStatus == "" {
		line = fmt.Sprintf("Notification for order %s (%s): placed with status '%s'",
			msg.OrderNumber, msg.Mode, msg.NewStatus)
	}
	if msg.EstimatedCompletion != nil {
		line += fmt.Sprintf(", ready by %s", msg.EstimatedCompletion.Format("15:04:05"))
	}

	_, err := fmt.Fprintln(h.out, line)
	return err
}
