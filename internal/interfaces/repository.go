package interfaces

import (
	"context"

	"github.com/YelzhanWeb/sous/internal/domain"
)

// OrderJournal is a write-mostly audit trail of placed orders.
// It is never read back into a chat session.
type OrderJournal interface {
	Record(ctx context.Context, order domain.Order) error
	LogStatus(ctx context.Context, update StatusUpdateMessage) error
	GetStatusHistory(ctx context.Context, orderNumber string) ([]domain.StatusLog, error)
}
