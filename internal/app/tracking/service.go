package tracking

import (
	"context"

	"github.com/YelzhanWeb/sous/internal/adapter/logger"
	"github.com/YelzhanWeb/sous/internal/domain"
	"github.com/YelzhanWeb/sous/internal/interfaces"
)

// previewItems is how many order lines the status card lists.
const previewItems = 3

type Service struct {
	texts   interfaces.Translations
	plan    domain.LifecyclePlan
	journal interfaces.OrderJournal
	logger  logger.Logger
}

// NewService builds the tracking service. journal may be nil, in which
// case history comes from the order itself.
func NewService(texts interfaces.Translations, plan domain.LifecyclePlan, journal interfaces.OrderJournal, logger logger.Logger) *Service {
	return &Service{
		texts:   texts,
		plan:    plan,
		journal: journal,
		logger:  logger,
	}
}

func (s *Service) Report(order *domain.Order, lang domain.Language) interfaces.OrderReport {
	return Report(order, s.texts.Strings(lang), s.plan)
}

// GetOrderHistory prefers the journal and falls back to the history kept
// on the order when the journal is unavailable.
func (s *Service) GetOrderHistory(ctx context.Context, order *domain.Order) ([]domain.StatusLog, error) {
	if s.journal == nil {
		return append([]domain.StatusLog(nil), order.History...), nil
	}

	history, err := s.journal.GetStatusHistory(ctx, order.ID)
	if err != nil {
		s.logger.Error("db_error", "Failed to read status history", "", map[string]interface{}{
			"order_number": order.ID,
		}, err)
		return append([]domain.StatusLog(nil), order.History...), nil
	}
	if len(history) == 0 {
		return append([]domain.StatusLog(nil), order.History...), nil
	}
	return history, nil
}

// Report renders the status card of order in the given language.
func Report(order *domain.Order, texts domain.Strings, plan domain.LifecyclePlan) interfaces.OrderReport {
	resp := interfaces.OrderReport{
		OrderNumber:   order.ID,
		CurrentStatus: order.Status,
		Mode:          order.Mode,
		ModeLabel:     texts.ModeLabel(order.Mode),
		Total:         order.Total,
		Details:       order.Details,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		StepIndex:     order.Status.Index(),
	}

	for i, st := range domain.StatusSequence {
		resp.Steps = append(resp.Steps, interfaces.ReportStep{
			Status:  st,
			Label:   stepLabel(st, order.Mode, texts),
			Done:    i <= resp.StepIndex,
			Current: i == resp.StepIndex,
		})
	}
	if resp.StepIndex > 0 {
		resp.Progress = resp.StepIndex * 100 / (len(domain.StatusSequence) - 1)
	}

	for i, line := range order.Items {
		if i >= previewItems {
			resp.MoreItems = len(order.Items) - previewItems
			break
		}
		resp.Items = append(resp.Items, interfaces.ItemPreview{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}

	resp.EstimatedCompletion = plan.EstimatedReady(order)

	return resp
}

func stepLabel(st domain.Status, mode domain.OrderMode, texts domain.Strings) string {
	switch st {
	case domain.StatusAccepted:
		return texts.T(domain.KeyStatusAccepted)
	case domain.StatusCooking:
		return texts.T(domain.KeyStatusCooking)
	case domain.StatusReady:
		if mode == domain.OrderModeDelivery {
			return texts.T(domain.KeyStatusWay)
		}
		return texts.T(domain.KeyStatusReady)
	default:
		return texts.T(domain.KeyStatusCompleted)
	}
}
