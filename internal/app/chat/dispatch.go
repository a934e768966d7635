package chat

import (
	"fmt"
	"strings"

	"github.com/YelzhanWeb/sous/internal/domain"
)

// DispatchRaw parses a chip from its wire form and dispatches it.
// Unknown kinds are logged and dropped.
func (s *Service) DispatchRaw(kind domain.ActionKind, payload string) {
	cmd, err := domain.ParseCommand(kind, payload)
	if err != nil {
		s.logger.Error("action_ignored", "Dropping unrecognized action", "", map[string]interface{}{
			"action":  string(kind),
			"payload": payload,
		}, err)
		return
	}
	s.Dispatch(cmd)
}

// SendText is the free-text shortcut for Dispatch(SendText{...}).
func (s *Service) SendText(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.Dispatch(domain.SendText{Text: text})
}

// Dispatch applies a user intent to the conversation.
func (s *Service) Dispatch(cmd domain.Command) {
	s.do(func() {
		s.logger.Debug("dispatch", fmt.Sprintf("Handling %s", cmd.Kind()), "", map[string]interface{}{
			"payload": cmd.Payload(),
		})

		switch c := cmd.(type) {
		case domain.StartOver:
			s.resetTranscript(domain.KeyResetChat)
		case domain.CallWaiter:
			s.callWaiter()
		case domain.CheckOrderStatus:
			s.checkOrderStatus()
		case domain.ShowCategories:
			s.showCategories()
		case domain.SelectCategory:
			s.selectCategory(c.Category, true)
		case domain.SelectCategoryDirect:
			s.selectCategory(c.Category, false)
		case domain.ShowRecommendations:
			s.showRecommendations()
		case domain.AskQuestion:
			s.askQuestion()
		case domain.SendText:
			s.sendText(c.Text)
		}
	})
}

// ConfirmWaiter stores the table collected by the prompt and calls the
// waiter again.
func (s *Service) ConfirmWaiter(table string) {
	table = strings.TrimSpace(table)
	if table == "" {
		return
	}
	s.do(func() {
		s.form.TableNumber = table
		s.waiterPrompt = false
		s.callWaiter()
	})
}

func (s *Service) DismissWaiterPrompt() {
	s.do(func() {
		s.waiterPrompt = false
	})
}

func (s *Service) initialActions() []domain.Action {
	return []domain.Action{
		domain.NewAction(s.t(domain.KeyShowMenu), domain.ShowCategories{}),
		domain.NewAction(s.t(domain.KeyAdvice), domain.ShowRecommendations{}),
		domain.NewAction(s.t(domain.KeyAskQuestion), domain.AskQuestion{}),
		domain.NewAction(s.t(domain.KeyCallWaiter), domain.CallWaiter{}),
	}
}

// standardActions appends the waiter and start-over chips to extra.
func (s *Service) standardActions(extra ...domain.Action) []domain.Action {
	return append(extra,
		domain.NewAction(s.t(domain.KeyCallWaiter), domain.CallWaiter{}),
		domain.NewAction(s.t(domain.KeyStartOver), domain.StartOver{}),
	)
}

func (s *Service) showMenuAction() domain.Action {
	return domain.NewAction(s.t(domain.KeyShowMenu), domain.ShowCategories{})
}

func (s *Service) checkStatusAction() domain.Action {
	return domain.NewAction(s.t(domain.KeyCheckStatus), domain.CheckOrderStatus{})
}

func (s *Service) callWaiter() {
	if s.mode != domain.OrderModeDineIn {
		return
	}
	if s.form.TableNumber == "" {
		s.waiterPrompt = true
		return
	}
	s.addBotMessage(fmt.Sprintf("%s №%s.", s.t(domain.KeyCallWaiterChat), s.form.TableNumber), nil)
	s.logger.Info("waiter_called", "Waiter called to table", "", map[string]interface{}{
		"table": s.form.TableNumber,
	})
}

func (s *Service) checkOrderStatus() {
	if s.order == nil {
		s.addBotMessage(s.t(domain.KeyNoOrders), s.standardActions(s.showMenuAction()))
		return
	}
	s.appendMessage(domain.Message{
		Sender:  domain.SenderBot,
		Content: s.t(domain.KeyStatusInfo),
		Kind:    domain.ContentOrderStatus,
		Order:   s.order.Clone(),
		Actions: s.standardActions(s.showMenuAction()),
	})
}

func (s *Service) showCategories() {
	s.typing = true
	s.schedule(s.opts.Delays.Reply, func() {
		s.typing = false
		s.appendMessage(domain.Message{
			Sender:     domain.SenderBot,
			Content:    s.t(domain.KeyChooseCategory),
			Kind:       domain.ContentCategories,
			Categories: s.catalog.Categories(s.language),
		})
	})
}

// selectCategory runs the three-step category reply. Typing shows from
// dispatch; each step is armed from the completion of the previous one.
func (s *Service) selectCategory(category string, echo bool) {
	s.typing = true
	s.schedule(s.opts.Delays.Reply, func() {
		if echo {
			s.addUserMessage(category)
		}
		s.typing = true
		s.schedule(s.opts.Delays.Dishes, func() {
			s.typing = false
			s.appendMessage(domain.Message{
				Sender:  domain.SenderBot,
				Content: fmt.Sprintf("%s \"%s\":", s.t(domain.KeyHereIs), category),
				Kind:    domain.ContentDishes,
				Dishes:  s.catalog.Dishes(s.language, category),
			})
			s.schedule(s.opts.Delays.NextCategories, func() {
				s.addBotMessage(s.t(domain.KeyWantMore), s.standardActions(s.nextCategoryActions(category)...))
			})
		})
	})
}

func (s *Service) showRecommendations() {
	s.typing = true
	s.schedule(s.opts.Delays.Reply, func() {
		s.addUserMessage(s.t(domain.KeyAdvice))
		s.typing = true
		s.schedule(s.opts.Delays.Recommendation, func() {
			s.typing = false
			s.appendMessage(domain.Message{
				Sender:  domain.SenderBot,
				Content: s.t(domain.KeyHits),
				Kind:    domain.ContentDishes,
				Dishes:  s.recommendations(),
				Actions: s.standardActions(s.showMenuAction()),
			})
		})
	})
}

func (s *Service) askQuestion() {
	s.typing = true
	s.schedule(s.opts.Delays.Reply, func() {
		s.addUserMessage(s.t(domain.KeyAskQuestion))
		s.typing = true
		s.schedule(s.opts.Delays.Question, func() {
			s.typing = false
			s.addBotMessage(s.t(domain.KeyWriteQuestion), s.standardActions())
		})
	})
}

func (s *Service) sendText(text string) {
	s.typing = true
	s.schedule(s.opts.Delays.Reply, func() {
		s.addUserMessage(text)
		s.typing = true
		s.schedule(s.opts.Delays.Text, func() {
			s.typing = false
			s.addBotMessage(s.t(domain.KeyLearning), s.standardActions(s.showMenuAction()))
		})
	})
}
