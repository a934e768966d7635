package chat

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/YelzhanWeb/sous/internal/adapter/logger"
	"github.com/YelzhanWeb/sous/internal/domain"
	"github.com/YelzhanWeb/sous/internal/interfaces"
)

var (
	ErrCannotCheckout = errors.New("cart is empty or destination is missing")
	ErrClosed         = errors.New("chat session is closed")
)

// Delays are the simulated typing latencies of each reply step.
type Delays struct {
	Reply          time.Duration
	Dishes         time.Duration
	NextCategories time.Duration
	Recommendation time.Duration
	Question       time.Duration
	Text           time.Duration
}

type Options struct {
	Language            domain.Language
	Mode                domain.OrderMode
	Delays              Delays
	Lifecycle           domain.LifecyclePlan
	RecommendationCount int
	NextCategoryCount   int
	UpsellCount         int
	// OrderNumbers generates display order numbers; RandomOrderNumber when nil.
	OrderNumbers func() string
}

// Service owns one guest conversation: transcript, cart, checkout form
// and the active order. Every mutation, including timer callbacks, runs
// under mu, so steps are applied one at a time in the order they complete.
type Service struct {
	catalog  interfaces.Catalog
	texts    interfaces.Translations
	clock    interfaces.Scheduler
	observer interfaces.OrderObserver
	logger   logger.Logger
	opts     Options

	// emitMu keeps observer notifications in the order they were produced.
	emitMu sync.Mutex

	mu           sync.Mutex
	closed       bool
	language     domain.Language
	mode         domain.OrderMode
	transcript   []domain.Message
	lastID       int64
	cart         domain.Cart
	form         interfaces.CheckoutForm
	order        *domain.Order
	typing       bool
	waiterPrompt bool

	timerSeq    uint64
	timers      map[uint64]interfaces.Timer
	lifecycleID uint64
	events      []func()
}

func NewService(
	catalog interfaces.Catalog,
	texts interfaces.Translations,
	clock interfaces.Scheduler,
	observer interfaces.OrderObserver,
	logger logger.Logger,
	opts Options,
) *Service {
	if observer == nil {
		observer = nopObserver{}
	}
	if opts.OrderNumbers == nil {
		opts.OrderNumbers = RandomOrderNumber
	}
	if !opts.Language.Valid() {
		opts.Language = domain.LanguageRU
	}
	if !opts.Mode.Valid() {
		opts.Mode = domain.OrderModeDineIn
	}

	s := &Service{
		catalog:  catalog,
		texts:    texts,
		clock:    clock,
		observer: observer,
		logger:   logger,
		opts:     opts,
		language: opts.Language,
		mode:     opts.Mode,
		timers:   make(map[uint64]interfaces.Timer),
	}
	s.resetTranscript(domain.KeyGreeting)

	return s
}

// State returns a deep copy of the session.
func (s *Service) State() interfaces.ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript := make([]domain.Message, len(s.transcript))
	for i, m := range s.transcript {
		transcript[i] = m.Clone()
	}

	return interfaces.ChatState{
		Language:     s.language,
		Mode:         s.mode,
		Transcript:   transcript,
		Cart:         s.cart.Lines(),
		CartCount:    s.cart.TotalCount(),
		CartTotal:    s.cart.TotalPrice(),
		ActiveOrder:  s.order.Clone(),
		IsTyping:     s.typing,
		WaiterPrompt: s.waiterPrompt,
		Checkout:     s.form,
	}
}

// SetLanguage switches the catalog and texts and restarts the
// conversation. Cart, checkout form and active order are kept, and the
// order lifecycle continues untouched.
func (s *Service) SetLanguage(lang domain.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("%q: %w", lang, domain.ErrUnknownLanguage)
	}

	s.do(func() {
		s.language = lang
		s.resetTranscript(domain.KeyResetChat)
		s.logger.Info("language_changed", fmt.Sprintf("Language switched to %s", lang), "", nil)
	})
	return nil
}

func (s *Service) SetOrderMode(mode domain.OrderMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%q: %w", mode, domain.ErrInvalidOrderMode)
	}

	s.do(func() {
		s.mode = mode
		if mode != domain.OrderModeDineIn {
			s.waiterPrompt = false
		}
	})
	return nil
}

// Close cancels every pending timer. Nothing is appended afterwards.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.typing = false

	cancelled := 0
	for id, t := range s.timers {
		if t.Stop() {
			cancelled++
		}
		delete(s.timers, id)
	}
	s.lifecycleID = 0

	s.logger.Info("session_closed", "Chat session closed", "", map[string]interface{}{
		"cancelled_timers": cancelled,
	})
}

// do runs fn under the lock unless the session is closed, then delivers
// the observer events fn produced.
func (s *Service) do(fn func()) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	fn()
	s.flushLocked()
	return true
}

// flushLocked releases mu and delivers pending events. emitMu is taken
// before mu is released so concurrent flushes cannot overtake each other.
func (s *Service) flushLocked() {
	events := s.events
	s.events = nil
	s.emitMu.Lock()
	s.mu.Unlock()
	defer s.emitMu.Unlock()

	for _, ev := range events {
		ev()
	}
}

// schedule arms step to run under the lock after d. The returned id can
// be used to cancel it.
func (s *Service) schedule(d time.Duration, step func()) uint64 {
	s.timerSeq++
	id := s.timerSeq
	s.timers[id] = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		if _, armed := s.timers[id]; !armed || s.closed {
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
		step()
		s.flushLocked()
	})
	return id
}

func (s *Service) cancel(id uint64) {
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// cancelReplies drops every pending reply step; the lifecycle timer stays.
func (s *Service) cancelReplies() {
	for id := range s.timers {
		if id != s.lifecycleID {
			s.cancel(id)
		}
	}
	s.typing = false
}

func (s *Service) resetTranscript(key string) {
	s.cancelReplies()
	s.transcript = nil
	s.addBotMessage(s.t(key), s.initialActions())
}

func (s *Service) strings() domain.Strings {
	return s.texts.Strings(s.language)
}

func (s *Service) t(key string) string {
	return s.strings().T(key)
}

// nextID returns a millisecond timestamp, bumped to stay strictly increasing.
func (s *Service) nextID() int64 {
	id := s.clock.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Service) addBotMessage(content string, actions []domain.Action) {
	s.appendMessage(domain.Message{Sender: domain.SenderBot, Content: content, Actions: actions, Kind: domain.ContentText})
}

func (s *Service) addUserMessage(content string) {
	s.appendMessage(domain.Message{Sender: domain.SenderUser, Content: content})
}

func (s *Service) appendMessage(m domain.Message) {
	m.ID = s.nextID()
	s.transcript = append(s.transcript, m)
}

func (s *Service) notify(ev func()) {
	s.events = append(s.events, ev)
}

var _ interfaces.ChatService = (*Service)(nil)

type nopObserver struct{}

func (nopObserver) OrderPlaced(domain.Order)                     {}
func (nopObserver) StatusChanged(interfaces.StatusUpdateMessage) {}
