package chat

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/sous/internal/adapter/clock"
	"github.com/YelzhanWeb/sous/internal/adapter/logger"
	"github.com/YelzhanWeb/sous/internal/domain"
)

func actionsLogged(hook *test.Hook) []string {
	var actions []string
	for _, e := range hook.AllEntries() {
		actions = append(actions, e.Data[logger.FieldAction].(string))
	}
	return actions
}

func TestService_LogsRejectionsAndOrders(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.InfoLevel)

	vc := clock.NewVirtual(testStart)
	s := NewService(newFakeCatalog(), fakeTexts{}, vc, nil, logger.FromLogrus("chat-test", base), testOptions())
	defer s.Close()

	s.DispatchRaw("dance", "")
	_, err := s.SubmitOrder(context.Background())
	require.ErrorIs(t, err, ErrCannotCheckout)

	require.NoError(t, s.AddDish("b1"))
	s.SetTableNumber("3")
	_, err = s.SubmitOrder(context.Background())
	require.NoError(t, err)

	logged := actionsLogged(hook)
	assert.Equal(t, []string{"action_ignored", "checkout_refused", "order_placed"}, logged)

	rejected := hook.AllEntries()[0]
	assert.Equal(t, logrus.ErrorLevel, rejected.Level)
	assert.ErrorIs(t, rejected.Data[logrus.ErrorKey].(error), domain.ErrUnknownAction)
}
