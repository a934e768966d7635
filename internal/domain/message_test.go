package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		kind    ActionKind
		payload string
		want    Command
		wantErr error
	}{
		{name: "start over", kind: ActionStartOver, want: StartOver{}},
		{name: "call waiter", kind: ActionCallWaiter, want: CallWaiter{}},
		{name: "status", kind: ActionCheckOrderStatus, want: CheckOrderStatus{}},
		{name: "categories", kind: ActionShowCategories, want: ShowCategories{}},
		{name: "recommendations", kind: ActionShowRecommendations, want: ShowRecommendations{}},
		{name: "question", kind: ActionAskQuestion, want: AskQuestion{}},
		{name: "select", kind: ActionSelectCategory, payload: "Burgers", want: SelectCategory{Category: "Burgers"}},
		{name: "select direct", kind: ActionSelectCategoryDirect, payload: "Soups", want: SelectCategoryDirect{Category: "Soups"}},
		{name: "text", kind: ActionSendText, payload: "hi", want: SendText{Text: "hi"}},
		{name: "select without payload", kind: ActionSelectCategory, wantErr: ErrMissingPayload},
		{name: "text without payload", kind: ActionSendText, wantErr: ErrMissingPayload},
		{name: "unknown", kind: "dance", wantErr: ErrUnknownAction},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			cmd, err := ParseCommand(testCase.kind, testCase.payload)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, cmd)
			assert.Equal(t, testCase.kind, cmd.Kind())
		})
	}
}

func TestAction_RoundTripsCommand(t *testing.T) {
	a := NewAction("Show Soups", SelectCategoryDirect{Category: "Soups"})
	assert.Equal(t, ActionSelectCategoryDirect, a.Kind)
	assert.Equal(t, "Soups", a.Payload)

	cmd, err := a.Command()
	require.NoError(t, err)
	assert.Equal(t, SelectCategoryDirect{Category: "Soups"}, cmd)
}

func TestVisibleActions(t *testing.T) {
	actions := []Action{
		NewAction("menu", ShowCategories{}),
		NewAction("waiter", CallWaiter{}),
		NewAction("again", StartOver{}),
	}

	assert.Len(t, VisibleActions(actions, OrderModeDineIn), 3)

	visible := VisibleActions(actions, OrderModeDelivery)
	require.Len(t, visible, 2)
	assert.Equal(t, ActionShowCategories, visible[0].Kind)
	assert.Equal(t, ActionStartOver, visible[1].Kind)
}

func TestStrings(t *testing.T) {
	s := Strings{KeyGreeting: "Hello"}
	assert.Equal(t, "Hello", s.T(KeyGreeting))
	assert.Equal(t, KeyNoOrders, s.T(KeyNoOrders))
	assert.Error(t, s.Validate())
	assert.Contains(t, s.Missing(), KeyNoOrders)
	assert.NotContains(t, s.Missing(), KeyGreeting)

	full := Strings{}
	for _, key := range RequiredStringKeys {
		full[key] = key
	}
	assert.NoError(t, full.Validate())
}
