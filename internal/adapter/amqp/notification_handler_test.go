package amqp

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/sous/internal/adapter/logger"
)

func TestHandleNotification(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{
			name: "transition",
			body: `{"order_number":"4821","old_status":"accepted","new_status":"cooking","mode":"delivery","changed_by":"kitchen-simulator","estimated_completion":"2026-02-01T19:00:20Z"}`,
			want: "Notification for order 4821 (delivery): status changed from 'accepted' to 'cooking' by kitchen-simulator, ready by 19:00:20\n",
		},
		{
			name: "placed",
			body: `{"order_number":"4821","new_status":"accepted","mode":"dine-in"}`,
			want: "Notification for order 4821 (dine-in): placed with status 'accepted'\n",
		},
		{
			name:    "incomplete",
			body:    `{"new_status":"ready"}`,
			wantErr: ErrInvalidNotification,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			h := NewNotificationHandlerTo(logger.Nop(), &out)

			err := h.HandleNotification(context.Background(), []byte(tt.body))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, out.String())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestHandleNotification_InvalidJSON(t *testing.T) {
	var out bytes.Buffer
	h := NewNotificationHandlerTo(logger.Nop(), &out)

	assert.Error(t, h.HandleNotification(context.Background(), []byte("{")))
	assert.Empty(t, out.String())
}
