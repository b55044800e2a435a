package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/mfourati/ordersync/internal/board"
	"github.com/mfourati/ordersync/internal/handler/http/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleBoardEvent_ChallengeEcho(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// the handshake must never reach the service
	svc := mocks.NewMockWebhookService(ctrl)
	h := NewWebhookHandler(svc)

	body := `{"challenge":"abc-123"}`
	r := httptest.NewRequest(http.MethodPost, "/api/webhook/board", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleBoardEvent()(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"challenge":"abc-123"}`, w.Body.String())
}

func TestHandleBoardEvent_MalformedBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockWebhookService(ctrl)
	h := NewWebhookHandler(svc)

	r := httptest.NewRequest(http.MethodPost, "/api/webhook/board", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.HandleBoardEvent()(w, r)

	// the board must never be given a reason to retry
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ignored"}`, w.Body.String())
}

func TestHandleBoardEvent_EmptyEnvelope(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockWebhookService(ctrl)
	h := NewWebhookHandler(svc)

	r := httptest.NewRequest(http.MethodPost, "/api/webhook/board", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	h.HandleBoardEvent()(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ignored"}`, w.Body.String())
}

func TestHandleBoardEvent_OutcomeReported(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
	}{
		{"applied", "applied"},
		{"rejected", "rejected"},
		{"duplicate", "duplicate"},
		{"order_not_found", "order_not_found"},
	}

	body := `{
		"event": {
			"type": "update_column_value",
			"triggerUuid": "ev-1",
			"pulseId": 123,
			"pulseName": "CMD042 - Leila Ben Salah",
			"columnId": "status",
			"value": {"label": {"text": "en traitement"}}
		}
	}`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := mocks.NewMockWebhookService(ctrl)
			var got board.WebhookEvent
			svc.EXPECT().
				ProcessBoardEvent(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, ev board.WebhookEvent) string {
					got = ev
					return tt.outcome
				})

			h := NewWebhookHandler(svc)

			r := httptest.NewRequest(http.MethodPost, "/api/webhook/board", strings.NewReader(body))
			w := httptest.NewRecorder()

			h.HandleBoardEvent()(w, r)

			assert.Equal(t, http.StatusOK, w.Code)

			resp := struct {
				Status string `json:"status"`
			}{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.outcome, resp.Status)

			assert.Equal(t, "ev-1", got.TriggerUUID)
			assert.Equal(t, "status", got.ColumnID)
			assert.Equal(t, "CMD042 - Leila Ben Salah", got.Name())
		})
	}
}
