package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mfourati/ordersync/internal/board"
	"github.com/mfourati/ordersync/internal/logger"
	"go.uber.org/zap"
)

// WebhookService ingests board events
type WebhookService interface {
	// ProcessBoardEvent reconciles one webhook event, returning an outcome label
	ProcessBoardEvent(ctx context.Context, ev board.WebhookEvent) string
}

// WebhookHandler represents HTTP handler for board webhook requests
type WebhookHandler struct {
	svc WebhookService
}

// NewWebhookHandler creates new WebhookHandler instance
func NewWebhookHandler(svc WebhookService) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

type webhookResponse struct {
	Status string `json:"status"`
}

// HandleBoardEvent processes one webhook call from the board. The
// response is always 200: the sender must never see a failure that
// would trigger a retry storm for conditions that are not recoverable.
func (wh *WebhookHandler) HandleBoardEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		w.Header().Set("Content-Type", "application/json")

		envelope := board.WebhookEnvelope{}
		if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
			logger.Log.Warn("unparseable webhook body", zap.Error(err))
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(webhookResponse{Status: "ignored"})
			return
		}

		// one-time handshake: echo the challenge back verbatim
		if len(envelope.Challenge) > 0 {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]json.RawMessage{"challenge": envelope.Challenge})
			return
		}

		if envelope.Event == nil {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(webhookResponse{Status: "ignored"})
			return
		}

		outcome := wh.svc.ProcessBoardEvent(r.Context(), *envelope.Event)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(webhookResponse{Status: outcome})
	}
}
