package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/vendemais/vendemais-backend/api/middleware"
	"github.com/vendemais/vendemais-backend/api/responses"
	"github.com/vendemais/vendemais-backend/internal/realtime"
	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
	"github.com/vendemais/vendemais-backend/pkg/logger"
)

// EventPublisher fans a store event out to connected storefronts. The
// redis bridge satisfies it; a nil publisher disables the events.
type EventPublisher interface {
	Publish(ctx context.Context, event realtime.Event) error
}

func publishStoreEvent(ctx context.Context, events EventPublisher, logg *logger.Logger, storeID uuid.UUID, eventType string, payload any) {
	if events == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		if logg != nil {
			logg.Warn(ctx, "failed to encode store event payload")
		}
		return
	}
	event := realtime.Event{
		Topic:   realtime.StoreTopic(storeID.String()),
		Type:    eventType,
		Payload: raw,
	}
	if err := events.Publish(ctx, event); err != nil && logg != nil {
		logg.Warn(logg.WithField(ctx, "event_type", eventType), "failed to publish store event")
	}
}

// StorefrontEvents streams store updates to the storefront over SSE.
// Slow consumers lose the oldest buffered event, never fresh ones.
func StorefrontEvents(hub *realtime.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := middleware.TenantFromContext(r.Context())
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "loja não encontrada"))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		sub := hub.Subscribe(realtime.StoreTopic(store.ID.String()))
		defer sub.Close()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case event, open := <-sub.C:
				if !open {
					return
				}
				body, err := json.Marshal(event)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, body)
				flusher.Flush()
			}
		}
	}
}
