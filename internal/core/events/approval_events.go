package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const EventTypeApprovalTransitioned = "approval.transitioned"

// ApprovalTransitionedEvent is published after a transition commits with a
// non-zero count.
type ApprovalTransitionedEvent struct {
	Envelope
	CompanyID    string `json:"company_id"`
	EntityType   string `json:"entity_type"`
	Action       string `json:"action"`
	ActorID      string `json:"actor_id"`
	TargetUserID string `json:"target_user_id,omitempty"`
	Count        int64  `json:"count"`
}

func NewApprovalTransitionedEvent(companyID, entityType, action, actorID, targetUserID string, count int64) *ApprovalTransitionedEvent {
	return &ApprovalTransitionedEvent{
		Envelope: Envelope{
			ID:   uuid.NewString(),
			Type: EventTypeApprovalTransitioned,
			At:   time.Now().UTC(),
		},
		CompanyID:    companyID,
		EntityType:   entityType,
		Action:       action,
		ActorID:      actorID,
		TargetUserID: targetUserID,
		Count:        count,
	}
}

// LogHandler writes every received event as one structured log line.
func LogHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, event Event) error {
		attrs := []any{
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"occurred_at", event.OccurredAt(),
		}
		if ev, ok := event.(*ApprovalTransitionedEvent); ok {
			attrs = append(attrs,
				"company_id", ev.CompanyID,
				"entity_type", ev.EntityType,
				"action", ev.Action,
				"actor_id", ev.ActorID,
				"count", ev.Count)
		}
		logger.InfoContext(ctx, "approval transitioned", attrs...)
		return nil
	}
}
