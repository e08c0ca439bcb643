package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cisattest/pkg/platform/middleware/metadata"
)

// Publisher hands events to the worker inbox without blocking. When the inbox
// is full the event is dropped and counted in the log; audit must never stall
// a registration.
type Publisher struct {
	inbox chan<- Event
	log   *slog.Logger
	now   func() time.Time
}

func NewPublisher(inbox chan<- Event, log *slog.Logger) *Publisher {
	return &Publisher{inbox: inbox, log: log, now: time.Now}
}

// Emit stamps the event and enqueues it. Client metadata is read from the
// request context when the middleware has attached it.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	event.ID = uuid.New()
	event.Timestamp = p.now().UTC()
	if md, ok := metadata.FromContext(ctx); ok {
		event.ClientIP = md.IP
		event.ClientAgent = md.Agent
	}
	select {
	case p.inbox <- event:
	default:
		p.log.Warn("audit inbox full, event dropped", "action", event.Action)
	}
}
