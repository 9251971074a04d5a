package search

import (
	"time"

	"go.uber.org/zap"

	"github.com/gravitrone/annotator/cli/internal/api"
	"github.com/gravitrone/annotator/cli/internal/event"
	"github.com/gravitrone/annotator/cli/internal/metrics"
)

// KindQuery is the event kind of ExternalSearchQueryEvent.
const KindQuery event.Kind = "search.query"

// ExternalSearchQueryEvent records that a user queried an external repository.
type ExternalSearchQueryEvent struct {
	ID         string
	Repository api.DocumentRepository
	Project    string
	User       string
	Query      string
	Time       time.Time
}

func (ExternalSearchQueryEvent) Kind() event.Kind { return KindQuery }

// AuditEvent converts the query event to the platform event-log record.
func (e ExternalSearchQueryEvent) AuditEvent() api.AuditEvent {
	return api.AuditEvent{
		ID:      e.ID,
		Type:    string(KindQuery),
		Project: e.Project,
		User:    e.User,
		Details: map[string]string{
			"repository_id":   e.Repository.ID,
			"repository_name": e.Repository.Name,
			"query":           e.Query,
		},
		OccurredAt: e.Time.UTC(),
	}
}

// EventSink stores audit records.
type EventSink interface {
	PublishEvent(api.AuditEvent) error
}

// LogQueries writes every query event to log.
func LogQueries(bus *event.Bus, log *zap.Logger) {
	event.On(bus, func(e ExternalSearchQueryEvent) error {
		log.Info("external search query",
			zap.String("event_id", e.ID),
			zap.String("repository", e.Repository.Name),
			zap.String("project", e.Project),
			zap.String("user", e.User),
			zap.String("query", e.Query))
		return nil
	})
}

// CountQueries counts query events per repository on the default recorder.
func CountQueries(bus *event.Bus) {
	event.On(bus, func(e ExternalSearchQueryEvent) error {
		metrics.Default().IncSearchQuery(e.Repository.Name)
		return nil
	})
}

// ForwardQueries sends every query event to the platform event log.
func ForwardQueries(bus *event.Bus, sink EventSink) {
	event.On(bus, func(e ExternalSearchQueryEvent) error {
		done := metrics.TimeCall("events.publish")
		err := sink.PublishEvent(e.AuditEvent())
		done(err == nil)
		return err
	})
}
