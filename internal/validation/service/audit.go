package service

import (
	"context"

	"sepacheck/pkg/platform/audit"
	"sepacheck/pkg/requestcontext"
)

// emitAudit logs the event and hands it to the publisher. Publisher errors
// are logged, never returned.
func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)

	s.logger.InfoContext(ctx, string(event.Action),
		"log_type", "audit",
		"request_id", event.RequestID,
		"report_id", event.ReportID,
		"version", event.Version,
		"valid", event.Valid,
		"invalid", event.Invalid,
		"missing", event.Missing,
	)

	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"report_id", event.ReportID,
			"error", err,
		)
	}
}
