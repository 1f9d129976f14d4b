// Package logger builds the *slog.Logger used as the agent's diagnostic
// channel.
//
// Nothing in the agent is allowed to surface a failure to the host page, so
// configuration mistakes, storage failures and dropped deliveries are reported
// here and nowhere else.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatText),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithContextExtractors(session.LogExtractor),
//	)
//	log.WarnContext(ctx, "delivery dropped",
//	    logger.EventType("ping"),
//	    logger.Error(err),
//	)
//
// Context extractors run for every record, so a session ID placed in the
// context by the agent shows up in transport and storage logs alike.
//
// Discard returns a logger that drops everything; components fall back to it
// when no logger is supplied.
//
// Attribute helpers (WebID, VisitorID, SessionID, EventType, Endpoint, ...)
// keep key names consistent across packages. Error and Errors return an empty
// attribute for nil errors, so callers never need a nil check.
package logger
