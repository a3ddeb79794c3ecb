// Package logger builds *slog.Logger instances for the session service.
//
// NewFromConfig reads APP_ENV, APP_NAME, LOG_LEVEL and LOG_FORMAT through
// Config. Development logs text at debug level; staging and production log
// JSON at info level. ContextExtractor callbacks run on every record, which
// is how request and session ids reach each line written while serving a
// request.
//
//	log, err := logger.NewFromConfig(cfg,
//	    logger.WithContextExtractors(requestid.LogExtractor, session.LogExtractor),
//	)
//
// Attribute helpers (Error, SessionID, Owner, ...) return an empty slog.Attr
// for nil input, which slog drops, so callers never need a nil check.
package logger
