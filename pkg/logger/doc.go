// Package logger builds configured log/slog loggers for the service
// binaries.
//
// The factory supports JSON (production) and text (development) output,
// static service attributes, and context extractors that inject
// request-scoped values (request IDs, user IDs) into every record.
//
//	log := logger.New(
//	    logger.WithService("tweetsched-api"),
//	    logger.WithConfig(cfg),
//	)
//	logger.SetAsDefault(log)
package logger
