// Package logger builds the service's *slog.Logger.
//
// New applies functional options (format, level, output, static attributes and
// context extractors) and returns a logger whose handler is wrapped with
// LogHandlerDecorator, so request-scoped values such as the request id are
// attached to every record written with a context.
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "filemanager"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.ErrorContext(ctx, "blob write failed",
//		logger.Component("upload"),
//		logger.FileName(name),
//		logger.Error(err),
//	)
//
// Attribute helpers in attr.go keep key names consistent across packages.
package logger
