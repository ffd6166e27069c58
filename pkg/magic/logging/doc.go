// Package logging provides the small logging facade used by the magic
// wrapper.
//
// The wrapper logs every libmagic failure at Debug level with the name of the
// failing function, rejected flags at Warn level, loaded databases at Info
// level and libmagic API contract violations at Error level.
// It never logs buffer contents or analysis results.
//
// # Logger Interface
//
//	type Logger interface {
//	    Debug(ctx context.Context, msg string, args ...any)
//	    Info(ctx context.Context, msg string, args ...any)
//	    Warn(ctx context.Context, msg string, args ...any)
//	    Error(ctx context.Context, msg string, args ...any)
//	    With(args ...any) Logger
//	}
//
// # Implementations
//
//	// log/slog, nil binds to slog.Default()
//	logger := logging.New(nil)
//
//	// go.uber.org/zap
//	logger := logging.NewZap(zap.Must(zap.NewDevelopment()))
//
//	// drop everything (the default when magic.Config.Logger is nil)
//	logger := logging.Discard()
package logging
