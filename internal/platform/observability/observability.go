// Package observability wires Sentry error reporting into the gin
// middleware chain, following the teacher's router.Use(...) chaining
// style in cmd/api/main.go.
package observability

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"go.uber.org/zap"

	"github.com/teddycheru/tenderlens/internal/config"
	"github.com/teddycheru/tenderlens/internal/platform/logger"
)

// Init configures the global Sentry client. A blank DSN leaves reporting
// disabled but keeps the middleware harmless to chain unconditionally.
func Init(cfg config.SentryConfig) error {
	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		AttachStacktrace: true,
	})
}

// PanicReporter recovers a panicked request, reports it to Sentry, and
// repanics so gin's own recovery middleware still runs afterward.
func PanicReporter() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// ErrorReporter reports non-panic 5xx responses to Sentry: request
// handlers that return an error status without panicking (e.g. a
// database call failing) otherwise never reach PanicReporter.
func ErrorReporter() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 500 {
			return
		}

		hub := sentrygin.GetHubFromContext(c)
		if hub == nil {
			return
		}

		if len(c.Errors) == 0 {
			hub.CaptureMessage("unhandled 5xx response: " + c.Request.Method + " " + c.FullPath())
			return
		}
		for _, ginErr := range c.Errors {
			hub.CaptureException(ginErr.Err)
		}
	}
}

// CaptureError reports err outside an HTTP request's lifecycle (e.g. a
// background goroutine) and logs it alongside.
func CaptureError(log *logger.Logger, err error, msg string) {
	sentry.CaptureException(err)
	if log != nil {
		log.Error(msg, zap.Error(err))
	}
}

// Flush blocks until queued Sentry events are sent or timeout elapses;
// intended for a deferred call in main() on shutdown.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
