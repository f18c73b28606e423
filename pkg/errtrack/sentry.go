package errtrack

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
)

// Options configures error tracking
type Options struct {
	DSN         string
	Environment string
	Release     string
}

var enabled atomic.Bool

// Init initializes sentry. An empty DSN leaves tracking disabled.
func Init(opts Options) error {
	if opts.DSN == "" {
		enabled.Store(false)
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		AttachStacktrace: true,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			if event.Tags == nil {
				event.Tags = make(map[string]string)
			}
			event.Tags["service"] = "flightdesk"
			return event
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sentry: %w", err)
	}

	enabled.Store(true)
	return nil
}

// IsEnabled reports whether events are being shipped
func IsEnabled() bool {
	return enabled.Load()
}

// CaptureError captures an error tagged with a reference code and extra context
func CaptureError(err error, refCode string, context map[string]interface{}) {
	if !IsEnabled() || err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		if refCode != "" {
			scope.SetTag("reference", refCode)
		}
		for key, value := range context {
			scope.SetContext(key, map[string]interface{}{key: value})
		}
		sentry.CaptureException(err)
	})
}

// CapturePanic reports a recovered panic value
func CapturePanic(recovered interface{}, refCode string) {
	if !IsEnabled() {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelFatal)
		scope.SetTag("reference", refCode)
		scope.SetContext("panic", map[string]interface{}{
			"recovered_value": fmt.Sprintf("%v", recovered),
		})
		sentry.CaptureException(fmt.Errorf("panic recovered: %v", recovered))
	})
}

// Flush waits for pending events to be delivered
func Flush(timeout time.Duration) bool {
	if !IsEnabled() {
		return true
	}
	return sentry.Flush(timeout)
}
