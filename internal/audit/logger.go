// Package audit records security relevant events as one JSON line each,
// separate from the application log.
package audit

import (
	"context"
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

const (
	ActionRegister          = "user.register"
	ActionLogin             = "user.login"
	ActionLogout            = "user.logout"
	ActionApplicationCreate = "application.create"
	ActionApplicationDelete = "application.delete"
	ActionSecretCreate      = "application.secret.create"
	ActionSecretDelete      = "application.secret.delete"
	ActionTokenIssue        = "oauth.token.issue"
)

var auditLogger atomic.Pointer[zerolog.Logger]

func init() {
	SetOutput(os.Stdout)
}

// SetOutput redirects audit events to w.
func SetOutput(w io.Writer) {
	l := zerolog.New(w).With().Timestamp().Str("log", "audit").Logger()
	auditLogger.Store(&l)
}

// Record writes one audit event. A nil err marks the action successful.
func Record(ctx context.Context, action string, userID uint64, target string, err error) {
	event := auditLogger.Load().Log().
		Str("action", action).
		Bool("success", err == nil)

	if userID != 0 {
		event = event.Uint64("user_id", userID)
	}
	if target != "" {
		event = event.Str("target", target)
	}
	if err != nil {
		event = event.Str("error", err.Error())
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		event = event.Str("trace_id", sc.TraceID().String())
	}

	event.Send()
}
