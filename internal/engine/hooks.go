package engine

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Hook receives lifecycle events from the Executor. Implementations
// are fire-and-forget: a failing hook never affects the execution
// result (the Executor recovers around each call).
type Hook interface {
	OnStart(callID, name string, args map[string]any)
	OnSuccess(callID, name string, d time.Duration, summary string, result any)
	OnApprovalRequired(callID, name string, d time.Duration, message string)
	OnError(callID, name string, d time.Duration, msg string)
}

// Hooks fans events out to multiple hooks.
type Hooks []Hook

func (hs Hooks) OnStart(callID, name string, args map[string]any) {
	for _, h := range hs {
		h.OnStart(callID, name, args)
	}
}
func (hs Hooks) OnSuccess(callID, name string, d time.Duration, summary string, result any) {
	for _, h := range hs {
		h.OnSuccess(callID, name, d, summary, result)
	}
}
func (hs Hooks) OnApprovalRequired(callID, name string, d time.Duration, message string) {
	for _, h := range hs {
		h.OnApprovalRequired(callID, name, d, message)
	}
}
func (hs Hooks) OnError(callID, name string, d time.Duration, msg string) {
	for _, h := range hs {
		h.OnError(callID, name, d, msg)
	}
}

// LoggerHook logs lifecycle events with zerolog. Approval-required
// payloads are logged at Warn, a distinct needs-attention severity,
// not as errors.
type LoggerHook struct{ L zerolog.Logger }

// NewLoggerHook creates a LoggerHook writing to stderr.
func NewLoggerHook() LoggerHook {
	return LoggerHook{L: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()}
}

func (h LoggerHook) OnStart(callID, name string, args map[string]any) {
	h.L.Info().Str("call_id", callID).Str("tool", name).Interface("args", args).Msg("tool start")
}

func (h LoggerHook) OnSuccess(callID, name string, d time.Duration, summary string, _ any) {
	ev := h.L.Info().Str("call_id", callID).Str("tool", name).Int64("duration_ms", d.Milliseconds())
	if summary != "" {
		ev = ev.Str("summary", summary)
	}
	ev.Msg("tool ok")
}

func (h LoggerHook) OnApprovalRequired(callID, name string, d time.Duration, message string) {
	h.L.Warn().Str("call_id", callID).Str("tool", name).Int64("duration_ms", d.Milliseconds()).
		Str("message", message).Msg("tool needs approval")
}

func (h LoggerHook) OnError(callID, name string, d time.Duration, msg string) {
	h.L.Error().Str("call_id", callID).Str("tool", name).Int64("duration_ms", d.Milliseconds()).
		Str("error", msg).Msg("tool failed")
}
