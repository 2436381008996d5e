// Package eventlog records blocked calls and messages.
//
// Recording sits on the screening path, so it never fails the caller: append
// errors are logged and counted, then dropped. The block/allow decision has
// already been made by the time an event is written.
package eventlog

import (
	"context"
	"log/slog"

	"github.com/roach88/hush/internal/blocklist"
	"github.com/roach88/hush/internal/metrics"
)

// Appender is the storage the log writes to. *store.Store satisfies it.
type Appender interface {
	AppendCallEvent(ctx context.Context, number string) (blocklist.CallEvent, error)
	AppendMessageEvent(ctx context.Context, number, body string) (blocklist.MessageEvent, error)
}

// Log appends blocking events with failure isolation.
type Log struct {
	appender Appender
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New creates a Log. A nil logger uses slog.Default(); m may be nil.
func New(appender Appender, logger *slog.Logger, m *metrics.Metrics) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{appender: appender, logger: logger, metrics: m}
}

// RecordBlockedCall appends a BlockedCallEvent for number.
func (l *Log) RecordBlockedCall(ctx context.Context, number string) {
	ev, err := l.appender.AppendCallEvent(ctx, number)
	if err != nil {
		l.metrics.IncrementEventLogFailure("call")
		l.logger.Error("failed to record blocked call",
			"number", number,
			"error", err,
		)
		return
	}

	l.logger.Debug("blocked call recorded",
		"id", ev.ID,
		"number", number,
	)
}

// RecordBlockedMessage appends a BlockedMessageEvent for number. Only the
// first blocklist.PreviewLength characters of body are kept.
func (l *Log) RecordBlockedMessage(ctx context.Context, number, body string) {
	ev, err := l.appender.AppendMessageEvent(ctx, number, blocklist.Preview(body))
	if err != nil {
		l.metrics.IncrementEventLogFailure("message")
		l.logger.Error("failed to record blocked message",
			"number", number,
			"error", err,
		)
		return
	}

	l.logger.Debug("blocked message recorded",
		"id", ev.ID,
		"number", number,
		"preview_len", len([]rune(ev.MessagePreview)),
	)
}
