package logger

import (
	"fmt"
	"log/slog"

	waLog "go.mau.fi/whatsmeow/util/log"
)

// waLogger adapts slog to the whatsmeow logging interface.
type waLogger struct {
	log *slog.Logger
}

// WhatsApp returns a whatsmeow logger writing to log under the given module name.
func WhatsApp(log *slog.Logger, module string) waLog.Logger {
	if log == nil {
		log = Discard()
	}
	return &waLogger{log: log.With("module", module)}
}

func (l *waLogger) Errorf(msg string, args ...any) {
	l.log.Error(fmt.Sprintf(msg, args...))
}

func (l *waLogger) Warnf(msg string, args ...any) {
	l.log.Warn(fmt.Sprintf(msg, args...))
}

func (l *waLogger) Infof(msg string, args ...any) {
	l.log.Info(fmt.Sprintf(msg, args...))
}

func (l *waLogger) Debugf(msg string, args ...any) {
	l.log.Debug(fmt.Sprintf(msg, args...))
}

func (l *waLogger) Sub(module string) waLog.Logger {
	return &waLogger{log: l.log.With("submodule", module)}
}
