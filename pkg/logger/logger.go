package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	reset     = "\033[0m"
	red       = "\033[31m"
	green     = "\033[32m"
	yellow    = "\033[33m"
	cyan      = "\033[36m"
	white     = "\033[37m"
	magenta   = "\033[35m"
	boldBlue  = "\033[1;34m"
	boldWhite = "\033[1;37m"
)

var levelColors = map[slog.Level]string{
	slog.LevelDebug: cyan,
	slog.LevelInfo:  green,
	slog.LevelWarn:  yellow,
	slog.LevelError: red,
}

type requestKey string

const requestIDKey requestKey = "requestID"

// ColoredHandler renders records as single colored lines with the request ID,
// when present, pulled out in front of the message.
type ColoredHandler struct {
	h   slog.Handler
	out io.Writer
}

func NewColoredHandler(w io.Writer, opts *slog.HandlerOptions) *ColoredHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ColoredHandler{
		h:   slog.NewTextHandler(w, opts),
		out: w,
	}
}

func (h *ColoredHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *ColoredHandler) Handle(ctx context.Context, r slog.Record) error {
	levelColor, ok := levelColors[r.Level]
	if !ok {
		levelColor = white
	}

	var line strings.Builder
	line.WriteString(fmt.Sprintf("%s%s%s ", magenta, r.Time.Format("15:04:05.000"), reset))
	line.WriteString(fmt.Sprintf("%s%-6s%s ", levelColor, strings.ToUpper(r.Level.String()), reset))

	var hasRequestID bool
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "request_id" && a.Value.Kind() == slog.KindString {
			line.WriteString(fmt.Sprintf("%s[%s]%s ", boldBlue, a.Value.String(), reset))
			hasRequestID = true
		}
		return true
	})

	line.WriteString(fmt.Sprintf("%s%s%s ", boldWhite, r.Message, reset))

	r.Attrs(func(a slog.Attr) bool {
		if a.Key != "request_id" || !hasRequestID {
			val := a.Value.String()
			if a.Value.Kind() == slog.KindString {
				val = fmt.Sprintf("%q", val)
			}
			line.WriteString(fmt.Sprintf("%s%s%s=%s ", yellow, a.Key, reset, val))
		}
		return true
	})

	fmt.Fprintln(h.out, line.String())
	return nil
}

func (h *ColoredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ColoredHandler{h: h.h.WithAttrs(attrs), out: h.out}
}

func (h *ColoredHandler) WithGroup(name string) slog.Handler {
	return &ColoredHandler{h: h.h.WithGroup(name), out: h.out}
}

// Setup installs a ColoredHandler as the default slog logger. The level comes
// from LOG_LEVEL (debug, info, warn, error) and defaults to info.
func Setup() *ColoredHandler {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	handler := NewColoredHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return handler
}

func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
