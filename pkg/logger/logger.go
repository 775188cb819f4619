package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/llanero/admin-backend/pkg/env"
)

// Options configures the structured logger. Level is a zerolog level name
// ("debug", "info", ...); empty or unknown names log at info. Format "console"
// switches to human readable output and falls back to LLANERO_LOG_FORMAT.
type Options struct {
	ServiceName string
	Env         string
	Level       string
	Format      string
	WarnStack   bool
	Output      io.Writer
}

type Logger struct {
	root      zerolog.Logger
	warnStack bool
}

// Scope is the request identity attached to every entry of a request.
// Empty fields are left out.
type Scope struct {
	RequestID   string
	UserID      string
	Role        string
	WarehouseID string
}

type entryKey struct{}

const redacted = "[redacted]"

// secretKeys never reach the output; invite payloads carry passwords and the
// provider calls carry service keys.
var secretKeys = []string{"password", "token", "secret", "authorization", "service_key"}

func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	format := opts.Format
	if format == "" {
		format = env.Get("LOG_FORMAT", "json")
	}
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	ctx := zerolog.New(out).With().Timestamp()
	if opts.ServiceName != "" {
		ctx = ctx.Str("service", opts.ServiceName)
	}
	if opts.Env != "" {
		ctx = ctx.Str("env", opts.Env)
	}
	return &Logger{
		root:      ctx.Logger().Level(ParseLevel(opts.Level)),
		warnStack: opts.WarnStack,
	}
}

// ParseLevel maps a level name to zerolog, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Enabled reports whether entries at lvl are written.
func (l *Logger) Enabled(lvl zerolog.Level) bool {
	return l.root.GetLevel() <= lvl
}

func (l *Logger) entry(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if e, ok := ctx.Value(entryKey{}).(*zerolog.Logger); ok {
			return e
		}
	}
	return &l.root
}

func (l *Logger) with(ctx context.Context, add func(zerolog.Context) zerolog.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	e := add(l.entry(ctx).With()).Logger()
	return context.WithValue(ctx, entryKey{}, &e)
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Interface(key, clean(key, value))
	})
}

func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	return l.with(ctx, func(c zerolog.Context) zerolog.Context {
		for k, v := range fields {
			c = c.Interface(k, clean(k, v))
		}
		return c
	})
}

// WithScope tags the entries of a request with who made it and where.
func (l *Logger) WithScope(ctx context.Context, s Scope) context.Context {
	return l.with(ctx, func(c zerolog.Context) zerolog.Context {
		for _, f := range [][2]string{
			{"request_id", s.RequestID},
			{"user_id", s.UserID},
			{"actor_role", s.Role},
			{"warehouse_id", s.WarehouseID},
		} {
			if f[1] != "" {
				c = c.Str(f[0], f[1])
			}
		}
		return c
	})
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	l.entry(ctx).Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.entry(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	e := l.entry(ctx).Warn()
	if l.warnStack {
		e = e.Str("stack", stackTrace())
	}
	e.Msg(msg)
}

// Error always carries a stack.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	e := l.entry(ctx).Error()
	if err != nil {
		e = e.Err(err)
	}
	e.Str("stack", stackTrace()).Msg(msg)
}

func clean(key string, value any) any {
	k := strings.ToLower(key)
	for _, secret := range secretKeys {
		if strings.Contains(k, secret) {
			return redacted
		}
	}
	if k == "email" {
		if s, ok := value.(string); ok {
			return MaskEmail(s)
		}
	}
	return value
}

// MaskEmail keeps the first letter of the mailbox and the domain:
// "maria@llanero.app" becomes "m***@llanero.app".
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return redacted
	}
	first := []rune(email[:at])[0]
	return string(first) + "***" + email[at:]
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}
