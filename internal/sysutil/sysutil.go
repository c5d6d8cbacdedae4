// Package sysutil sets up process-wide state for cmd/server: the global
// zerolog logger and the build version.
package sysutil

import (
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggerOptions describe the process logger. Service and Version, when set,
// are stamped on every line.
type LoggerOptions struct {
	Level   string
	Pretty  bool
	NoColor bool
	Service string
	Version string
}

// SetupLogger builds the logger writing to w, installs it as the global
// logger and the default context logger, sets the global level and returns it.
func SetupLogger(w io.Writer, o LoggerOptions) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(o.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }

	if o.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: o.NoColor}
	}
	ctx := zerolog.New(w).With().Timestamp()
	if o.Service != "" {
		ctx = ctx.Str("service", o.Service)
	}
	if o.Version != "" {
		ctx = ctx.Str("version", o.Version)
	}
	l := ctx.Logger()

	log.Logger = l
	zerolog.DefaultContextLogger = &l
	return l
}

// ParseLevel maps a LOG_LEVEL value to a zerolog level. "warning" is an alias
// for warn; blank or unknown values mean info.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// NoColor honours the NO_COLOR convention: any non-empty value disables
// colored console output.
func NoColor() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Version picks the version to report: APP_VERSION, then the value linked in
// with -ldflags, then the main module version recorded by the Go toolchain.
func Version(linked string) string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	if linked != "" && linked != "dev" {
		return linked
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	if linked != "" {
		return linked
	}
	return "dev"
}
