package sysutil

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	lvl, logger, ctxLogger := zerolog.GlobalLevel(), log.Logger, zerolog.DefaultContextLogger
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(lvl)
		log.Logger = logger
		zerolog.DefaultContextLogger = ctxLogger
	})
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":     zerolog.DebugLevel,
		"  DeBuG  ": zerolog.DebugLevel,
		"trace":     zerolog.TraceLevel,
		"info":      zerolog.InfoLevel,
		"":          zerolog.InfoLevel,
		"warn":      zerolog.WarnLevel,
		"Warning":   zerolog.WarnLevel,
		"error":     zerolog.ErrorLevel,
		"fatal":     zerolog.FatalLevel,
		"panic":     zerolog.PanicLevel,
		"loud":      zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestSetupLogger_JSON(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer
	SetupLogger(&buf, LoggerOptions{Level: "warn", Service: "review-outreach", Version: "1.4.0"})

	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("global level = %v", zerolog.GlobalLevel())
	}
	log.Info().Msg("dropped below level")
	log.Warn().Str("contact_id", "c1").Msg("review email failed")

	out := buf.String()
	if strings.Contains(out, "dropped below level") {
		t.Fatalf("info line passed a warn level: %s", out)
	}
	for _, want := range []string{`"contact_id":"c1"`, `"service":"review-outreach"`, `"version":"1.4.0"`, `"time":"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %s", want, out)
		}
	}

	// loggers pulled from a bare context fall back to the same sink
	buf.Reset()
	zerolog.Ctx(context.Background()).Error().Msg("from ctx")
	if !strings.Contains(buf.String(), "from ctx") {
		t.Fatalf("default context logger not installed: %q", buf.String())
	}
}

func TestSetupLogger_Console(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer
	l := SetupLogger(&buf, LoggerOptions{Pretty: true, NoColor: true})
	l.Info().Str("contact_id", "c1").Msg("review email sent")

	out := buf.String()
	if strings.HasPrefix(out, "{") || !strings.Contains(out, "contact_id=c1") {
		t.Fatalf("expected console output, got %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("NoColor output has ANSI escapes: %q", out)
	}
	if strings.Contains(out, "service=") {
		t.Fatalf("empty service must not be stamped: %q", out)
	}
}

func TestNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	if NoColor() {
		t.Fatalf("empty NO_COLOR must keep colors")
	}
	t.Setenv("NO_COLOR", "1")
	if !NoColor() {
		t.Fatalf("NO_COLOR=1 must disable colors")
	}
}

func TestVersion(t *testing.T) {
	t.Setenv("APP_VERSION", " 2.0.1 ")
	if got := Version("1.0.0"); got != "2.0.1" {
		t.Fatalf("APP_VERSION should win, got %q", got)
	}

	t.Setenv("APP_VERSION", "")
	if got := Version("1.0.0"); got != "1.0.0" {
		t.Fatalf("linked version should win over build info, got %q", got)
	}
	// test binaries carry no module version, so dev stays dev
	if got := Version("dev"); got != "dev" {
		t.Fatalf("Version(dev) = %q", got)
	}
	if got := Version(""); got != "dev" {
		t.Fatalf("Version(\"\") = %q", got)
	}
}
