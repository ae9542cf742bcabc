package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func Test_toZapLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in  string
		exp zapcore.Level
	}{
		{in: "info", exp: zapcore.InfoLevel},
		{in: " WARN ", exp: zapcore.WarnLevel},
		{in: "error", exp: zapcore.ErrorLevel},
		{in: "debug", exp: zapcore.DebugLevel},
		{in: "bogus", exp: zapcore.DebugLevel},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			t.Parallel()
			if got := toZapLevel(c.in); got != c.exp {
				t.Fatalf("toZapLevel(%q) = %v; want %v", c.in, got, c.exp)
			}
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	l := newZapLogger(InfoLevel)
	if l.Level() != "info" {
		t.Fatalf("initial level = %s; want info", l.Level())
	}
	l.SetLevel(ErrorLevel)
	if l.Level() != "error" {
		t.Fatalf("level after SetLevel = %s; want error", l.Level())
	}
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"debug", "info", " Warn ", "ERROR"} {
		if !ValidLevel(s) {
			t.Fatalf("ValidLevel(%q) = false", s)
		}
	}
	for _, s := range []string{"", "verbose", "fatal"} {
		if ValidLevel(s) {
			t.Fatalf("ValidLevel(%q) = true", s)
		}
	}
}

func TestLogger_SetLevelAppliesToExistingHolders(t *testing.T) {
	l := newZapLogger(ErrorLevel)
	held := l.SugaredLogger
	if held.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info must be disabled at error level")
	}
	l.SetLevel(DebugLevel)
	if !held.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("level change not seen through an existing sugared logger")
	}
}
