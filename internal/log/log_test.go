package log

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(LevelInfo)
	})

	SetLevel(LevelWarn)
	Debug("debug line")
	Info("info line")
	Warn("warn line", "venue", "Main Stage")
	Error("error line", errors.New("boom"), "file", "day1.txt")

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Fatalf("expected debug/info to be filtered, got:\n%s", out)
	}
	if !strings.Contains(out, `[WARN] warn line venue="Main Stage"`) {
		t.Fatalf("expected quoted warn line, got:\n%s", out)
	}
	if !strings.Contains(out, "[ERROR] error line err=boom file=day1.txt") {
		t.Fatalf("expected error line, got:\n%s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: " WARN ", want: LevelWarn},
		{in: "", want: LevelInfo},
		{in: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFormatKVsIgnoresDanglingKey(t *testing.T) {
	got := formatKVs("a", 1, "b")
	if got != " a=1" {
		t.Fatalf("expected %q, got %q", " a=1", got)
	}
}
