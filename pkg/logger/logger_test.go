package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestComponent_TagsOutput(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	Init(Options{Level: "info", Output: &buf})

	log := Component("auth")
	log.Info().Msg("token issued")

	out := buf.String()
	if !strings.Contains(out, `"component":"auth"`) {
		t.Fatalf("expected component field in output, got: %s", out)
	}
	if !strings.Contains(out, "token issued") {
		t.Fatalf("expected message in output, got: %s", out)
	}
}

func TestInit_OnlyFirstCallWins(t *testing.T) {
	Reset()
	defer Reset()

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})

	log := Get()
	log.Info().Msg("routed to first writer")

	if first.Len() == 0 {
		t.Fatal("expected output on the first writer")
	}
	if second.Len() != 0 {
		t.Fatalf("second Init should be a no-op, got: %s", second.String())
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer Reset()

	defer func() {
		if recover() == nil {
			t.Fatal("expected Get to panic before Init")
		}
	}()
	Get()
}
