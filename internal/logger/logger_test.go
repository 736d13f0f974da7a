package logger

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
)

// capture routes output into a buffer and restores the defaults afterwards.
func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)

	if IsVerbose() {
		t.Fatal("expected quiet mode")
	}
	if Level() != hclog.Warn {
		t.Errorf("expected warn level, got %s", Level())
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Fatal("expected verbose mode")
	}
	if Level() != hclog.Debug {
		t.Errorf("expected debug level, got %s", Level())
	}
}

func TestDebug(t *testing.T) {
	t.Run("verbose", func(t *testing.T) {
		buf := capture(t, true)

		Debug("using %s", "token for coding.net")

		out := buf.String()
		if !strings.Contains(out, "[DEBUG]") || !strings.Contains(out, "coding: using token for coding.net") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("quiet", func(t *testing.T) {
		buf := capture(t, false)

		Debug("retrying %d", 2)

		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}

func TestWarn(t *testing.T) {
	buf := capture(t, false)

	Warn("could not open browser: %v", "no display")

	out := buf.String()
	if !strings.Contains(out, "[WARN]") {
		t.Errorf("expected warn level marker, got %q", out)
	}
	if !strings.Contains(out, "could not open browser: no display") {
		t.Errorf("expected message, got %q", out)
	}
}

func TestNew(t *testing.T) {
	buf := capture(t, false)

	quiet := New("codingnet")
	quiet.Debug("hidden request", "path", "/user")
	if buf.Len() > 0 {
		t.Errorf("expected no debug output when not verbose, got %q", buf.String())
	}

	SetVerbose(true)
	loud := New("codingnet")
	loud.Debug("request", "path", "/user")
	out := buf.String()
	if !strings.Contains(out, "codingnet: request") {
		t.Errorf("expected named debug line, got %q", out)
	}
	if !strings.Contains(out, "path=/user") {
		t.Errorf("expected key/value pair, got %q", out)
	}
}

func TestSetOutput_NilRestoresStderr(t *testing.T) {
	capture(t, false)

	SetOutput(nil)

	mu.RLock()
	defer mu.RUnlock()
	if output != os.Stderr {
		t.Error("expected stderr after SetOutput(nil)")
	}
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)
	SetOutput(io.Discard)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			SetVerbose(n%2 == 0)
		}(i)
		go func(n int) {
			defer wg.Done()
			Debug("attempt %d", n)
			_ = New("runner")
		}(i)
	}
	wg.Wait()
}
