package shutdown

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCommandString(t *testing.T) {
	tests := []struct {
		name string
		cmd  *Command
		want string
	}{
		{"NoArgs", NewCommand("/usr/local/bin/xSoft.sh"), "/usr/local/bin/xSoft.sh"},
		{"WithArgs", NewCommand("/usr/local/bin/xSoft.sh", "0", "26"), "/usr/local/bin/xSoft.sh 0 26"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandInvokeNoPath(t *testing.T) {
	cmd := &Command{}

	if err := cmd.Invoke(context.Background()); !errors.Is(err, ErrNoCommand) {
		t.Errorf("Invoke() error = %v, want ErrNoCommand", err)
	}
}

func TestCommandInvokeSuccess(t *testing.T) {
	cmd := NewCommand("true")

	if err := cmd.Invoke(context.Background()); err != nil {
		t.Errorf("Invoke() error = %v", err)
	}
}

func TestCommandInvokeNonZeroExit(t *testing.T) {
	cmd := NewCommand("false")

	if err := cmd.Invoke(context.Background()); err == nil {
		t.Error("Invoke() error = nil, want non-zero exit error")
	}
}

func TestCommandInvokeMissingBinary(t *testing.T) {
	cmd := NewCommand("/nonexistent/acwatch-helper")

	if err := cmd.Invoke(context.Background()); err == nil {
		t.Error("Invoke() error = nil, want error for missing binary")
	}
}

func TestCommandInvokeOutputPassthrough(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCommand("echo", "halting")
	cmd.Stdout = &out

	if err := cmd.Invoke(context.Background()); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "halting" {
		t.Errorf("helper output = %q, want %q", got, "halting")
	}
}

func TestCommandInvokeContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	cmd := NewCommand("sleep", "5")

	start := time.Now()
	err := cmd.Invoke(ctx)
	if err == nil {
		t.Fatal("Invoke() error = nil, want context error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Invoke() took %v, should have been killed by context", elapsed)
	}
}
