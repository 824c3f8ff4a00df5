package shutdown

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command invokes an external helper binary with fixed arguments. The
// helper is typically a privileged vendor script that halts the system and
// cuts board power, so the daemon itself never needs elevated rights
// beyond access to the GPIO character device.
type Command struct {
	// Path is the helper binary to run.
	Path string

	// Args are passed to the helper verbatim.
	Args []string

	// Stdout and Stderr receive the helper's output. They default to the
	// calling process's stdout and stderr so the helper's output lands in
	// the same journal as the daemon's.
	Stdout io.Writer
	Stderr io.Writer
}

var _ Action = (*Command)(nil)

// NewCommand returns a Command for the given helper binary and arguments.
func NewCommand(path string, args ...string) *Command {
	return &Command{Path: path, Args: args}
}

// Invoke runs the helper and waits for it to exit. A non-zero exit status
// or a failure to start is returned as an error; the helper's own output
// is passed through unmodified.
func (c *Command) Invoke(ctx context.Context) error {
	if c.Path == "" {
		return ErrNoCommand
	}

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("shutdown command %q: %w", c.String(), err)
	}
	return nil
}

// String returns the full command line for logging.
func (c *Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}
