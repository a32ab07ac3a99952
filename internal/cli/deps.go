package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"soufra_admin/internal/config"
)

var unknownCommandPattern = regexp.MustCompile(`unknown command "([^"]+)"`)

// Dependencies wires runtime inputs into the command tree.
type Dependencies struct {
	LoadConfig func() (*config.Config, error)
	Version    string
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout io.Writer, stderr io.Writer) int {
	if deps.LoadConfig == nil {
		deps.LoadConfig = config.Load
	}

	cmd := NewRootCommand(deps)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		return 0
	}

	if matches := unknownCommandPattern.FindStringSubmatch(err.Error()); len(matches) > 1 {
		_, _ = fmt.Fprintf(stderr, "No such command '%s'\n", matches[1])
		return 2
	}

	if msg := err.Error(); msg != "" {
		_, _ = fmt.Fprintln(stderr, msg)
	}
	return 1
}
