package exec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scout/internal/config"
	"scout/internal/pool"
)

// timeoutExitCode is what GNU coreutils' `timeout` reports when it had
// to kill the child itself.
const timeoutExitCode = 124

// sentinelTimedOutCode is the return_code surfaced to callers when the
// command did not finish in time; spec.md §3 leaves this
// implementation-defined so long as timed_out=true accompanies it.
const sentinelTimedOutCode = -1

// CommandResult is the outcome of RunCommand.
type CommandResult struct {
	Stdout     string
	Stderr     string
	ReturnCode int
	TimedOut   bool
}

// RunCommand executes cmd inside cwd with a remote `timeout` prefix and a
// client-side wait-for guard two seconds past that, per spec.md §4.4's
// belt-and-braces timeout design. cwd is shell-quoted; cmd is the raw
// command text and is never quoted or pattern-checked.
func RunCommand(ctx context.Context, sess pool.Session, cfg *config.Config, cwd, cmd string, timeoutSeconds int) (CommandResult, error) {
	inner := fmt.Sprintf("( %s )", cmd)
	if cwd != "" {
		inner = fmt.Sprintf("cd %s && %s", quote(cwd), inner)
	}
	remote := fmt.Sprintf("timeout %d sh -c %s", timeoutSeconds, quote(inner))

	clientCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds+2)*time.Second)
	defer cancel()

	max := effectiveMaxOutput(cfg)
	stdout, stderr, exitCode, err := sess.Exec(clientCtx, remote)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			out, _ := capOutput(decodeUTF8(stdout), max)
			errOut, _ := capOutput(decodeUTF8(stderr), max)
			return CommandResult{
				Stdout:     out,
				Stderr:     errOut,
				ReturnCode: sentinelTimedOutCode,
				TimedOut:   true,
			}, nil
		}
		return CommandResult{}, err
	}

	out, _ := capOutput(decodeUTF8(stdout), max)
	errOut, _ := capOutput(decodeUTF8(stderr), max)
	return CommandResult{
		Stdout:     out,
		Stderr:     errOut,
		ReturnCode: exitCode,
		TimedOut:   exitCode == timeoutExitCode,
	}, nil
}
