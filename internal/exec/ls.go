package exec

import (
	"context"
	"fmt"

	"scout/internal/config"
	"scout/internal/pool"
)

// ListDir runs `ls -la` against path and returns the output, capped by
// max_output_size per spec.md §4.4.
func ListDir(ctx context.Context, sess pool.Session, cfg *config.Config, path string) (string, error) {
	path, err := boundedPath(path)
	if err != nil {
		return "", err
	}
	cmd := fmt.Sprintf("ls -la %s", quote(path))

	stdout, stderr, exitCode, err := sess.Exec(ctx, cmd)
	if err != nil {
		return "", err
	}
	if exitCode != 0 {
		out, _ := capOutput(decodeUTF8(stderr), effectiveMaxOutput(cfg))
		return out, nil
	}
	out, _ := capOutput(decodeUTF8(stdout), effectiveMaxOutput(cfg))
	return out, nil
}
