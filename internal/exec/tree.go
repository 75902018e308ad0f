package exec

import (
	"context"
	"fmt"

	"scout/internal/config"
	"scout/internal/pool"
)

// TreeDir renders a directory tree with `tree -L depth`, falling back to
// `find -maxdepth depth` on hosts where tree isn't installed (nonzero
// exit), per spec.md §4.4.
func TreeDir(ctx context.Context, sess pool.Session, cfg *config.Config, path string, depth int) (string, error) {
	path, err := boundedPath(path)
	if err != nil {
		return "", err
	}
	q := quote(path)

	stdout, _, exitCode, err := sess.Exec(ctx, fmt.Sprintf("tree -L %d %s", depth, q))
	if err != nil {
		return "", err
	}
	if exitCode != 0 {
		stdout, _, _, err = sess.Exec(ctx, fmt.Sprintf("find %s -maxdepth %d", q, depth))
		if err != nil {
			return "", err
		}
	}

	out, _ := capOutput(decodeUTF8(stdout), effectiveMaxOutput(cfg))
	return out, nil
}
