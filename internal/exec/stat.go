package exec

import (
	"context"
	"fmt"
	"strings"

	"scout/internal/pool"
)

// StatPath reports whether path is a file, a directory, or neither,
// per spec.md §4.4's stat_path executor.
func StatPath(ctx context.Context, sess pool.Session, path string) (string, error) {
	path, err := boundedPath(path)
	if err != nil {
		return "", err
	}
	q := quote(path)
	cmd := fmt.Sprintf("test -d %s && echo d; test -f %s && echo f", q, q)

	stdout, _, _, err := sess.Exec(ctx, cmd)
	if err != nil {
		return "", err
	}
	switch strings.TrimSpace(decodeUTF8(stdout)) {
	case "d":
		return "directory", nil
	case "f":
		return "file", nil
	default:
		return "", nil
	}
}
