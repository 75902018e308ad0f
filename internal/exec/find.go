package exec

import (
	"context"
	"fmt"

	"scout/internal/config"
	"scout/internal/pool"
)

// FindFiles runs `find path -maxdepth depth -name pattern`, piped through
// `head -n maxResults` so a runaway match set can't blow past the output
// cap before it even gets there.
func FindFiles(ctx context.Context, sess pool.Session, cfg *config.Config, path, pattern string, maxDepth, maxResults int) (string, error) {
	path, err := boundedPath(path)
	if err != nil {
		return "", err
	}
	cmd := fmt.Sprintf("find %s -maxdepth %d -name %s | head -n %d",
		quote(path), maxDepth, quote(pattern), maxResults)

	stdout, _, _, err := sess.Exec(ctx, cmd)
	if err != nil {
		return "", err
	}
	out, _ := capOutput(decodeUTF8(stdout), effectiveMaxOutput(cfg))
	return out, nil
}
