package exec

import (
	"context"
	"fmt"

	"scout/internal/config"
	"scout/internal/pool"
)

// CatFile reads up to max bytes of path via `head -c`, bounding the
// remote transfer itself rather than truncating client-side. Truncated
// is true iff exactly max bytes came back — the file may or may not be
// longer, but the server-side cap was the limiting factor either way.
func CatFile(ctx context.Context, sess pool.Session, path string, max int64) (string, bool, error) {
	path, err := boundedPath(path)
	if err != nil {
		return "", false, err
	}
	cmd := fmt.Sprintf("head -c %d %s", max, quote(path))

	stdout, _, _, err := sess.Exec(ctx, cmd)
	if err != nil {
		return "", false, err
	}
	truncated := int64(len(stdout)) == max
	return decodeUTF8(stdout), truncated, nil
}

// CatFileWithConfig applies both the per-file cap (max_file_size) and the
// per-response output cap (max_output_size), the two-tier guard named in
// spec.md §4.4.
func CatFileWithConfig(ctx context.Context, sess pool.Session, cfg *config.Config, path string) (string, bool, error) {
	content, truncated, err := CatFile(ctx, sess, path, cfg.MaxFileSize)
	if err != nil {
		return "", false, err
	}
	capped, alsoTruncated := capOutput(content, effectiveMaxOutput(cfg))
	return capped, truncated || alsoTruncated, nil
}
