package exec

import (
	"context"

	"github.com/pmezard/go-difflib/difflib"

	"scout/internal/config"
	"scout/internal/pool"
)

// unifiedDiff renders a and b as a unified diff with the given context
// window, reporting identical=true when the texts match exactly.
func unifiedDiff(a, b, fromLabel, toLabel string, context int) (string, bool, error) {
	if a == b {
		return "", true, nil
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", false, err
	}
	return text, false, nil
}

// DiffFiles compares path1 on sess1 against path2 on sess2, per spec.md
// §4.4's diff_files executor. The two sides may be on different hosts,
// which is why two sessions are threaded through separately. truncated
// reports whether either side was cut short by max_file_size, per
// spec.md §9's resolution for files straddling that limit: the diff is
// computed on the truncated prefixes and the caller is told so.
func DiffFiles(ctx context.Context, sess1 pool.Session, cfg *config.Config, path1 string, sess2 pool.Session, path2 string, contextLines int) (text string, identical bool, truncated bool, err error) {
	content1, trunc1, err := CatFileWithConfig(ctx, sess1, cfg, path1)
	if err != nil {
		return "", false, false, err
	}
	content2, trunc2, err := CatFileWithConfig(ctx, sess2, cfg, path2)
	if err != nil {
		return "", false, false, err
	}
	text, identical, err = unifiedDiff(content1, content2, path1, path2, contextLines)
	if err != nil {
		return "", false, false, err
	}
	out, _ := capOutput(text, effectiveMaxOutput(cfg))
	return out, identical, trunc1 || trunc2, nil
}

// DiffWithContent compares the remote file at path against an
// in-request string, per spec.md §4.4's diff_with_content executor.
func DiffWithContent(ctx context.Context, sess pool.Session, cfg *config.Config, path, expected string, contextLines int) (text string, identical bool, truncated bool, err error) {
	actual, truncated, err := CatFileWithConfig(ctx, sess, cfg, path)
	if err != nil {
		return "", false, false, err
	}
	text, identical, err = unifiedDiff(actual, expected, path, "expected", contextLines)
	if err != nil {
		return "", false, false, err
	}
	out, _ := capOutput(text, effectiveMaxOutput(cfg))
	return out, identical, truncated, nil
}
