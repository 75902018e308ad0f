// Package exec implements the remote operations tools and broadcast
// workers drive against an already-acquired pool.Session. No executor
// touches the pool directly, and none of them close the session they are
// given.
package exec

import (
	"fmt"
	"strings"

	"scout/internal/config"
	"scout/internal/validate"
)

// decodeUTF8 mirrors the spec's "replacement on invalid bytes" rule for
// every byte stream read off the wire.
func decodeUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

// capOutput enforces max_output_size on any string bound for the caller,
// per spec.md §4.4. Truncation always happens on a rune boundary.
func capOutput(s string, max int64) (string, bool) {
	if max <= 0 || int64(len(s)) <= max {
		return s, false
	}
	end := max
	for end > 0 && s[end]&0xC0 == 0x80 { // s[end] continues the rune before it
		end--
	}
	cut := s[:end]
	return fmt.Sprintf("%s\n…[truncated %d bytes]", cut, int64(len(s))-int64(len(cut))), true
}

func quote(s string) string {
	return validate.ShellQuote(s)
}

func boundedPath(path string) (string, error) {
	return validate.Path(path)
}

// effectiveMaxOutput returns cfg.MaxOutputSize, or a sane default when
// cfg is nil (as in unit tests that exercise an executor standalone).
func effectiveMaxOutput(cfg *config.Config) int64 {
	if cfg == nil || cfg.MaxOutputSize <= 0 {
		return 10 << 20
	}
	return cfg.MaxOutputSize
}
