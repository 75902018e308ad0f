// Package validate rejects traversal and injection in paths and hostnames
// at the outer edge of every request, and provides the single
// shell-quoting helper every executor uses to place user input into a
// remote command string.
package validate

import (
	"strings"

	"scout/internal/scerr"
)

// Path fails with a validation error when path contains a traversal
// sequence or a NUL byte, or when normalizing it would walk above the
// implied root. An empty path is allowed — it means "host root" in
// target parsing. Home-prefixed paths are returned untouched; expansion
// of "~" happens on the remote side, not here.
func Path(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if strings.Contains(path, "\x00") {
		return "", scerr.New(scerr.KindValidation, "path contains a NUL byte")
	}
	if strings.Contains(path, "..") {
		return "", scerr.New(scerr.KindValidation, "path contains a traversal sequence")
	}
	if strings.HasPrefix(path, "~") {
		return path, nil
	}
	normalized := normalize(path)
	if strings.Contains(normalized, "..") {
		return "", scerr.New(scerr.KindValidation, "path resolves outside root")
	}
	return normalized, nil
}

// normalize collapses "//" and "./" segments without touching "..", which
// Path has already rejected by the time normalize runs on a non-home path.
func normalize(path string) string {
	isAbs := strings.HasPrefix(path, "/")
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." {
			continue
		}
		out = append(out, p)
	}
	joined := strings.Join(out, "/")
	if isAbs {
		return "/" + joined
	}
	return joined
}

const hostForbidden = ";|&$`/\\\n\r\x00 "

// Host fails with a validation error when name is empty, longer than 253
// bytes, or contains any of ; | & $ ` / \, a space, a newline, a carriage
// return, or a NUL byte. Other whitespace and control bytes are not
// rejected. Colons and dots pass through — they're needed for IPv6
// literals and FQDNs.
func Host(name string) error {
	if name == "" {
		return scerr.New(scerr.KindValidation, "host name is empty")
	}
	if len(name) > 253 {
		return scerr.New(scerr.KindValidation, "host name exceeds 253 bytes")
	}
	if strings.ContainsAny(name, hostForbidden) {
		return scerr.New(scerr.KindValidation, "host name contains a disallowed character")
	}
	return nil
}

// ShellQuote is the only place shell quoting is produced; every executor
// that places user input into a remote command string calls it. It wraps
// s in single quotes, escaping embedded single quotes as '\'' so the
// remote shell sees the literal bytes of s.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
