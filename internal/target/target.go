// Package target parses the string address format tools and resources
// accept: "hosts", "<host>", or "<host>:<path>".
package target

import (
	"strings"

	"scout/internal/scerr"
	"scout/internal/validate"
)

// Target is a parsed request address. Exactly one of IsHostsCommand or
// Host is set.
type Target struct {
	Raw            string
	IsHostsCommand bool
	Host           string
	Path           string
}

// Parse splits raw into a Target per the grammar: "hosts" lists every
// catalog entry; "<host>:<path>" addresses a path on a host; "<host>"
// alone addresses the host's root.
func Parse(raw string) (Target, error) {
	if raw == "hosts" {
		return Target{Raw: raw, IsHostsCommand: true}, nil
	}

	host, path, _ := strings.Cut(raw, ":")
	if err := validate.Host(host); err != nil {
		return Target{}, err
	}
	normalizedPath, err := validate.Path(path)
	if err != nil {
		return Target{}, err
	}

	return Target{Raw: raw, Host: host, Path: normalizedPath}, nil
}

// RequireHost parses raw and rejects the "hosts" command form, for call
// sites that always need a concrete host.
func RequireHost(raw string) (Target, error) {
	t, err := Parse(raw)
	if err != nil {
		return Target{}, err
	}
	if t.IsHostsCommand {
		return Target{}, scerr.New(scerr.KindValidation, `target "hosts" is not valid here`)
	}
	return t, nil
}
