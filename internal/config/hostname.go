package config

import (
	"os"
	"strings"
)

// isLocalhost reports whether candidate names the machine running this
// process. Either name being a prefix-equal FQDN match of the other
// counts — "code-server" matches "code-server.example.com" and vice
// versa — per spec.md §4.2.
func isLocalhost(candidate, machine string) bool {
	c := strings.ToLower(candidate)
	m := strings.ToLower(machine)
	if c == "" || m == "" {
		return false
	}
	if c == m {
		return true
	}
	return strings.HasPrefix(m, c+".") || strings.HasPrefix(c, m+".")
}

// machineHostname returns the process's own hostname, lowercased.
func machineHostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return strings.ToLower(name)
}
