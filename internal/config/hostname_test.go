package config

import "testing"

func TestIsLocalhost(t *testing.T) {
	cases := []struct {
		candidate, machine string
		want                bool
	}{
		{"code-server", "code-server.example.com", true},
		{"code-server.example.com", "code-server", true},
		{"code-server", "code-server", true},
		{"Code-Server", "code-server", true},
		{"web1", "web2.example.com", false},
		{"", "host", false},
		{"host", "", false},
	}
	for _, c := range cases {
		if got := isLocalhost(c.candidate, c.machine); got != c.want {
			t.Errorf("isLocalhost(%q, %q) = %v, want %v", c.candidate, c.machine, got, c.want)
		}
	}
}
