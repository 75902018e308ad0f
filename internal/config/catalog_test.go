package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseStanzas(t *testing.T) {
	input := `
# comment
Host web1
  HostName 10.0.0.1
  User deploy
  Port 2222

Host web2
	HostName 10.0.0.2

Host *
  User nobody

Host web3
  IdentityFile ~/.ssh/web3_key
`
	stanzas, err := parseStanzas(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stanzas) != 4 {
		t.Fatalf("expected 4 stanzas (including wildcard), got %d", len(stanzas))
	}
	if stanzas[0].alias != "web1" || stanzas[0].values["hostname"] != "10.0.0.1" {
		t.Errorf("web1 stanza wrong: %+v", stanzas[0])
	}
	if stanzas[0].values["port"] != "2222" {
		t.Errorf("expected port 2222, got %q", stanzas[0].values["port"])
	}
	if stanzas[3].values["identityfile"] != "~/.ssh/web3_key" {
		t.Errorf("expected identity file, got %+v", stanzas[3])
	}
}

func TestLoadCatalogIgnoresWildcards(t *testing.T) {
	content := "Host *\n  User nobody\nHost db1\n  HostName 10.0.0.5\n  Port 2200\n"
	f := writeTempFile(t, content)

	cat, err := LoadCatalog(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("expected 1 host, got %d", cat.Len())
	}
	host, ok := cat.Host("db1")
	if !ok {
		t.Fatal("expected db1 to be present")
	}
	if host.Hostname != "10.0.0.5" || host.Port != 2200 || host.User != "root" {
		t.Errorf("unexpected host: %+v", host)
	}
}

func TestLoadCatalogMissingFileIsEmpty(t *testing.T) {
	cat, err := LoadCatalog("/nonexistent/path/to/ssh/config")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 0 {
		t.Errorf("expected empty catalog, got %d entries", cat.Len())
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ssh_config")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	return path
}
