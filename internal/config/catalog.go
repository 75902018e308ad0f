package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Catalog is the ordered, read-only host table built from an SSH-config
// file. It is replaced wholesale on reload; entries are never mutated in
// place.
type Catalog struct {
	order []string
	hosts map[string]SSHHost
}

// LoadCatalog parses the SSH-config file at path. Wildcard Host stanzas
// ("Host *", "Host web-*") are ignored — only literal aliases become
// catalog entries. Only Host, HostName, User, Port, and IdentityFile
// directives are consulted; everything else in the file is ignored, per
// spec.md §6. A missing file yields an empty catalog rather than an
// error — a gateway with zero configured hosts is a valid, if useless,
// starting state.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{hosts: make(map[string]SSHHost)}, nil
		}
		return nil, fmt.Errorf("config: open ssh config: %w", err)
	}
	defer f.Close()

	stanzas, err := parseStanzas(f)
	if err != nil {
		return nil, err
	}

	machine := machineHostname()
	c := &Catalog{hosts: make(map[string]SSHHost, len(stanzas))}
	for _, st := range stanzas {
		if strings.ContainsAny(st.alias, "*?") {
			continue
		}
		host := SSHHost{
			Name:         st.alias,
			Hostname:     firstNonEmpty(st.values["hostname"], st.alias),
			User:         firstNonEmpty(st.values["user"], "root"),
			Port:         22,
			IdentityFile: st.values["identityfile"],
		}
		if p, ok := st.values["port"]; ok {
			if n, err := strconv.Atoi(p); err == nil {
				host.Port = n
			}
		}
		host.IsLocalhost = isLocalhost(host.Name, machine) || isLocalhost(host.Hostname, machine)
		c.order = append(c.order, host.Name)
		c.hosts[host.Name] = host
	}
	return c, nil
}

type stanza struct {
	alias  string
	values map[string]string
}

// parseStanzas is a line-oriented scanner for the five directives spec.md
// §6 names. It does not implement ssh_config(5)'s Match/Include/
// canonicalization machinery — that scope is explicitly out per spec.md §1.
func parseStanzas(r io.Reader) ([]stanza, error) {
	var stanzas []stanza
	var current *stanza

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, val, ok := splitDirective(line)
		if !ok {
			continue
		}
		lowerKey := strings.ToLower(key)

		if lowerKey == "host" {
			stanzas = append(stanzas, stanza{alias: val, values: make(map[string]string)})
			current = &stanzas[len(stanzas)-1]
			continue
		}

		if current == nil {
			continue // directive before any Host block
		}

		switch lowerKey {
		case "hostname", "user", "port", "identityfile":
			if _, exists := current.values[lowerKey]; !exists {
				current.values[lowerKey] = val
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: scan ssh config: %w", err)
	}
	return stanzas, nil
}

// splitDirective splits "Key value" or "Key=value" into its parts.
func splitDirective(line string) (key, val string, ok bool) {
	idx := strings.IndexAny(line, " \t=")
	if idx < 0 {
		return "", "", false
	}
	key = line[:idx]
	val = strings.TrimSpace(strings.TrimPrefix(line[idx:], "="))
	val = strings.TrimSpace(val)
	val = strings.Trim(val, `"`)
	if key == "" || val == "" {
		return "", "", false
	}
	return key, val, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Hosts returns the catalog entries in config-file order.
func (c *Catalog) Hosts() []SSHHost {
	out := make([]SSHHost, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.hosts[name])
	}
	return out
}

// Host returns the catalog entry for name, and whether it was found.
func (c *Catalog) Host(name string) (SSHHost, bool) {
	h, ok := c.hosts[name]
	return h, ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.hosts) }
