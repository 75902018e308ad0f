// Package syntax validates file content server-side before it is written
// to a remote host, for the file types whose grammar is cheap to check
// without any tooling installed on the target machine.
package syntax

import (
	"bufio"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Result holds the outcome of a syntax check against one file.
type Result struct {
	Valid    bool
	FileType string
	Errors   []string
}

// Summary renders a one-paragraph human-readable report for path.
func (r *Result) Summary(path string) string {
	if r.Valid {
		return fmt.Sprintf("valid %s: %s", strings.ToUpper(r.FileType), path)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %s: %s\n", strings.ToUpper(r.FileType), path)
	for _, e := range r.Errors {
		b.WriteString("  " + e + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Check validates content according to fileType. A fileType with no
// registered checker yields a nil Result — the caller should treat that
// as "validation not applicable", not as a failure.
func Check(content, fileType string) *Result {
	switch fileType {
	case "json":
		return checkJSON(content)
	case "yaml":
		return checkYAML(content)
	case "toml":
		return checkTOML(content)
	case "xml":
		return checkXML(content)
	case "ini":
		return checkINI(content)
	case "env":
		return checkEnv(content)
	case "dockerfile":
		return checkDockerfile(content)
	default:
		return nil
	}
}

func checkJSON(content string) *Result {
	r := &Result{FileType: "json"}
	var v any
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		r.Errors = append(r.Errors, err.Error())
		return r
	}
	r.Valid = true
	return r
}

func checkYAML(content string) *Result {
	r := &Result{FileType: "yaml"}
	dec := yaml.NewDecoder(strings.NewReader(content))
	for {
		var v any
		err := dec.Decode(&v)
		if err == io.EOF {
			break
		}
		if err != nil {
			r.Errors = append(r.Errors, err.Error())
			return r
		}
	}
	r.Valid = true
	return r
}

func checkTOML(content string) *Result {
	r := &Result{FileType: "toml"}
	var v any
	if _, err := toml.Decode(content, &v); err != nil {
		r.Errors = append(r.Errors, err.Error())
		return r
	}
	r.Valid = true
	return r
}

func checkXML(content string) *Result {
	r := &Result{FileType: "xml"}
	dec := xml.NewDecoder(strings.NewReader(content))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			r.Errors = append(r.Errors, err.Error())
			return r
		}
	}
	r.Valid = true
	return r
}

// checkINI is a deliberately loose check: section headers must close,
// and every other non-comment line must look like key=value or key:
// value. It does not validate duplicate keys or section nesting.
func checkINI(content string) *Result {
	r := &Result{FileType: "ini"}
	scanner := bufio.NewScanner(strings.NewReader(content))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		switch {
		case text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, ";"):
		case strings.HasPrefix(text, "["):
			if !strings.HasSuffix(text, "]") {
				r.Errors = append(r.Errors, fmt.Sprintf("line %d: unclosed section header: %s", line, text))
			}
		case strings.ContainsAny(text, "=:"):
		default:
			r.Errors = append(r.Errors, fmt.Sprintf("line %d: not a section header or key/value pair: %s", line, text))
		}
	}
	r.Valid = len(r.Errors) == 0
	return r
}

func checkEnv(content string) *Result {
	r := &Result{FileType: "env"}
	scanner := bufio.NewScanner(strings.NewReader(content))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		eq := strings.Index(text, "=")
		if eq <= 0 {
			r.Errors = append(r.Errors, fmt.Sprintf("line %d: expected KEY=VALUE, got: %s", line, text))
			continue
		}
		key := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text[:eq]), "export "))
		if key == "" {
			r.Errors = append(r.Errors, fmt.Sprintf("line %d: empty key", line))
			continue
		}
		first := key[0]
		if !(first == '_' || (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
			r.Errors = append(r.Errors, fmt.Sprintf("line %d: key %q must start with a letter or underscore", line, key))
		}
	}
	r.Valid = len(r.Errors) == 0
	return r
}

var dockerfileInstructions = map[string]bool{
	"FROM": true, "RUN": true, "CMD": true, "LABEL": true, "EXPOSE": true,
	"ENV": true, "ADD": true, "COPY": true, "ENTRYPOINT": true, "VOLUME": true,
	"USER": true, "WORKDIR": true, "ARG": true, "ONBUILD": true,
	"STOPSIGNAL": true, "HEALTHCHECK": true, "SHELL": true, "MAINTAINER": true,
}

func checkDockerfile(content string) *Result {
	r := &Result{FileType: "dockerfile"}
	scanner := bufio.NewScanner(strings.NewReader(content))
	line := 0
	continued := false
	hasFrom := false

	for scanner.Scan() {
		line++
		raw := scanner.Text()
		text := strings.TrimSpace(raw)

		if continued {
			continued = strings.HasSuffix(text, "\\")
			continue
		}
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		continued = strings.HasSuffix(text, "\\")

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		instruction := strings.ToUpper(fields[0])
		if instruction == "FROM" {
			hasFrom = true
		}
		if !dockerfileInstructions[instruction] {
			r.Errors = append(r.Errors, fmt.Sprintf("line %d: unknown instruction %s", line, fields[0]))
		}
	}

	if !hasFrom && strings.TrimSpace(content) != "" {
		r.Errors = append(r.Errors, "missing FROM instruction")
	}
	r.Valid = len(r.Errors) == 0
	return r
}
