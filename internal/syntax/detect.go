package syntax

import (
	"path/filepath"
	"strings"
)

var extensionTypes = []struct {
	pattern  string
	fileType string
}{
	{"*.json", "json"},
	{"*.yaml", "yaml"},
	{"*.yml", "yaml"},
	{"*.toml", "toml"},
	{"*.xml", "xml"},
	{"*.xsl", "xml"},
	{"*.xslt", "xml"},
	{"*.svg", "xml"},
	{"*.xhtml", "xml"},
	{"*.plist", "xml"},
	{"*.ini", "ini"},
	{"*.cfg", "ini"},
	{"*.conf", "ini"},
	{"*.env", "env"},
	{"dockerfile*", "dockerfile"},
	{".env*", "env"},
}

// DetectType guesses the syntax family from path's basename, returning ""
// when nothing matches — the caller should then skip validation rather
// than treat it as an error.
func DetectType(path string) string {
	base := strings.ToLower(filepath.Base(path))
	for _, e := range extensionTypes {
		if matched, _ := filepath.Match(e.pattern, base); matched {
			return e.fileType
		}
	}
	return ""
}
