package config

import (
	"regexp"
	"strings"
)

// DefaultName replaces project names that cannot be made valid.
const DefaultName = "hello-world"

const maxNameLength = 214

var (
	disallowedRun = regexp.MustCompile(`[^a-z0-9\-._~!*'()]+`)
	hyphenRun     = regexp.MustCompile(`-+`)
	urlSafe       = regexp.MustCompile(`^[a-z0-9\-._~!*'()]+$`)
)

// npm refuses these names, as well as the names of Node core modules.
var reservedNames = map[string]bool{
	"node_modules": true,
	"favicon.ico":  true,
}

var coreModules = map[string]bool{
	"assert": true, "buffer": true, "child_process": true, "cluster": true,
	"console": true, "constants": true, "crypto": true, "dgram": true,
	"dns": true, "domain": true, "events": true, "fs": true, "http": true,
	"https": true, "module": true, "net": true, "os": true, "path": true,
	"punycode": true, "querystring": true, "readline": true, "repl": true,
	"stream": true, "string_decoder": true, "sys": true, "timers": true,
	"tls": true, "tty": true, "url": true, "util": true, "vm": true,
	"zlib": true,
}

// NormalizeName folds a raw name into npm package-name form: lower-case,
// every run of characters outside the URL-safe set becomes one hyphen,
// duplicate hyphens collapse, and leading "-_." and trailing "-" are
// trimmed. The result may be empty or still invalid; see ValidName.
func NormalizeName(raw string) string {
	name := strings.ToLower(raw)
	name = disallowedRun.ReplaceAllString(name, "-")
	name = hyphenRun.ReplaceAllString(name, "-")
	name = strings.TrimLeft(name, "-_.")
	return strings.TrimRight(name, "-")
}

// ValidName reports whether name can be used as an npm package name.
func ValidName(name string) bool {
	switch {
	case name == "", len(name) > maxNameLength:
		return false
	case strings.HasPrefix(name, "."), strings.HasPrefix(name, "_"):
		return false
	case strings.TrimSpace(name) != name, strings.ToLower(name) != name:
		return false
	case !urlSafe.MatchString(name):
		return false
	case reservedNames[name], coreModules[name]:
		return false
	}
	return true
}
