package sandbox

import (
	"os"
	"regexp"
	"strings"
)

// credentialName matches environment variable names that look like they
// carry secrets. Spawned processes never see those.
var credentialName = regexp.MustCompile(`(?i)(API|KEY|SECRET|TOKEN|PASSWORD|CREDENTIAL|AUTH)`)

// baselineVars are always passed through, credential-shaped or not.
var baselineVars = map[string]bool{
	"PATH":   true,
	"HOME":   true,
	"SHELL":  true,
	"LANG":   true,
	"LC_ALL": true,
	"TERM":   true,
}

// SanitizedEnv returns a copy of the ambient environment with
// credential-shaped variable names stripped, keeping the minimal
// baseline a spawned tool binary needs.
func SanitizedEnv() []string {
	env := os.Environ()
	out := make([]string, 0, len(env))
	for _, kv := range env {
		name, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if baselineVars[name] || !credentialName.MatchString(name) {
			out = append(out, kv)
		}
	}
	return out
}
