// Package envloader loads .env files hierarchically into the process
// environment before a script or REPL session starts, so the env
// builtin (internal/builtins/system.go) sees them without crush
// needing its own config-file format. Adapted from the teacher's
// internal/envloader package, stripped of its --debug-env tracing
// output (crush has no matching flag) and its environment-name
// selection (crush scripts don't declare a target environment).
package envloader

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Load reads .env then .env.local from dir, in that order, returning
// the merged key/value pairs. Later files override earlier ones.
// Variables already set in the host environment are left untouched by
// the caller — Load only reports what the files contain; Apply (or
// the caller) decides whether to override.
func Load(dir string) (map[string]string, error) {
	vars := make(map[string]string)
	for _, name := range []string{".env", ".env.local"} {
		if err := loadFile(filepath.Join(dir, name), vars); err != nil {
			return nil, err
		}
	}
	return vars, nil
}

// Apply sets every variable from Load into the process environment,
// without overwriting a variable the host environment already defines
// — host environment always wins over file-provided defaults.
func Apply(dir string) error {
	vars, err := Load(dir)
	if err != nil {
		return err
	}
	for k, v := range vars {
		if _, present := os.LookupEnv(k); present {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}
	return nil
}

func loadFile(path string, into map[string]string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		into[strings.TrimSpace(key)] = removeQuotes(strings.TrimSpace(value))
	}
	return scanner.Err()
}

func removeQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
