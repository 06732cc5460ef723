package filesystem

import (
	"os"
	"path/filepath"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
)

// protectedPathError returns a domain error when path is the user's
// home directory or a filesystem root. Destructive commits refuse those
// regardless of any force flag.
func protectedPathError(path string) error {
	clean := filepath.Clean(path)
	if clean == string(os.PathSeparator) || filepath.Dir(clean) == clean {
		return engine.NewDomainError("protected_path",
			"refusing to operate on a filesystem root", map[string]any{"path": clean})
	}
	if home, err := os.UserHomeDir(); err == nil && clean == filepath.Clean(home) {
		return engine.NewDomainError("protected_path",
			"refusing to operate on the home directory", map[string]any{"path": clean})
	}
	return nil
}
