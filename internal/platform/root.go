package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindRoot walks up from startDir to the first directory holding a registry
// file named schemaFile (default "schema.json") and returns it as an
// absolute path.
func FindRoot(startDir, schemaFile string) (string, error) {
	if schemaFile == "" {
		schemaFile = "schema.json"
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if isFile(filepath.Join(dir, schemaFile)) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s found above %s", schemaFile, abs)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
