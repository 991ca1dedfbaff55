// Package hook installs the pre-commit wrapper into the Git hooks directory.
package hook

import (
	"fmt"
	"os"
	"path/filepath"
)

const hookName = "pre-commit"

const script = `#!/bin/sh
# Auto-generated by lazytag install
lazytag tag
`

// Install writes the pre-commit hook into hooksDir and marks it executable.
// A pre-existing hook is copied aside first. Returns the path of the
// installed hook and the backup path, "" when no backup was needed.
func Install(hooksDir string) (hookPath, backupPath string, err error) {
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating hooks directory: %w", err)
	}

	hookPath = filepath.Join(hooksDir, hookName)
	if _, err := os.Stat(hookPath); err == nil {
		backupPath = hookPath + ".bak"
		existing, err := os.ReadFile(hookPath)
		if err != nil {
			return "", "", fmt.Errorf("reading existing hook: %w", err)
		}
		if err := os.WriteFile(backupPath, existing, 0o755); err != nil {
			return "", "", fmt.Errorf("backing up existing hook: %w", err)
		}
	}

	if err := os.WriteFile(hookPath, []byte(script), 0o755); err != nil {
		return "", "", fmt.Errorf("writing hook: %w", err)
	}
	return hookPath, backupPath, nil
}
