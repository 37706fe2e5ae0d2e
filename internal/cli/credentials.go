package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileTokenSource reads the bearer token from a credentials file. A missing
// file means no token, which the SDK treats as an unauthenticated session.
type FileTokenSource struct {
	Path string
}

// Token implements voxhire.TokenSource.
func (s *FileTokenSource) Token() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read credentials: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveToken writes the token to path, creating parent directories. The file
// is user-readable only.
func SaveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// ClearToken removes the credentials file. Clearing an absent file is not
// an error.
func ClearToken(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
