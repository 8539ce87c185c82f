package oci

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"
)

// resolveSSHKeys returns the authorized_keys content to inject into instance
// metadata. The configured value is either the keys themselves or
// "file:<path>" pointing at an authorized_keys file. Every non-empty line
// must parse as a public key, which catches the classic mistake of pointing
// at a private key instead.
func resolveSSHKeys(value string) (string, error) {
	if path, ok := strings.CutPrefix(value, "file:"); ok {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read ssh keys: %w", err)
		}
		value = string(content)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	for i, line := range strings.Split(value, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(line)); err != nil {
			return "", fmt.Errorf("invalid ssh public key on line %d: %w", i+1, err)
		}
	}
	return value, nil
}
