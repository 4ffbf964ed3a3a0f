package domain

import (
	"fmt"
	"strings"
)

// ParseRepository splits an "owner/name" reference.
func ParseRepository(ref string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(ref), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("%w: %q (expected owner/name)", ErrInvalidRepository, ref)
	}
	return owner, name, nil
}
