package store

import (
	"path"
	"strings"

	"github.com/yagro/gostore/pkg/errors"
)

// SafeFilename derives a storable filename from a caller-declared one.
// Directory components are stripped, anything outside ASCII letters,
// digits, dot, dash and underscore is dropped (spaces become
// underscores), and leading/trailing dots and underscores are trimmed.
// The result never contains a path separator and is never empty; names
// that sanitize to nothing yield ErrInvalidFilename.
func SafeFilename(name string) (string, error) {
	// Windows clients declare backslash-separated paths.
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}

	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "", errors.InvalidFilename(name)
	}

	return cleaned, nil
}
