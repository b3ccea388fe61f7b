package notion

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var trailingID = regexp.MustCompile(`([0-9a-fA-F]{32}|[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})$`)

// NormalizeID accepts a bare ID (dashed or not) or a notion.so URL and
// returns the canonical dashed UUID form.
func NormalizeID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("empty id")
	}
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("invalid id %q: %w", input, err)
		}
		s = path.Base(u.Path)
	}
	m := trailingID.FindString(s)
	if m == "" {
		return "", fmt.Errorf("invalid id %q", input)
	}
	id, err := uuid.Parse(m)
	if err != nil {
		return "", fmt.Errorf("invalid id %q: %w", input, err)
	}
	return id.String(), nil
}
