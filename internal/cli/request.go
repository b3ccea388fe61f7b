package cli

import (
	"fmt"

	"github.com/aidanlsb/notion-cli/internal/notion"
)

// parseDirection maps the asc/desc flag value to a sort direction.
func parseDirection(flag string) (notion.SortDirection, error) {
	switch flag {
	case "asc":
		return notion.Ascending, nil
	case "desc":
		return notion.Descending, nil
	}
	return "", errorf(ErrInvalidInput, "Use asc or desc", "invalid sort direction %q", flag)
}

func checkPageSize(n int) error {
	if n < 1 || n > notion.MaxPageSize {
		return errorf(ErrInvalidInput, "", "page size must be between 1 and %d, got %d", notion.MaxPageSize, n)
	}
	return nil
}

// normalizeID canonicalizes an ID argument, naming it in the error.
func normalizeID(what, input string) (string, error) {
	id, err := notion.NormalizeID(input)
	if err != nil {
		return "", newError(ErrInvalidInput, fmt.Errorf("invalid %s: %w", what, err), "Pass a 32-character ID, a dashed UUID, or the object's URL")
	}
	return id, nil
}
