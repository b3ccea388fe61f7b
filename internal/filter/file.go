package filter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/aidanlsb/notion-cli/internal/atomicfile"
)

const fileNameLayout = "20060102_150405"

// Marshal renders expr as JSON indented by two spaces.
func Marshal(expr Expression) ([]byte, error) {
	return json.MarshalIndent(expr, "", "  ")
}

// Save writes expr to path as indented JSON.
func Save(path string, expr Expression) error {
	data, err := Marshal(expr)
	if err != nil {
		return fmt.Errorf("encode filter: %w", err)
	}
	data = append(data, '\n')
	if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write filter %s: %w", path, err)
	}
	return nil
}

// Load reads a filter file written by Save (or by hand).
func Load(path string) (Expression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filter %s: %w", path, err)
	}
	expr, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse filter %s: %w", path, err)
	}
	return expr, nil
}

// DefaultFileName is the suggested save name: the current timestamp.
func DefaultFileName(now time.Time) string {
	return now.Format(fileNameLayout)
}

// FileName turns a user-entered name into a save path. The name is kept as
// typed and ".json" is appended. A base name holding characters that are not
// portable in file names is slugified, and an empty or unusable one falls back
// to the timestamp.
func FileName(input string, now time.Time) string {
	input = strings.TrimSpace(input)
	dir, base := filepath.Split(input)
	name := strings.TrimSpace(strings.TrimSuffix(base, ".json"))
	if strings.ContainsFunc(name, unportable) {
		name = slug.Make(name)
	}
	if name == "" || name == "." || name == ".." {
		name = DefaultFileName(now)
	}
	return filepath.Join(dir, name+".json")
}

func unportable(r rune) bool {
	return r < 0x20 || r == 0x7f || strings.ContainsRune(`<>:"\|?*`, r)
}
