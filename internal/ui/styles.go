package ui

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// defaultAccent is used until ui.accent in the config says otherwise.
const defaultAccent = "#2EAADC"

var (
	// Accent colors spinners, table headers and help headings.
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted is for hints, table borders and secondary text.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	accentColor = defaultAccent
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-f]{3}|[0-9a-f]{6})$`)

// ConfigureTheme applies the configured accent: an ANSI color number or a
// #rgb / #rrggbb hex value. "none", "off" and unparseable values turn the
// accent off.
func ConfigureTheme(accent string) {
	if c, ok := normalizeAccentColor(accent); ok {
		accentColor = c
		Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
		return
	}
	accentColor = ""
	Accent = lipgloss.NewStyle()
}

// AccentColor reports the active accent color.
func AccentColor() (string, bool) {
	return accentColor, accentColor != ""
}

func normalizeAccentColor(value string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || v == "none" || v == "off" || v == "default" {
		return "", false
	}
	if n, err := strconv.Atoi(v); err == nil {
		return strconv.Itoa(n), n >= 0 && n <= 255
	}
	if !hexColor.MatchString(v) {
		return "", false
	}
	if len(v) == 7 {
		return v, true
	}
	var b strings.Builder
	b.WriteByte('#')
	for _, r := range v[1:] {
		b.WriteRune(r)
		b.WriteRune(r)
	}
	return b.String(), true
}
