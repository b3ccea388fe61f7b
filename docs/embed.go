// Package docs holds the long-form help bundled with the notion-cli binary.
package docs

import _ "embed"

// EnhancedHelp is the markdown shown by --help-verbose.
//
//go:embed ENHANCED_HELP.md
var EnhancedHelp string
