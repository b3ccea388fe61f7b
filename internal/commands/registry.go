// Package commands provides a central registry of notion-cli commands.
// This registry is the single source of truth for command metadata: names,
// aliases, arguments, flags and examples. The CLI builds its cobra commands
// from it and the verbose help lists it.
package commands

// Meta defines metadata for a CLI command.
type Meta struct {
	Name        string     // Last word of the command path (e.g., "query")
	Description string     // Short description
	LongDesc    string     // Long description (for --help)
	Aliases     []string   // Alternate names (e.g., "q" for "db query")
	Args        []ArgMeta  // Positional arguments
	Flags       []FlagMeta // Command flags
	Examples    []string   // Usage examples
	TableOutput bool       // Accepts the shared table flags
}

// ArgMeta defines a positional argument.
type ArgMeta struct {
	Name        string
	Description string
	Required    bool
}

// FlagMeta defines a command flag.
type FlagMeta struct {
	Name        string // Flag name (e.g., "page-size")
	Short       string // Short flag (e.g., "p" for -p)
	Description string
	Type        FlagType
	Default     string
	Completions []string // Static completions for the flag value
}

// FlagType represents the type of a flag.
type FlagType string

const (
	FlagTypeString FlagType = "string"
	FlagTypeBool   FlagType = "bool"
	FlagTypeInt    FlagType = "int"
)

var rawFlag = FlagMeta{Name: "raw", Short: "r", Description: "Print the unmodified API response as JSON", Type: FlagTypeBool}

// Registry holds all registered commands, keyed by command path.
var Registry = map[string]Meta{
	"search": {
		Name:        "search",
		Description: "Search pages and databases by title",
		LongDesc: `Searches every page and database shared with the integration.

Results are sorted by last edited time. Use --property to limit results to
pages or databases; any other value searches both.`,
		Flags: []FlagMeta{
			{Name: "query", Short: "q", Description: "Text to match against titles", Type: FlagTypeString},
			{Name: "sort-direction", Short: "d", Description: "Sort direction by last edited time (asc|desc)", Type: FlagTypeString, Default: "desc", Completions: []string{"asc", "desc"}},
			{Name: "property", Short: "p", Description: "Only return this object kind (database|page)", Type: FlagTypeString, Completions: []string{"database", "page"}},
			{Name: "start-cursor", Short: "c", Description: "Cursor from a previous response", Type: FlagTypeString},
			{Name: "page-size", Short: "s", Description: "Number of results (1-100)", Type: FlagTypeInt, Default: "5"},
			rawFlag,
		},
		Examples: []string{
			"notion-cli search -q roadmap",
			"notion-cli search -p database -s 20 --csv",
			"notion-cli search -d asc --raw",
		},
		TableOutput: true,
	},
	"db": {
		Name:        "db",
		Description: "Query and inspect databases",
	},
	"db query": {
		Name:        "query",
		Description: "Query a database",
		LongDesc: `Queries a database and lists the matching pages.

Without a database ID the command runs interactively: pick a database, then
build a filter one property at a time. The built filter can be saved to a JSON
file and reused later with --file-filter. Interactive mode needs a terminal.`,
		Aliases: []string{"q"},
		Args: []ArgMeta{
			{Name: "database_id", Description: "Database ID or URL (omit for interactive mode)"},
		},
		Flags: []FlagMeta{
			{Name: "raw-filter", Short: "a", Description: "Filter as a JSON string", Type: FlagTypeString},
			{Name: "file-filter", Short: "f", Description: "Path to a JSON filter file", Type: FlagTypeString},
			{Name: "page-size", Short: "p", Description: "Number of results (1-100)", Type: FlagTypeInt, Default: "10"},
			{Name: "page-all", Short: "A", Description: "Fetch every page of results", Type: FlagTypeBool},
			{Name: "sort-property", Short: "s", Description: "Property to sort by", Type: FlagTypeString},
			{Name: "sort-direction", Short: "d", Description: "Sort direction (asc|desc)", Type: FlagTypeString, Default: "asc", Completions: []string{"asc", "desc"}},
			{Name: "start-cursor", Short: "c", Description: "Cursor from a previous response", Type: FlagTypeString},
			rawFlag,
		},
		Examples: []string{
			"notion-cli db query",
			`notion-cli db query <database_id> -a '{"property":"Done","checkbox":{"equals":false}}'`,
			"notion-cli db q <database_id> -f filter.json --page-all --csv",
			"notion-cli db q <database_id> -s Due -d desc",
		},
		TableOutput: true,
	},
	"db retrieve": {
		Name:        "retrieve",
		Description: "Show a database's properties",
		Aliases:     []string{"r"},
		Args: []ArgMeta{
			{Name: "database_id", Description: "Database ID or URL", Required: true},
		},
		Flags:       []FlagMeta{rawFlag},
		Examples:    []string{"notion-cli db retrieve <database_id>"},
		TableOutput: true,
	},
	"page": {
		Name:        "page",
		Description: "Create pages",
	},
	"page create": {
		Name:        "create",
		Description: "Create a page under a page or database",
		LongDesc: `Creates a page under exactly one parent: a page (--parent-page-id) or a
database (--parent-db-id).

With --file-path the markdown file becomes the page body and its base name
becomes the title unless --title is given. Headings, lists, to-dos, code,
quotes, dividers, images and tables are converted to blocks.`,
		Aliases: []string{"c"},
		Flags: []FlagMeta{
			{Name: "parent-page-id", Short: "p", Description: "Parent page ID or URL", Type: FlagTypeString},
			{Name: "parent-db-id", Short: "d", Description: "Parent database ID or URL", Type: FlagTypeString},
			{Name: "file-path", Short: "f", Description: "Markdown file for the page body", Type: FlagTypeString},
			{Name: "title", Short: "t", Description: "Page title", Type: FlagTypeString},
			rawFlag,
		},
		Examples: []string{
			"notion-cli page create -p <page_id> -t 'Meeting notes'",
			"notion-cli page c -d <database_id> -f ./weekly-report.md",
		},
		TableOutput: true,
	},
	"block": {
		Name:        "block",
		Description: "Append blocks",
	},
	"block append": {
		Name:        "append",
		Description: "Append children to a block or page",
		LongDesc: `Appends block children given as a JSON array. With an optional third
argument the children are inserted after that block instead of at the end.`,
		Aliases: []string{"a"},
		Args: []ArgMeta{
			{Name: "block_id", Description: "Parent block or page ID", Required: true},
			{Name: "children", Description: "JSON array of block objects", Required: true},
			{Name: "after", Description: "Insert after this block ID"},
		},
		Flags: []FlagMeta{rawFlag},
		Examples: []string{
			`notion-cli block append <page_id> '[{"object":"block","type":"paragraph","paragraph":{"rich_text":[{"type":"text","text":{"content":"hi"}}]}}]'`,
		},
		TableOutput: true,
	},
	"auth": {
		Name:        "auth",
		Description: "Manage the integration token",
	},
	"auth login": {
		Name:        "login",
		Description: "Save an integration token to the config file",
		LongDesc: `Prompts for an integration token without echoing it, verifies it with a
search call, and stores it in the config file. NOTION_TOKEN still takes
precedence when set.`,
		Flags: []FlagMeta{
			{Name: "token", Description: "Token to save instead of prompting", Type: FlagTypeString},
			{Name: "no-verify", Description: "Save without checking the token", Type: FlagTypeBool},
		},
		Examples: []string{"notion-cli auth login", "notion-cli auth login --token $TOKEN"},
	},
	"auth status": {
		Name:        "status",
		Description: "Show where the token comes from",
		Examples:    []string{"notion-cli auth status"},
	},
	"version": {
		Name:        "version",
		Description: "Show notion-cli version and build information",
		Flags: []FlagMeta{
			{Name: "json", Description: "Print build information as JSON", Type: FlagTypeBool},
		},
	},
}
