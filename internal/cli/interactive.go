package cli

import (
	"context"
	"fmt"

	"github.com/aidanlsb/notion-cli/internal/filter"
	"github.com/aidanlsb/notion-cli/internal/notion"
	"github.com/aidanlsb/notion-cli/internal/prompt"
)

// Hooks replaced by tests.
var (
	isInteractive = prompt.IsInteractive
	newPrompter   = func() filter.Prompter { return prompt.NewStdio() }
)

// runInteractiveQuery asks for a database, builds a filter against its
// schema and offers to save it. It returns the filter (nil for none) and the
// chosen database ID.
func runInteractiveQuery(ctx context.Context, api notion.API, p filter.Prompter, s streams) (filter.Expression, string, error) {
	stop := s.spin("Loading databases...")
	dbs, err := notion.SearchDatabases(ctx, api)
	stop()
	if err != nil {
		return nil, "", apiError(err)
	}
	if len(dbs) == 0 {
		return nil, "", errorf(ErrInvalidInput, "Share a database with the integration from its ... menu in Notion",
			"no databases are shared with the integration")
	}

	labels := make([]string, len(dbs))
	byLabel := make(map[string]string, len(dbs))
	for i, db := range dbs {
		labels[i] = databaseLabel(db)
		byLabel[labels[i]] = db.ID
	}
	choice, err := p.Select("Select a database to query", labels)
	if err != nil {
		return nil, "", err
	}
	id := byLabel[choice]

	stop = s.spin("Loading schema...")
	db, err := api.RetrieveDatabase(ctx, id)
	stop()
	if err != nil {
		return nil, "", apiError(err)
	}

	b := filter.NewBuilder(p, filter.WithOutput(s.err), filter.WithLogger(logger))
	expr, err := b.Build(schemaOf(db))
	if err != nil {
		return nil, "", err
	}
	logger.WithField("database_id", id).Debug("filter built")
	if _, err := b.OfferSave(expr); err != nil {
		return nil, "", err
	}
	return expr, id, nil
}

// databaseLabel names a database in the picker. The ID keeps labels unique
// when titles repeat.
func databaseLabel(db notion.Object) string {
	title := notion.DatabaseTitle(db)
	if title == "" {
		title = "Untitled"
	}
	return fmt.Sprintf("%s (%s)", title, db.ID)
}

func schemaOf(db *notion.Database) []filter.Property {
	props := make([]filter.Property, len(db.Properties))
	for i, p := range db.Properties {
		props[i] = filter.Property{
			Name:    p.Name,
			Type:    filter.PropertyType(p.Type),
			Options: p.Options,
		}
	}
	return props
}
