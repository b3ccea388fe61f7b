package notion

// PageTitle returns the plain text of a page's title property, or "" when
// the page has no title property.
func PageTitle(o Object) string {
	for _, prop := range o.Properties {
		if prop.Type == "title" {
			return PlainText(prop.Title)
		}
	}
	return ""
}

// DatabaseTitle returns the plain text of a database's title.
func DatabaseTitle(o Object) string {
	return PlainText(o.Title)
}

// ObjectTitle picks the right title accessor for the object kind. Blocks
// report their text content.
func ObjectTitle(o Object) string {
	switch o.Object {
	case ObjectDatabase:
		return DatabaseTitle(o)
	case ObjectPage:
		return PageTitle(o)
	case ObjectBlock:
		return BlockPlainText(o)
	}
	return ""
}
