package catalog

// Converter converts an HTML fragment to another text representation.
type Converter interface {
	// Convert transforms the HTML fragment, e.g. a product description, into Markdown.
	Convert(html string) (string, error)
}
