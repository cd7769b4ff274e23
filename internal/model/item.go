package model

// ItemKind classifies the syntax items the declaration extractor cares about.
type ItemKind int

// Available ItemKind values.
const (
	ItemOther ItemKind = iota
	ItemFunction
	ItemModule
)

// Attribute is an outer attribute attached to an item, e.g. #[get("/x")].
type Attribute struct {
	// Path holds the attribute path segments: ["get"] or ["actix_web", "get"].
	Path []string
	// Literal is the single string-literal argument, valid when HasLiteral.
	Literal    string
	HasLiteral bool
}

// Item is a parser-independent view of a top-level or module-level item.
type Item struct {
	Kind       ItemKind
	Name       string
	Attributes []Attribute
	// Items holds the inner items of an inline module.
	Items []Item
}
