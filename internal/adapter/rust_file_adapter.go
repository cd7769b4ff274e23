package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	m "routegen.dev/pkg/routegen/internal/model"
)

// Rust grammar node types the adapter inspects.
const (
	rustNodeAttributeItem      = "attribute_item"
	rustNodeInnerAttributeItem = "inner_attribute_item"
	rustNodeAttribute          = "attribute"
	rustNodeMetaItem           = "meta_item"
	rustNodeFunctionItem       = "function_item"
	rustNodeModItem            = "mod_item"
	rustNodeLineComment        = "line_comment"
	rustNodeBlockComment       = "block_comment"
	rustNodeTokenTree          = "token_tree"
	rustNodeMetaArguments      = "meta_arguments"
	rustNodeStringLiteral      = "string_literal"
	rustNodeRawStringLiteral   = "raw_string_literal"
	rustNodeError              = "ERROR"
)

// RustFileAdapter turns Rust source text into parser-independent syntax items.
// It is the only component that knows about the concrete parser.
type RustFileAdapter interface {
	// Parse returns the top-level items of src, or an error when src is not
	// syntactically valid Rust.
	Parse(ctx context.Context, path m.Path, src []byte) ([]m.Item, error)
}

// SyntaxError reports the first syntax error found in a file.
type SyntaxError struct {
	Path   m.Path
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error", e.Path, e.Line, e.Column)
}

// TreeSitterRustAdapter parses Rust with the tree-sitter Rust grammar. It is
// safe for concurrent use: every Parse call creates its own parser.
type TreeSitterRustAdapter struct{}

// NewTreeSitterRustAdapter constructs a TreeSitterRustAdapter.
func NewTreeSitterRustAdapter() *TreeSitterRustAdapter {
	return &TreeSitterRustAdapter{}
}

// Parse builds a syntax tree for src and converts its items.
func (a *TreeSitterRustAdapter) Parse(ctx context.Context, path m.Path, src []byte) ([]m.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if node := structuralError(root); node != nil {
			return nil, newSyntaxError(path, node)
		}

		// Newer syntax inside bodies (async closures, &raw, use<..> bounds)
		// is recovered locally and does not affect the items we read.
		slog.Debug("Recovered from syntax errors outside item headers", "path", path)
	}

	return convertItems(root, src), nil
}

func newSyntaxError(path m.Path, node *sitter.Node) *SyntaxError {
	point := node.StartPoint()

	return &SyntaxError{Path: path, Line: int(point.Row) + 1, Column: int(point.Column) + 1}
}

// structuralError returns the first error that breaks the item structure of
// container: an ERROR or MISSING node at item level, inside an attribute, or
// inside the name or parameter list of a function or module. Errors elsewhere
// in an item are tolerated.
func structuralError(container *sitter.Node) *sitter.Node {
	for i := 0; i < int(container.ChildCount()); i++ {
		child := container.Child(i)
		if child == nil {
			continue
		}

		if child.Type() == rustNodeError || child.IsMissing() {
			return child
		}

		if !child.HasError() {
			continue
		}

		switch child.Type() {
		case rustNodeAttributeItem, rustNodeInnerAttributeItem:
			return errorWithin(child)

		case rustNodeFunctionItem:
			if node := headerError(child, "name", "parameters"); node != nil {
				return node
			}

		case rustNodeModItem:
			if node := headerError(child, "name"); node != nil {
				return node
			}

			if body := child.ChildByFieldName("body"); body != nil {
				if node := structuralError(body); node != nil {
					return node
				}
			}
		}
	}

	return nil
}

func headerError(item *sitter.Node, fields ...string) *sitter.Node {
	for _, field := range fields {
		node := item.ChildByFieldName(field)
		if node == nil {
			return item
		}

		if node.IsMissing() || node.HasError() {
			return errorWithin(node)
		}
	}

	return nil
}

func errorWithin(node *sitter.Node) *sitter.Node {
	if found := firstErrorNode(node); found != nil {
		return found
	}

	return node
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.Type() == rustNodeError || node.IsMissing() {
		return node
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || (!child.HasError() && !child.IsMissing()) {
			continue
		}

		if found := firstErrorNode(child); found != nil {
			return found
		}
	}

	return nil
}

// convertItems walks the named children of a source_file or declaration_list.
// Outer attributes are sibling nodes preceding the item they decorate.
func convertItems(container *sitter.Node, src []byte) []m.Item {
	var (
		items   []m.Item
		pending []m.Attribute
	)

	for i := 0; i < int(container.NamedChildCount()); i++ {
		child := container.NamedChild(i)

		switch child.Type() {
		case rustNodeAttributeItem:
			if attr, ok := convertAttribute(child, src); ok {
				pending = append(pending, attr)
			}

		case rustNodeLineComment, rustNodeBlockComment, rustNodeInnerAttributeItem:
			continue

		case rustNodeFunctionItem:
			items = append(items, m.Item{
				Kind:       m.ItemFunction,
				Name:       fieldContent(child, "name", src),
				Attributes: append(pending, nestedAttributes(child, src)...),
			})
			pending = nil

		case rustNodeModItem:
			item := m.Item{
				Kind:       m.ItemModule,
				Name:       fieldContent(child, "name", src),
				Attributes: pending,
			}
			if body := child.ChildByFieldName("body"); body != nil {
				item.Items = convertItems(body, src)
			}

			items = append(items, item)
			pending = nil

		default:
			items = append(items, m.Item{Kind: m.ItemOther})
			pending = nil
		}
	}

	return items
}

// nestedAttributes covers grammar revisions that attach attributes as
// children of the item instead of preceding siblings.
func nestedAttributes(item *sitter.Node, src []byte) []m.Attribute {
	var attrs []m.Attribute

	for i := 0; i < int(item.NamedChildCount()); i++ {
		child := item.NamedChild(i)
		if child.Type() != rustNodeAttributeItem {
			continue
		}

		if attr, ok := convertAttribute(child, src); ok {
			attrs = append(attrs, attr)
		}
	}

	return attrs
}

func convertAttribute(attrItem *sitter.Node, src []byte) (m.Attribute, bool) {
	var attrNode *sitter.Node

	for i := 0; i < int(attrItem.NamedChildCount()); i++ {
		child := attrItem.NamedChild(i)
		if child.Type() == rustNodeAttribute || child.Type() == rustNodeMetaItem {
			attrNode = child
			break
		}
	}

	if attrNode == nil || attrNode.NamedChildCount() == 0 {
		return m.Attribute{}, false
	}

	attr := m.Attribute{Path: splitRustPath(attrNode.NamedChild(0).Content(src))}

	args := attrNode.ChildByFieldName("arguments")
	if args == nil {
		args = childOfType(attrNode, rustNodeTokenTree, rustNodeMetaArguments)
	}

	if args != nil {
		attr.Literal, attr.HasLiteral = singleStringLiteral(args, src)
	}

	return attr, true
}

func childOfType(node *sitter.Node, types ...string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		for _, t := range types {
			if child.Type() == t {
				return child
			}
		}
	}

	return nil
}

// singleStringLiteral succeeds only when the argument list is exactly one
// string literal, e.g. ("/user/{id}").
func singleStringLiteral(args *sitter.Node, src []byte) (string, bool) {
	var literal *sitter.Node

	count := 0

	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)

		switch child.Type() {
		case rustNodeLineComment, rustNodeBlockComment:
			continue
		case rustNodeStringLiteral, rustNodeRawStringLiteral:
			literal = child
		}

		count++
	}

	if count != 1 || literal == nil {
		return "", false
	}

	return decodeRustString(literal.Content(src))
}

// decodeRustString decodes "..." and r#"..."# literals. Byte strings are
// rejected.
func decodeRustString(text string) (string, bool) {
	if strings.HasPrefix(text, "r") {
		body := strings.TrimPrefix(text, "r")
		hashes := len(body) - len(strings.TrimLeft(body, "#"))
		body = body[hashes:]
		body = strings.TrimSuffix(body, strings.Repeat("#", hashes))

		if len(body) < 2 || body[0] != '"' || body[len(body)-1] != '"' {
			return "", false
		}

		return body[1 : len(body)-1], true
	}

	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", false
	}

	if unquoted, err := strconv.Unquote(text); err == nil {
		return unquoted, true
	}

	return text[1 : len(text)-1], true
}

func splitRustPath(text string) []string {
	parts := strings.Split(text, "::")
	segments := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		segments = append(segments, part)
	}

	return segments
}

func fieldContent(node *sitter.Node, field string, src []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}

	return child.Content(src)
}
