package content

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ItemKind tags a section content item.
type ItemKind int

const (
	KindText ItemKind = iota
	KindLink
)

func (k ItemKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLink:
		return "link"
	default:
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
}

// Item is either a paragraph of text or a hyperlink. The kind is fixed when
// the document is decoded, so renderers switch on Kind instead of probing
// fields.
type Item struct {
	Kind ItemKind
	Text string
	URL  string
}

// Text builds a paragraph item.
func Text(s string) Item { return Item{Kind: KindText, Text: s} }

// Link builds a hyperlink item.
func Link(text, url string) Item { return Item{Kind: KindLink, Text: text, URL: url} }

// IsLink is a template helper.
func (it Item) IsLink() bool { return it.Kind == KindLink }

// Reference returns the link form of the item.
func (it Item) Reference() (Reference, bool) {
	if it.Kind != KindLink {
		return Reference{}, false
	}
	return Reference{Text: it.Text, Link: it.URL}, true
}

// UnmarshalYAML accepts a scalar string or a {text, link} mapping.
func (it *Item) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*it = Text(s)
		return nil
	case yaml.MappingNode:
		var ref Reference
		if err := node.Decode(&ref); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		if ref.Link == "" {
			return fmt.Errorf("line %d: reference %q has no link", node.Line, ref.Text)
		}
		*it = Link(ref.Text, ref.Link)
		return nil
	default:
		return fmt.Errorf("line %d: content item must be a string or a {text, link} mapping", node.Line)
	}
}

// MarshalYAML writes the item back in the shape UnmarshalYAML reads.
func (it Item) MarshalYAML() (interface{}, error) {
	if it.Kind == KindLink {
		return Reference{Text: it.Text, Link: it.URL}, nil
	}
	return it.Text, nil
}
