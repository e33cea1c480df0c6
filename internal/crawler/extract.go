package crawler

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/ecomsight/reviewlens/internal/models"
)

// ClassExtractor is a CardExtractor for listing pages where review cards and
// their text are addressable by CSS class names. Most storefront layouts the
// crawler targets fit this shape; anything fancier gets its own type.
type ClassExtractor struct {
	ProductID string
	CardClass string
	TextClass string
}

func (e ClassExtractor) ExtractCards(doc *html.Node) []models.Review {
	var reviews []models.Review

	for _, card := range elementsByClass(doc, e.CardClass) {
		text := e.cardText(card)
		if text == "" {
			continue
		}
		reviews = append(reviews, models.Review{
			ProductID: e.ProductID,
			Text:      text,
		})
	}

	return reviews
}

func (e ClassExtractor) cardText(card *html.Node) string {
	target := card
	if e.TextClass != "" {
		nodes := elementsByClass(card, e.TextClass)
		if len(nodes) == 0 {
			return ""
		}
		target = nodes[0]
	}
	return strings.Join(strings.Fields(nodeText(target)), " ")
}

// elementsByClass walks the subtree in document order and collects every
// element carrying the class.
func elementsByClass(n *html.Node, class string) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			found = append(found, n)
			// A matching element's descendants are part of this card.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
