package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CellText returns the visible text of the first node in the selection
// with non-printable runes stripped and inner whitespace collapsed.
func CellText(sel *goquery.Selection) string {
	if len(sel.Nodes) == 0 {
		return ""
	}
	text := GetText(sel.Nodes[0])
	text = removeNonPrintable(text)
	return strings.Join(strings.Fields(text), " ")
}

// HasAnyClass reports whether the selection or any of its descendants
// carries the given class.
func HasAnyClass(sel *goquery.Selection, class string) bool {
	if sel.HasClass(class) {
		return true
	}
	return len(sel.Find("."+class).Nodes) > 0
}
