package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	doctype = "<!DOCTYPE html>"
	indent  = "  "
)

// blockTags may be put on their own line without changing how a page renders.
var blockTags = map[string]bool{
	"html": true, "head": true, "body": true, "title": true, "meta": true,
	"link": true, "base": true, "style": true, "script": true, "noscript": true,
	"div": true, "p": true, "ul": true, "ol": true, "li": true, "dl": true,
	"dt": true, "dd": true, "table": true, "thead": true, "tbody": true,
	"tfoot": true, "tr": true, "th": true, "td": true, "caption": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "footer": true, "nav": true, "main": true, "section": true,
	"article": true, "aside": true, "form": true, "fieldset": true, "hr": true,
	"blockquote": true, "figure": true, "figcaption": true, "pre": true,
}

// verbatimTags keep their content exactly as parsed.
var verbatimTags = map[string]bool{
	"pre": true, "textarea": true, "script": true, "style": true,
}

// Render writes the document's root element preceded by an HTML5 doctype.
// Block containers holding only block children are indented, everything
// else is rendered as parsed.
func Render(w io.Writer, doc *goquery.Document) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(doctype)
	bw.WriteByte('\n')
	for _, root := range doc.Nodes {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if err := render(bw, c, 0); err != nil {
				return err
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func render(w *bufio.Writer, n *html.Node, depth int) error {
	if !indentable(n) {
		return html.Render(w, n)
	}
	writeStartTag(w, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			continue
		}
		w.WriteByte('\n')
		w.WriteString(strings.Repeat(indent, depth+1))
		if err := render(w, c, depth+1); err != nil {
			return err
		}
	}
	w.WriteByte('\n')
	w.WriteString(strings.Repeat(indent, depth))
	w.WriteString("</" + n.Data + ">")
	return nil
}

func indentable(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Namespace != "" || !blockTags[n.Data] || verbatimTags[n.Data] {
		return false
	}
	elems := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			if c.Namespace != "" || !blockTags[c.Data] {
				return false
			}
			elems++
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return false
			}
		case html.CommentNode:
		default:
			return false
		}
	}
	return elems > 0
}

func writeStartTag(w *bufio.Writer, n *html.Node) {
	w.WriteByte('<')
	w.WriteString(n.Data)
	for _, a := range n.Attr {
		w.WriteByte(' ')
		if a.Namespace != "" {
			w.WriteString(a.Namespace)
			w.WriteByte(':')
		}
		w.WriteString(a.Key)
		w.WriteString(`="`)
		w.WriteString(html.EscapeString(a.Val))
		w.WriteByte('"')
	}
	w.WriteByte('>')
}
