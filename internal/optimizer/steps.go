package optimizer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"archwiki-offline/internal/classifier"
	"archwiki-offline/internal/models"
)

const (
	selBodyContent = "#bodyContent"
	selLangBox     = "#p-lang"
	selLayout      = "#content, #footer"
	selStylesheets = `head > link[rel="stylesheet"]`
	selPrintFooter = "div.printfooter"
	selFooterInfo  = "#footer-info"
)

// stripPage removes elements that are useless offline and returns how many
// were removed. The language box is kept at the top of the body content.
func (o *Optimizer) stripPage(doc *goquery.Document) int {
	body := doc.Find(selBodyContent).First()
	lang := doc.Find(selLangBox).First()
	if body.Length() > 0 && lang.Length() > 0 {
		insertChild(body.Get(0), lang.Get(0), 0)
	}

	removed := 0
	if len(o.opts.StripSelectors) > 0 {
		chrome := doc.Find(strings.Join(o.opts.StripSelectors, ", "))
		removed += chrome.Length()
		chrome.Remove()
	}

	// comments mostly carry IE conditional markup
	removed += removeNodes(doc.Get(0), func(n *html.Node) bool {
		return n.Type == html.CommentNode
	})

	scripts := doc.Find("script")
	removed += scripts.Length()
	scripts.Remove()
	return removed
}

// fixLayout drops the margins that made room for the removed navigation.
func fixLayout(doc *goquery.Document) {
	doc.Find(selLayout).SetAttr("style", "margin: 0")
}

// replaceCSSLinks points the first stylesheet at the local copy and removes
// the others. It returns the number of removed links.
func (o *Optimizer) replaceCSSLinks(doc *goquery.Document, relbase string) (int, error) {
	links := doc.Find(selStylesheets)
	if links.Length() == 0 {
		return 0, &MissingExpectedElementError{Step: "replace css links", Selector: selStylesheets}
	}
	links.First().SetAttr("href", joinRel(relbase, o.opts.Stylesheet))
	rest := links.Slice(1, goquery.ToEnd)
	rest.Remove()
	return rest.Length(), nil
}

// updateLinks makes internal page links and uploaded images relative to the
// output file, counting what it sees in stats.
func (o *Optimizer) updateLinks(doc *goquery.Document, relbase string, stats *models.Stats) {
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		kind := o.links.Classify(href)
		if stats.Refs == nil {
			stats.Refs = make(map[string]int)
		}
		stats.Refs[kind.String()]++
		if kind != models.LinkInternalPage {
			return
		}
		title, explicit, _ := o.links.PageLink(href)
		canonical, fragment := o.resolve(title)
		if explicit != "" {
			fragment = explicit
		}
		href = o.mapper.LocalPath(canonical, relbase)
		if fragment != "" {
			href += "#" + fragment
		}
		a.SetAttr("href", href)
		stats.Links++
	})

	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if !classifier.IsAsset(src) {
			return
		}
		img.SetAttr("src", joinRel(relbase, o.opts.ImagePrefix+classifier.AssetName(src)))
		stats.Images++
	})
}

// resolve follows a redirect and splits off the fragment of its target.
// Redirect targets are stored title-like, so spaces become underscores.
func (o *Optimizer) resolve(title string) (canonical, fragment string) {
	target := o.resolver.Resolve(title)
	canonical, fragment, found := strings.Cut(target, "#")
	if !found {
		return target, ""
	}
	// TODO: MediaWiki dot-encodes anchors; underscores alone miss non-ASCII headings.
	return canonical, strings.ReplaceAll(fragment, " ", "_")
}

// fixFooter moves the print-only footer into the visible footer list.
func fixFooter(doc *goquery.Document) error {
	footers := doc.Find(selPrintFooter)
	if footers.Length() == 0 {
		return nil
	}
	list := doc.Find(selFooterInfo).First()
	if list.Length() == 0 {
		return &MissingExpectedElementError{Step: "fix footer", Selector: selFooterInfo}
	}
	parent := list.Get(0)
	footers.Each(func(_ int, pf *goquery.Selection) {
		pf.RemoveAttr("class")
		n := pf.Get(0)
		n.Data = "li"
		n.DataAtom = atom.Li
		if !insertChild(parent, n, 0) {
			return
		}
		insertChild(parent, &html.Node{Type: html.ElementNode, Data: "br", DataAtom: atom.Br}, 3)
	})
	return nil
}

// insertChild moves child to be the index-th element child of parent, or
// its last child when parent has fewer element children. It refuses to move
// a node into its own subtree.
func insertChild(parent, child *html.Node, index int) bool {
	for p := parent; p != nil; p = p.Parent {
		if p == child {
			return false
		}
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	i := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if i == index {
			parent.InsertBefore(child, c)
			return true
		}
		i++
	}
	parent.AppendChild(child)
	return true
}

// removeNodes detaches every descendant of root matching fn and returns the count.
func removeNodes(root *html.Node, fn func(*html.Node) bool) int {
	var matched []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if fn(c) {
				matched = append(matched, c)
				continue
			}
			walk(c)
		}
	}
	walk(root)
	for _, n := range matched {
		n.Parent.RemoveChild(n)
	}
	return len(matched)
}
