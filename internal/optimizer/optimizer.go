package optimizer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"archwiki-offline/internal/classifier"
	"archwiki-offline/internal/models"
	"archwiki-offline/internal/parser"
)

// TitleResolver maps a page title to its canonical title, following
// redirects. A fragment may be appended as "Title#Fragment".
type TitleResolver interface {
	Resolve(title string) string
}

// PathMapper returns the local file of a page relative to relbase.
type PathMapper interface {
	LocalPath(title, relbase string) string
}

type ResolverFunc func(title string) string

func (f ResolverFunc) Resolve(title string) string { return f(title) }

type MapperFunc func(title, relbase string) string

func (f MapperFunc) LocalPath(title, relbase string) string { return f(title, relbase) }

type Options struct {
	// Stylesheet is the local CSS file every page links to, relative to the output root.
	Stylesheet string

	// ImagePrefix is prepended to the basename of mirrored images.
	ImagePrefix string

	// Origins are absolute site roots whose links are treated as root-relative.
	Origins []string

	// StripSelectors match navigation chrome removed with its subtree.
	StripSelectors []string
}

func DefaultOptions() Options {
	return Options{
		Stylesheet:     "ArchWikiOffline.css",
		ImagePrefix:    "File__",
		Origins:        []string{"https://wiki.archlinux.org", "http://wiki.archlinux.org"},
		StripSelectors: []string{"#archnavbar", "#mw-page-base", "#mw-head-base", "#mw-navigation"},
	}
}

// Optimizer rewrites wiki pages for offline browsing. It holds no per-page
// state; one Optimizer may serve concurrent calls if its collaborators can.
type Optimizer struct {
	resolver TitleResolver
	mapper   PathMapper
	root     string
	opts     Options
	parser   *parser.Parser
	links    *classifier.Classifier
}

// New returns an Optimizer writing pages below root. A relative root is
// made absolute against the working directory.
func New(resolver TitleResolver, mapper PathMapper, root string, opts Options) *Optimizer {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Optimizer{
		resolver: resolver,
		mapper:   mapper,
		root:     root,
		opts:     opts,
		parser:   parser.New(),
		links:    classifier.New(opts.Origins...),
	}
}

// Root returns the output root directory.
func (o *Optimizer) Root() string { return o.root }

// RelBase returns the slash-separated path from the directory of outputPath
// back to outputRoot.
// Relative arguments are taken against the working directory.
func RelBase(outputPath, outputRoot string) string {
	dir, err := filepath.Abs(filepath.Dir(outputPath))
	if err != nil {
		return "."
	}
	root, err := filepath.Abs(outputRoot)
	if err != nil {
		return "."
	}
	rel, err := filepath.Rel(dir, root)
	if err != nil {
		return "."
	}
	return filepath.ToSlash(rel)
}

func joinRel(relbase, name string) string {
	return strings.TrimSuffix(relbase, "/") + "/" + name
}

// Transform rewrites doc in place for a file written to outputPath under
// outputRoot.
func (o *Optimizer) Transform(doc *goquery.Document, outputPath, outputRoot string) (models.Stats, error) {
	var stats models.Stats
	relbase := RelBase(outputPath, outputRoot)

	stats.Removed = o.stripPage(doc)
	fixLayout(doc)
	dropped, err := o.replaceCSSLinks(doc, relbase)
	if err != nil {
		return stats, err
	}
	stats.Stylesheets = dropped
	o.updateLinks(doc, relbase, &stats)
	if err := fixFooter(doc); err != nil {
		return stats, err
	}
	return stats, nil
}

// Optimize parses r, transforms it for outputPath and returns the rendered page.
func (o *Optimizer) Optimize(r io.Reader, contentType, outputPath string) ([]byte, models.Stats, error) {
	doc, err := o.parser.Parse(r, contentType)
	if err != nil {
		return nil, models.Stats{}, err
	}
	stats, err := o.Transform(doc, outputPath, o.root)
	if err != nil {
		return nil, stats, err
	}
	var buf bytes.Buffer
	if err := parser.Render(&buf, doc); err != nil {
		return nil, stats, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), stats, nil
}

// OptimizeFile is Optimize followed by writing outputPath, creating its
// parent directories. Nothing is written when the page fails.
func (o *Optimizer) OptimizeFile(r io.Reader, contentType, outputPath string) (models.Stats, error) {
	out, stats, err := o.Optimize(r, contentType, outputPath)
	if err != nil {
		return stats, err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return stats, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}
	return stats, nil
}
