package classifier

import (
	"net/url"
	"regexp"
	"strings"

	"archwiki-offline/internal/models"
)

// AssetPrefix is the root-relative directory holding uploaded wiki files.
const AssetPrefix = "/images/"

var pageRe = regexp.MustCompile(`^/index.php/(.+?)(?:#(.+))?$`)

// Classifier recognizes wiki-internal references. Origins are the absolute
// site roots (no trailing slash) treated as root-relative.
type Classifier struct {
	origins []string
}

func New(origins ...string) *Classifier {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			out = append(out, o)
		}
	}
	return &Classifier{origins: out}
}

// Normalize percent-decodes ref and strips a known origin.
func (c *Classifier) Normalize(ref string) string {
	ref = Unquote(ref)
	for _, o := range c.origins {
		if strings.HasPrefix(ref, o+"/") {
			return ref[len(o):]
		}
	}
	return ref
}

// PageLink reports whether ref points at a wiki page and returns its title
// and the explicit fragment, if any.
func (c *Classifier) PageLink(ref string) (title, fragment string, ok bool) {
	m := pageRe.FindStringSubmatch(c.Normalize(ref))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Unquote decodes every valid %XX escape and copies malformed ones through.
// "+" is not a space. Bytes that do not form UTF-8 become U+FFFD.
func Unquote(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		buf = append(buf, s[i])
	}
	return strings.ToValidUTF8(string(buf), "\uFFFD")
}

func isHex(b byte) bool {
	return '0' <= b && b <= '9' || 'a' <= b && b <= 'f' || 'A' <= b && b <= 'F'
}

func unhex(b byte) byte {
	switch {
	case b >= 'a':
		return b - 'a' + 10
	case b >= 'A':
		return b - 'A' + 10
	}
	return b - '0'
}

// IsAsset reports whether src is a root-relative uploaded file.
func IsAsset(src string) bool {
	return strings.HasPrefix(src, AssetPrefix)
}

// AssetName returns the last path segment of an asset reference.
func AssetName(src string) string {
	return src[strings.LastIndex(src, "/")+1:]
}

func (c *Classifier) Classify(ref string) models.LinkKind {
	if _, _, ok := c.PageLink(ref); ok {
		return models.LinkInternalPage
	}
	n := c.Normalize(ref)
	switch {
	case IsAsset(n):
		return models.LinkAsset
	case strings.HasPrefix(n, "#"):
		return models.LinkFragment
	case strings.HasPrefix(n, "//"):
		return models.LinkExternal
	}
	if u, err := url.Parse(n); err == nil && u.Scheme != "" {
		return models.LinkExternal
	}
	return models.LinkOther
}
