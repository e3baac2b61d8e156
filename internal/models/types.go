package models

// LinkKind classifies an href or src value found in a wiki page.
type LinkKind int

const (
	LinkOther LinkKind = iota
	LinkExternal
	LinkInternalPage
	LinkAsset
	LinkFragment
)

func (k LinkKind) String() string {
	switch k {
	case LinkExternal:
		return "external"
	case LinkInternalPage:
		return "page"
	case LinkAsset:
		return "asset"
	case LinkFragment:
		return "fragment"
	default:
		return "other"
	}
}

// Redirect is one entry of the title redirect map.
type Redirect struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Stats counts the references rewritten in one page.
type Stats struct {
	Links       int `json:"links"`
	Images      int `json:"images"`
	Stylesheets int `json:"stylesheets"`
	Removed     int `json:"removed"`

	// Refs counts every anchor href by LinkKind name, before rewriting.
	Refs map[string]int `json:"refs,omitempty"`
}

// Result is the per-document record reported by the batch runner.
type Result struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Stats  *Stats `json:"stats,omitempty"`
	Error  string `json:"error,omitempty"`
}
