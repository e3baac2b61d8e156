package wiki

import (
	"strings"

	"archwiki-offline/internal/models"
)

// maxHops bounds redirect chains.
const maxHops = 8

// RedirectMap resolves page titles through a redirect table. It is
// read-only after construction and safe for concurrent use.
type RedirectMap struct {
	targets map[string]string
}

func NewRedirectMap(redirects []models.Redirect) *RedirectMap {
	m := &RedirectMap{targets: make(map[string]string, len(redirects))}
	for _, r := range redirects {
		from := normalize(r.From)
		to := strings.TrimSpace(r.To)
		if from == "" || to == "" || from == normalize(to) {
			continue
		}
		m.targets[from] = to
	}
	return m
}

func (m *RedirectMap) Len() int { return len(m.targets) }

// Resolve returns the final target of title, which may carry a "#fragment".
// Titles without a redirect resolve to themselves. Cycles stop at the last
// title seen before repeating.
func (m *RedirectMap) Resolve(title string) string {
	cur := title
	seen := map[string]bool{normalize(title): true}
	for i := 0; i < maxHops; i++ {
		name, _, _ := strings.Cut(cur, "#")
		next, ok := m.targets[normalize(name)]
		if !ok {
			break
		}
		key := normalize(strings.SplitN(next, "#", 2)[0])
		if seen[key] {
			break
		}
		seen[key] = true
		cur = next
	}
	return cur
}

// normalize maps URL-style titles onto the stored form with spaces.
func normalize(title string) string {
	return strings.TrimSpace(strings.ReplaceAll(title, "_", " "))
}
