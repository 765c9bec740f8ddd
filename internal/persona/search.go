package persona

import (
	"strings"

	"golang.org/x/text/cases"
)

// Search filters personas whose name, personality or description contains
// query, ignoring case. An empty query returns the input unchanged.
func Search(personas []Persona, query string) []Persona {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]Persona(nil), personas...)
	}
	fold := cases.Fold()
	needle := fold.String(query)
	var out []Persona
	for _, p := range personas {
		if strings.Contains(fold.String(p.Name), needle) ||
			strings.Contains(fold.String(p.Personality), needle) ||
			strings.Contains(fold.String(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}
