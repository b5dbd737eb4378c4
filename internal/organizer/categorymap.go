package organizer

import (
	"fmt"
	"sort"
	"strings"
)

// CategoryOthers is the implicit catch-all for files no rule matches.
const CategoryOthers = "Others"

// Rule binds a category name to the extensions it claims.
type Rule struct {
	Name       string
	Extensions []string
}

// CategoryMap is a validated, immutable mapping from lowercase file
// extensions to category names. When two rules claim the same extension the
// later rule wins.
type CategoryMap struct {
	order []string
	byExt map[string]string
}

// NewCategoryMap validates rules and builds the lookup table. An empty rule
// set is legal: every file then classifies as Others.
func NewCategoryMap(rules []Rule) (*CategoryMap, error) {
	m := &CategoryMap{byExt: make(map[string]string)}
	seen := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return nil, wrap(ErrConfig, "build category map", "category with empty name", nil)
		}
		if _, dup := seen[name]; dup {
			return nil, wrap(ErrConfig, "build category map", fmt.Sprintf("duplicate category %q", name), nil)
		}
		seen[name] = struct{}{}
		m.order = append(m.order, name)
		for _, ext := range rule.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
				return nil, wrap(ErrConfig, "build category map",
					fmt.Sprintf("category %q: extension %q must begin with '.'", name, ext), nil)
			}
			if strings.ContainsAny(ext, `/\`) {
				return nil, wrap(ErrConfig, "build category map",
					fmt.Sprintf("category %q: extension %q contains a path separator", name, ext), nil)
			}
			m.byExt[ext] = name
		}
	}
	return m, nil
}

// Classify maps a file name to its category. Matching is by exact lowercase
// extension; names without an extension fall into Others.
func (m *CategoryMap) Classify(name string) string {
	ext := ExtensionOf(name)
	if ext == "" {
		return CategoryOthers
	}
	if category, ok := m.byExt[ext]; ok {
		return category
	}
	return CategoryOthers
}

// Categories returns the category names in rule order.
func (m *CategoryMap) Categories() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Extensions returns the extensions currently won by the named category,
// sorted. Extensions claimed by a later rule do not appear.
func (m *CategoryMap) Extensions(name string) []string {
	var out []string
	for ext, category := range m.byExt {
		if category == name {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}

// IsCategory reports whether name is a known category or the Others
// catch-all. The scanner uses it to recognize the organizer's own output
// folders at the target root.
func (m *CategoryMap) IsCategory(name string) bool {
	if name == CategoryOthers {
		return true
	}
	for _, category := range m.order {
		if category == name {
			return true
		}
	}
	return false
}

// ExtensionOf returns the lowercase extension of a file name including the
// leading dot, or "" when the name has none. A name whose only dot leads
// (".bashrc") is extensionless, matching how dotfiles are conventionally
// named rather than typed.
func ExtensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx:])
}
