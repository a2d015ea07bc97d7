package normalize

import (
	"strings"

	"PriceDigest/internal/model"
)

// ResolveColumns maps raw column labels to semantic roles. Exact matches win
// over substring matches; within each pass the first label in order wins.
// It fails with ErrUnresolvableColumn when no label can serve as the close.
func ResolveColumns(labels []string) (model.ColumnMap, error) {
	m := make(model.ColumnMap, len(model.Roles))
	MatchExact(m, labels)
	MatchSubstring(m, labels)
	if _, ok := m[model.RoleClose]; !ok {
		return m, &PipelineError{Kind: ErrUnresolvableColumn, Columns: append([]string{}, labels...)}
	}
	return m, nil
}

// MatchExact assigns each unassigned role the first label whose lower-cased
// form equals the role name.
func MatchExact(m model.ColumnMap, labels []string) {
	match(m, labels, func(name string, role model.Role) bool {
		return name == string(role)
	})
}

// MatchSubstring assigns each unassigned role the first label whose
// lower-cased form contains the role name.
func MatchSubstring(m model.ColumnMap, labels []string) {
	match(m, labels, func(name string, role model.Role) bool {
		return strings.Contains(name, string(role))
	})
}

func match(m model.ColumnMap, labels []string, fn func(name string, role model.Role) bool) {
	for _, role := range model.Roles {
		if _, ok := m[role]; ok {
			continue
		}
		for _, label := range labels {
			if fn(strings.ToLower(label), role) {
				m[role] = label
				break
			}
		}
	}
}
