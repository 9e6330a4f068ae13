// Package query holds storage-neutral filter and ordering values that
// repositories translate into SQL.
package query

import "strings"

// Predicate is a boolean condition over one table. The zero value matches
// every row.
type Predicate struct {
	SQL  string
	Args []any
}

func (p Predicate) Empty() bool { return strings.TrimSpace(p.SQL) == "" }

// And folds the non-empty predicates into a single conjunction.
func And(ps ...Predicate) Predicate { return join(" AND ", ps) }

// Or folds the non-empty predicates into a single disjunction.
func Or(ps ...Predicate) Predicate { return join(" OR ", ps) }

func join(op string, ps []Predicate) Predicate {
	kept := make([]Predicate, 0, len(ps))
	for _, p := range ps {
		if !p.Empty() {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return Predicate{}
	case 1:
		return kept[0]
	}
	parts := make([]string, 0, len(kept))
	var args []any
	for _, p := range kept {
		parts = append(parts, "("+p.SQL+")")
		args = append(args, p.Args...)
	}
	return Predicate{SQL: strings.Join(parts, op), Args: args}
}

// Eq matches column = value.
func Eq(column string, value any) Predicate {
	return Predicate{SQL: column + " = ?", Args: []any{value}}
}

// NotEq matches column <> value.
func NotEq(column string, value any) Predicate {
	return Predicate{SQL: column + " <> ?", Args: []any{value}}
}

// EqualFold matches column against value ignoring case. An empty value
// yields the empty predicate.
func EqualFold(column, value string) Predicate {
	v := strings.TrimSpace(value)
	if v == "" {
		return Predicate{}
	}
	return Predicate{SQL: "LOWER(" + column + ") = ?", Args: []any{strings.ToLower(v)}}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains is a case-insensitive substring match. Null columns never match.
// LIKE wildcards in term match literally. An empty term yields the empty
// predicate.
func Contains(column, term string) Predicate {
	t := strings.TrimSpace(term)
	if t == "" {
		return Predicate{}
	}
	return Predicate{
		SQL:  column + " IS NOT NULL AND LOWER(" + column + `) LIKE ? ESCAPE '\'`,
		Args: []any{"%" + likeEscaper.Replace(strings.ToLower(t)) + "%"},
	}
}

// ContainsAny matches when term is contained in any of the columns.
func ContainsAny(term string, columns ...string) Predicate {
	ps := make([]Predicate, 0, len(columns))
	for _, c := range columns {
		ps = append(ps, Contains(c, term))
	}
	return Or(ps...)
}
