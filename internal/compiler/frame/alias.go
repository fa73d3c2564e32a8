package frame

// AliasSet holds the three pattern-variable names for a traversal
// (origin, relationship, destination) and implements the namespace
// resolution rules from spec.md §4.3.
//
// Customized is set by WithAliases as soon as at least one of the three
// names differs from the built-in literals "from", "rel", "to". Once it is
// set, the custom names are recognized as namespace tokens and take
// precedence over the built-in tokens on a collision; this holds for a
// partially customized triple too, which does not fall back to the
// built-in meaning of a colliding token.
type AliasSet struct {
	From, Rel, To string
	Customized    bool
}

// DefaultAliasSet returns the built-in (from, rel, to) alias triple.
func DefaultAliasSet() AliasSet {
	return AliasSet{From: "from", Rel: "rel", To: "to"}
}

// WithAliases returns a copy of a with the three pattern variables replaced
// and Customized set, provided at least one name differs from the default.
func (a AliasSet) WithAliases(from, rel, to string) AliasSet {
	a.From, a.Rel, a.To = from, rel, to
	a.Customized = from != "from" || rel != "rel" || to != "to"
	return a
}

// Tokens returns the set of leading "__"-separated tokens that should be
// recognized as a namespace prefix for this alias set: the three built-in
// names always, plus the three custom alias names when the triple has been
// customized.
func (a AliasSet) Tokens() map[string]bool {
	tokens := map[string]bool{"from": true, "rel": true, "to": true}
	if a.Customized {
		tokens[a.From] = true
		tokens[a.Rel] = true
		tokens[a.To] = true
	}
	return tokens
}

// Resolve maps a namespace token (as parsed from a predicate or projection
// field key) to the compiled pattern-variable name. An empty token (no
// namespace prefix given) resolves to the origin alias, matching §4.3 rule
// 3 ("the segment is treated as part of the field name and the default
// alias is used").
func (a AliasSet) Resolve(token string) string {
	if a.Customized {
		switch token {
		case a.From:
			return a.From
		case a.Rel:
			return a.Rel
		case a.To:
			return a.To
		}
	}
	switch token {
	case "from":
		return a.From
	case "rel":
		return a.Rel
	case "to":
		return a.To
	default:
		return a.From
	}
}
