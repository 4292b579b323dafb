package ast

// Walk performs a pre-order traversal, calling enter(node) for each node.
// If enter returns false, that node's children are not visited (spec.md
// §9's minimal visitor protocol: "enter(node) returning whether to
// descend").
func Walk(n Node, enter func(Node) bool) {
	if n == nil {
		return
	}
	if !enter(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, enter)
	}
}

// WalkPostOrder visits every descendant of n, then n itself, after all of
// n's children have been visited. Used by the polyfill detector (C11),
// whose fixed-point semantics ("first match wins" among still-searching
// polyfills) are defined over a node stream without regard to traversal
// order otherwise mattering, and by get_top_level_decls-alike helpers
// that process declarations bottom-up.
func WalkPostOrder(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	for _, c := range n.Children() {
		WalkPostOrder(c, visit)
	}
	visit(n)
}

// AllIdentifierNames collects every identifier name appearing anywhere in
// the tree — not merely top-level declarations. spec.md §9 requires this
// full collection for unique shim-name synthesis (dntShim, dntShim1, ...)
// so the generated name can never collide with any binding or reference
// in the source, nested scopes included.
func AllIdentifierNames(root Node) map[string]bool {
	names := make(map[string]bool)
	Walk(root, func(n Node) bool {
		if n.Kind() == KindIdentifier {
			names[n.Text()] = true
		}
		return true
	})
	return names
}

// UniqueName returns "base" if it's not in taken, else the first
// "base"+N (N = 1, 2, ...) not in taken.
func UniqueName(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for n := 1; ; n++ {
		candidate := base + itoa(n)
		if !taken[candidate] {
			return candidate
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
