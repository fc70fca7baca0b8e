package layout

// Walk visits n and its descendants depth-first in paint order. Returning
// false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Find returns the first node with the given ID, or nil.
func Find(root *Node, id string) *Node {
	var found *Node
	Walk(root, func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node) bool {
		total++
		return true
	})
	return total
}

// Collect returns every node for which match reports true.
func Collect(root *Node, match func(*Node) bool) []*Node {
	var out []*Node
	Walk(root, func(n *Node) bool {
		if match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Prune removes every descendant of root for which drop reports true and
// returns the number of removed subtrees. The root itself is never removed.
func Prune(root *Node, drop func(*Node) bool) int {
	if root == nil {
		return 0
	}
	removed := 0
	kept := root.Children[:0]
	for _, c := range root.Children {
		if drop(c) {
			removed++
			continue
		}
		removed += Prune(c, drop)
		kept = append(kept, c)
	}
	for i := len(kept); i < len(root.Children); i++ {
		root.Children[i] = nil
	}
	root.Children = kept
	return removed
}
