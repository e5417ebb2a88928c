// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package restyle

import "golang.org/x/net/html"

// Visitor is called for every node of a walk. Returning a non-nil node other
// than n replaces n in the tree; returning nil keeps n.
// A replacement must be detached (no parent or siblings).
type Visitor func(n *html.Node) *html.Node

// Walk visits n and its descendants in document order and returns the node
// that ends up in n's position. Children of replacements are walked too.
func Walk(n *html.Node, visit Visitor) *html.Node {
	if n == nil {
		return nil
	}

	if repl := visit(n); repl != nil && repl != n {
		if parent := n.Parent; parent != nil {
			parent.InsertBefore(repl, n)
			parent.RemoveChild(n)
		}
		n = repl
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, visit)
		c = next
	}
	return n
}
