// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package restyle rewrites post HTML so that every known element carries
// the presentation class the front-end stylesheet expects.
package restyle

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Mapping maps an HTML tag name to the class attribute it should carry.
type Mapping map[string]string

// Clone returns an independent copy of m.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for tag, class := range m {
		out[tag] = class
	}
	return out
}

var defaultMapping = Mapping{
	"h1":         "mt-2 scroll-m-20 text-4xl font-bold tracking-tight",
	"h2":         "mt-10 scroll-m-20 border-b pb-1 text-3xl font-semibold tracking-tight first:mt-0",
	"h3":         "mt-8 scroll-m-20 text-2xl font-semibold tracking-tight",
	"h4":         "mt-8 scroll-m-20 text-xl font-semibold tracking-tight",
	"h5":         "mt-8 scroll-m-20 text-lg font-semibold tracking-tight",
	"h6":         "mt-8 scroll-m-20 text-base font-semibold tracking-tight",
	"a":          "font-medium underline underline-offset-4",
	"p":          "leading-7 [&:not(:first-child)]:mt-6",
	"ul":         "my-6 ml-6 list-disc",
	"ol":         "my-6 ml-6 list-decimal",
	"li":         "mt-2",
	"blockquote": "mt-6 border-l-2 pl-6 italic [&>*]:text-muted-foreground",
	"img":        "rounded-md border",
	"hr":         "my-4 md:my-8",
	"table":      "w-full",
	"tr":         "m-0 border-t p-0 even:bg-muted",
	"th":         "border px-4 py-2 text-left font-bold [&[align=center]]:text-center [&[align=right]]:text-right",
	"td":         "border px-4 py-2 text-left [&[align=center]]:text-center [&[align=right]]:text-right",
	"pre":        "mb-4 mt-6 overflow-x-auto rounded-lg border bg-black py-4",
	"code":       "relative rounded border px-[0.3rem] py-[0.2rem] font-mono text-sm",
}

// DefaultMapping returns a copy of the built-in tag to class table.
func DefaultMapping() Mapping {
	return defaultMapping.Clone()
}

// Restyler applies a Mapping to HTML fragments. It is safe for concurrent use.
type Restyler struct {
	mapping Mapping
}

// New creates a Restyler. A nil mapping means DefaultMapping.
func New(mapping Mapping) *Restyler {
	if mapping == nil {
		mapping = DefaultMapping()
	} else {
		mapping = mapping.Clone()
	}
	return &Restyler{mapping: mapping}
}

// Restyle parses fragment as body content, sets the mapped class on every
// matching element and renders the result.
func (r *Restyler) Restyle(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return fragment, nil
	}

	body := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("parsing fragment: %w", err)
	}

	visit := r.Visitor()
	var buf bytes.Buffer
	for _, n := range nodes {
		n = Walk(n, visit)
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("rendering fragment: %w", err)
		}
	}
	return buf.String(), nil
}

// Visitor returns the visitor that sets mapped classes in place.
func (r *Restyler) Visitor() Visitor {
	return func(n *html.Node) *html.Node {
		if n.Type != html.ElementNode || n.Namespace != "" {
			return nil
		}
		if class, ok := r.mapping[n.Data]; ok {
			setAttr(n, "class", class)
		}
		return nil
	}
}

// setAttr overwrites key in place, or appends it when missing.
func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
