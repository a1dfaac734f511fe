// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package fixture

import (
	"net/url"
	"regexp"
	"strings"
)

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Query is an ordered list of query parameters. Unlike url.Values it keeps
// insertion order, so templates can reproduce the exact query string the
// console issues.
type Query []Param

// Add returns a new query with the parameter appended. The receiver is never
// mutated, so several queries can be derived from one base.
func (q Query) Add(key, value string) Query {
	return append(q[:len(q):len(q)], Param{Key: key, Value: value})
}

// Set replaces the value of key in place, or appends it when missing.
func (q Query) Set(key, value string) Query {
	out := make(Query, len(q))
	copy(out, q)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Param{Key: key, Value: value})
}

// Get returns the value of key.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Encode renders the query in order. Empty values keep their "key=" form.
func (q Query) Encode() string {
	parts := make([]string, 0, len(q))
	for _, p := range q {
		parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

// URLTemplate joins a path glob with an ordered query.
func URLTemplate(pathGlob string, q Query) string {
	if len(q) == 0 {
		return pathGlob
	}
	return pathGlob + "?" + q.Encode()
}

// Glob is a compiled URL pattern. "**" matches any run of characters,
// "*" matches any run without '/', every other character is literal,
// including '?', which lets query strings appear verbatim in patterns.
type Glob struct {
	pattern string
	re      *regexp.Regexp
}

// CompileGlob compiles a URL glob.
func CompileGlob(pattern string) *Glob {
	var b strings.Builder
	b.WriteString("^")
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '*' {
			if i+1 < len(runes) && runes[i+1] == '*' {
				b.WriteString(".*")
				i++
				continue
			}
			b.WriteString("[^/]*")
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(c)))
	}
	b.WriteString("$")
	return &Glob{pattern: pattern, re: regexp.MustCompile(b.String())}
}

// Match reports whether the full URL matches the pattern.
func (g *Glob) Match(rawURL string) bool {
	return g.re.MatchString(rawURL)
}

// String returns the source pattern.
func (g *Glob) String() string {
	return g.pattern
}
