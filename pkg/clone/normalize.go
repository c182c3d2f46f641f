// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package clone

import (
	"context"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

var normalizeParser = sync.OnceValue(func() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return p
})

// Normalize canonicalizes snippet text before hashing/embedding.
//
// For Python, leading string-literal statements ("docstrings") at the
// top of a module, function, or class body are blanked out, the same
// transform ast.NodeTransformer-based docstring stripping performs,
// since two functions that differ only in their docstring should still
// be treated as duplicates. For every language, trailing whitespace is
// trimmed from each line and blank lines are preserved as empty lines
// (not removed), so byte-identical indentation differences don't change
// the hash in incidental ways. On a Python parse failure, the input is
// returned unchanged rather than erroring: normalization failures are
// never fatal to the pipeline.
func Normalize(source string, lang Language) string {
	text := source
	if lang == LangPython {
		stripped, ok := stripPythonDocstrings(source)
		if !ok {
			return source
		}
		text = stripped
	}
	return canonicalizeWhitespace(text)
}

func canonicalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return strings.Join(lines, "\n")
}

// stripPythonDocstrings blanks the first statement of the module body
// and of every function/class body when that statement is a bare
// string-literal expression. Byte ranges to blank are collected in a
// top-down walk, then applied from the highest start offset down so
// earlier offsets stay valid.
func stripPythonDocstrings(source string) (string, bool) {
	content := []byte(source)
	tree, err := normalizeParser().ParseCtx(context.Background(), nil, content)
	if err != nil {
		return source, false
	}
	defer tree.Close()

	var ranges [][2]uint32
	collectDocstringRanges(tree.RootNode(), &ranges)
	if len(ranges) == 0 {
		return source, true
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i][0] > ranges[j][0] })

	out := make([]byte, len(content))
	copy(out, content)
	for _, r := range ranges {
		start, end := r[0], r[1]
		blank := make([]byte, end-start)
		for i := range blank {
			if out[start+uint32(i)] == '\n' {
				blank[i] = '\n'
			} else {
				blank[i] = ' '
			}
		}
		out = append(out[:start], append(blank, out[end:]...)...)
	}
	return string(out), true
}

// collectDocstringRanges finds, for the module node and every
// function_definition/class_definition body, a leading expression
// statement whose sole child is a string literal, and records its byte
// range for blanking.
func collectDocstringRanges(node *sitter.Node, ranges *[][2]uint32) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "module":
		checkDocstringBody(node, ranges)
	case "function_definition", "class_definition":
		if body := node.ChildByFieldName("body"); body != nil {
			checkDocstringBody(body, ranges)
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectDocstringRanges(node.Child(i), ranges)
	}
}

func checkDocstringBody(body *sitter.Node, ranges *[][2]uint32) {
	if body == nil || body.ChildCount() == 0 {
		return
	}
	first := body.Child(0)
	if first.Type() != "expression_statement" || first.ChildCount() == 0 {
		return
	}
	inner := first.Child(0)
	if inner.Type() != "string" {
		return
	}
	*ranges = append(*ranges, [2]uint32{first.StartByte(), first.EndByte()})
}
