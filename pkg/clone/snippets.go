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
	"fmt"
	"strings"
)

// functionText slices the function's own source lines out of the full
// file source, 1-indexed inclusive.
func functionText(fileSource string, fn FunctionRef) string {
	lines := strings.Split(fileSource, "\n")
	start := fn.StartLine - 1
	end := fn.EndLine
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}

// GenerateFunctionSnippets produces one FUNC snippet per function,
// covering the whole function body.
func GenerateFunctionSnippets(functions []FunctionRef, fileSource map[string]string) []SnippetRef {
	var out []SnippetRef
	for _, fn := range functions {
		text := functionText(fileSource[fn.Path], fn)
		norm := Normalize(text, fn.Language)
		codeHash := hashText(text)
		hash := hashText(fmt.Sprintf("FUNC:%s:%d:%d:%s", fn.Path, fn.StartLine, fn.EndLine, codeHash))
		out = append(out, SnippetRef{
			ID:          snippetID(KindFunc, hash),
			Function:    fn,
			Kind:        KindFunc,
			Text:        text,
			NormText:    norm,
			StartLine:   fn.StartLine,
			EndLine:     fn.EndLine,
			SnippetHash: hash,
			CharLen:     len(norm),
		})
	}
	return out
}

// GenerateWindowSnippets produces sliding-window WIN snippets over each
// function's body: windows of params.WindowLines lines, advancing by
// params.StrideLines, keeping only windows with at least
// params.MinNonEmpty non-blank lines.
func GenerateWindowSnippets(functions []FunctionRef, fileSource map[string]string, params WindowConfig) ([]SnippetRef, error) {
	if params.WindowLines <= 0 {
		return nil, fmt.Errorf("window_lines must be > 0")
	}
	if params.StrideLines <= 0 {
		return nil, fmt.Errorf("stride_lines must be > 0")
	}

	var out []SnippetRef
	for _, fn := range functions {
		fnText := functionText(fileSource[fn.Path], fn)
		if fnText == "" {
			continue
		}
		codeHash := hashText(fnText)
		lines := strings.Split(fnText, "\n")

		idx := 0
		for idx < len(lines) {
			start := idx + 1
			end := params.WindowLines + idx
			if end > len(lines) {
				end = len(lines)
			}
			windowLines := lines[start-1 : end]
			nonEmpty := 0
			for _, l := range windowLines {
				if strings.TrimSpace(l) != "" {
					nonEmpty++
				}
			}
			if nonEmpty >= params.MinNonEmpty {
				out = append(out, makeWindowSnippet(fn, fnText, codeHash, start, end, lines))
			}
			idx += params.StrideLines
		}
	}
	return out, nil
}

func makeWindowSnippet(fn FunctionRef, fnText, codeHash string, start, end int, lines []string) SnippetRef {
	text := strings.Join(lines[start-1:end], "\n")
	norm := Normalize(text, fn.Language)
	hash := hashText(fmt.Sprintf("WIN:%s:%d:%d:%s:%d:%d:%s",
		fn.Path, fn.StartLine, fn.EndLine, codeHash, start, end, norm))
	return SnippetRef{
		ID:          snippetID(KindWin, hash),
		Function:    fn,
		Kind:        KindWin,
		Text:        text,
		NormText:    norm,
		StartLine:   fn.StartLine + start - 1,
		EndLine:     fn.StartLine + end - 1,
		SnippetHash: hash,
		CharLen:     len(norm),
	}
}
