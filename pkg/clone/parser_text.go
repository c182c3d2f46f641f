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
	"path/filepath"
	"strings"
)

// TextExtractor treats the whole file as a single unit, used for any
// file whose language is not recognized as a source language ("text").
type TextExtractor struct{}

// NewTextExtractor builds the whole-file fallback extractor.
func NewTextExtractor() *TextExtractor { return &TextExtractor{} }

func (e *TextExtractor) Language() Language { return LangText }

func (e *TextExtractor) Extract(file FileRef, source string) ([]FunctionRef, error) {
	lineCount := strings.Count(source, "\n") + 1
	if source == "" {
		lineCount = 1
	}
	return []FunctionRef{{
		Path:          file.Path,
		QualifiedName: filepath.Base(file.Path),
		StartLine:     1,
		EndLine:       max(1, lineCount),
		StartCol:      1,
		EndCol:        1,
		Language:      LangText,
	}}, nil
}
