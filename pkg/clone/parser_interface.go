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

// FunctionExtractor extracts FunctionRefs from one file's source text.
// A parse failure (syntax error, unsupported construct) must not be
// fatal: implementations return a partial or empty slice rather than an
// error whenever the file can still be treated as "no functions found".
type FunctionExtractor interface {
	// Extract parses source and returns the functions/methods it
	// contains, in stable (declaration) order.
	Extract(file FileRef, source string) ([]FunctionRef, error)

	// Language reports which Language this extractor handles.
	Language() Language
}

// ExtractorForLanguage returns the extractor registered for lang, or the
// text fallback extractor if none is registered.
func ExtractorForLanguage(lang Language) FunctionExtractor {
	switch lang {
	case LangPython:
		return NewPythonExtractor()
	case LangGo:
		return NewGoExtractor()
	case LangTypeScript, LangJavaScript:
		return NewTypeScriptExtractor(lang)
	default:
		return NewTextExtractor()
	}
}

var (
	_ FunctionExtractor = (*PythonExtractor)(nil)
	_ FunctionExtractor = (*GoExtractor)(nil)
	_ FunctionExtractor = (*TypeScriptExtractor)(nil)
	_ FunctionExtractor = (*TextExtractor)(nil)
)
