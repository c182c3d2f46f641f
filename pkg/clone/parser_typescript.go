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
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TypeScriptExtractor extracts FunctionRefs from TypeScript or
// JavaScript source: function declarations, methods, named function
// expressions/arrow functions assigned to a variable, and anonymous
// arrow functions (given a position-based "$anon_N" name).
type TypeScriptExtractor struct {
	parser *sitter.Parser
	lang   Language
}

// NewTypeScriptExtractor builds an extractor for lang, which must be
// LangTypeScript or LangJavaScript.
func NewTypeScriptExtractor(lang Language) *TypeScriptExtractor {
	p := sitter.NewParser()
	if lang == LangJavaScript {
		p.SetLanguage(javascript.GetLanguage())
	} else {
		p.SetLanguage(typescript.GetLanguage())
	}
	return &TypeScriptExtractor{parser: p, lang: lang}
}

func (e *TypeScriptExtractor) Language() Language { return e.lang }

func (e *TypeScriptExtractor) Extract(file FileRef, source string) ([]FunctionRef, error) {
	content := []byte(source)
	tree, err := e.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s source %s: %w", e.lang, file.Path, err)
	}
	defer tree.Close()

	ctx := &tsWalkCtx{content: content, path: file.Path, lang: e.lang}
	e.walk(tree.RootNode(), ctx)
	return ctx.refs, nil
}

type tsWalkCtx struct {
	content     []byte
	path        string
	lang        Language
	anonCounter int
	refs        []FunctionRef
}

func (e *TypeScriptExtractor) walk(node *sitter.Node, ctx *tsWalkCtx) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "function_declaration":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			name := string(ctx.content[nameNode.StartByte():nameNode.EndByte()])
			ctx.refs = append(ctx.refs, e.ref(node, ctx, name))
		}

	case "method_definition":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			name := string(ctx.content[nameNode.StartByte():nameNode.EndByte()])
			ctx.refs = append(ctx.refs, e.ref(node, ctx, name))
		}

	case "function_signature", "method_signature":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			name := string(ctx.content[nameNode.StartByte():nameNode.EndByte()])
			ctx.refs = append(ctx.refs, e.ref(node, ctx, name))
		}

	case "variable_declarator":
		nameNode := node.ChildByFieldName("name")
		valueNode := node.ChildByFieldName("value")
		if nameNode != nil && valueNode != nil {
			switch valueNode.Type() {
			case "arrow_function", "function_expression", "function":
				name := string(ctx.content[nameNode.StartByte():nameNode.EndByte()])
				ctx.refs = append(ctx.refs, e.ref(valueNode, ctx, name))
			}
		}

	case "arrow_function":
		if parent := node.Parent(); parent == nil || parent.Type() != "variable_declarator" {
			ctx.anonCounter++
			name := fmt.Sprintf("$anon_%d", ctx.anonCounter)
			ctx.refs = append(ctx.refs, e.ref(node, ctx, name))
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), ctx)
	}
}

func (e *TypeScriptExtractor) ref(node *sitter.Node, ctx *tsWalkCtx, name string) FunctionRef {
	return FunctionRef{
		Path:          ctx.path,
		QualifiedName: name,
		StartLine:     int(node.StartPoint().Row) + 1,
		EndLine:       int(node.EndPoint().Row) + 1,
		StartCol:      int(node.StartPoint().Column) + 1,
		EndCol:        int(node.EndPoint().Column) + 1,
		Language:      ctx.lang,
	}
}
