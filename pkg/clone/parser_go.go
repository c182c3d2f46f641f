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
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// GoExtractor extracts FunctionRefs from Go source using Tree-sitter,
// mirroring the function/method/receiver-qualified naming the ingestion
// parser uses, trimmed to the clone-detection shape (no types, no call
// graph).
type GoExtractor struct {
	parser *sitter.Parser
}

// NewGoExtractor builds a GoExtractor with the Go tree-sitter grammar.
func NewGoExtractor() *GoExtractor {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	return &GoExtractor{parser: p}
}

func (e *GoExtractor) Language() Language { return LangGo }

// Extract walks the Go AST and returns one FunctionRef per top-level
// function, method, or (uniquely-named) function literal.
func (e *GoExtractor) Extract(file FileRef, source string) ([]FunctionRef, error) {
	content := []byte(source)
	tree, err := e.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse go source %s: %w", file.Path, err)
	}
	defer tree.Close()

	ctx := &goWalkCtx{content: content, path: file.Path}
	e.walk(tree.RootNode(), ctx)
	return ctx.refs, nil
}

type goWalkCtx struct {
	content     []byte
	path        string
	anonCounter int
	refs        []FunctionRef
}

func (e *GoExtractor) walk(node *sitter.Node, ctx *goWalkCtx) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "function_declaration":
		if ref := e.extractFuncDecl(node, ctx); ref != nil {
			ctx.refs = append(ctx.refs, *ref)
		}
	case "method_declaration":
		if ref := e.extractMethodDecl(node, ctx); ref != nil {
			ctx.refs = append(ctx.refs, *ref)
		}
	case "func_literal":
		if ref := e.extractFuncLiteral(node, ctx); ref != nil {
			ctx.refs = append(ctx.refs, *ref)
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), ctx)
	}
}

func (e *GoExtractor) extractFuncDecl(node *sitter.Node, ctx *goWalkCtx) *FunctionRef {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := string(ctx.content[nameNode.StartByte():nameNode.EndByte()])
	return e.toRef(node, ctx, name)
}

func (e *GoExtractor) extractMethodDecl(node *sitter.Node, ctx *goWalkCtx) *FunctionRef {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	methodName := string(ctx.content[nameNode.StartByte():nameNode.EndByte()])

	receiverType := ""
	if recvNode := node.ChildByFieldName("receiver"); recvNode != nil {
		receiverType = goReceiverType(recvNode, ctx.content)
	}

	fullName := methodName
	if receiverType != "" {
		fullName = receiverType + "." + methodName
	}
	return e.toRef(node, ctx, fullName)
}

func (e *GoExtractor) extractFuncLiteral(node *sitter.Node, ctx *goWalkCtx) *FunctionRef {
	ctx.anonCounter++
	name := fmt.Sprintf("$anon_%d", ctx.anonCounter)
	return e.toRef(node, ctx, name)
}

func (e *GoExtractor) toRef(node *sitter.Node, ctx *goWalkCtx, name string) *FunctionRef {
	return &FunctionRef{
		Path:          ctx.path,
		QualifiedName: name,
		StartLine:     int(node.StartPoint().Row) + 1,
		EndLine:       int(node.EndPoint().Row) + 1,
		StartCol:      int(node.StartPoint().Column) + 1,
		EndCol:        int(node.EndPoint().Column) + 1,
		Language:      LangGo,
	}
}

// goReceiverType extracts the base type name from a method receiver,
// stripping pointer and generic-parameter decoration: *Server -> Server,
// Server[T] -> Server.
func goReceiverType(receiverNode *sitter.Node, content []byte) string {
	for i := 0; i < int(receiverNode.ChildCount()); i++ {
		child := receiverNode.Child(i)
		if child.Type() == "parameter_declaration" {
			if typeNode := child.ChildByFieldName("type"); typeNode != nil {
				return goBaseTypeName(typeNode, content)
			}
		}
	}
	return ""
}

func goBaseTypeName(typeNode *sitter.Node, content []byte) string {
	if typeNode == nil {
		return ""
	}
	switch typeNode.Type() {
	case "pointer_type":
		for i := 0; i < int(typeNode.ChildCount()); i++ {
			child := typeNode.Child(i)
			if child.Type() != "*" {
				return goBaseTypeName(child, content)
			}
		}
		return ""
	case "generic_type":
		if nameNode := typeNode.ChildByFieldName("type"); nameNode != nil {
			return goBaseTypeName(nameNode, content)
		}
		return ""
	default:
		return string(content[typeNode.StartByte():typeNode.EndByte()])
	}
}

// goSimpleName strips a "Type.Method" qualifier down to "Method", used
// by best-effort EXP call resolution for Go functions.
func goSimpleName(fullName string) string {
	if idx := strings.LastIndex(fullName, "."); idx >= 0 {
		return fullName[idx+1:]
	}
	return fullName
}
