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
	"github.com/smacker/go-tree-sitter/python"
)

// PythonExtractor extracts FunctionRefs from Python source using
// Tree-sitter, mirroring the nested def/class qualified-name-stack
// walk of a Python ast.NodeVisitor (functions nested in classes become
// "Class.method", nested defs become "outer.inner").
//
// It does not retain the parsed tree: the tree is closed once the
// FunctionRefs are built, and the EXP call-expansion pass (expansion.go)
// parses function text again itself.
type PythonExtractor struct {
	parser *sitter.Parser
}

// NewPythonExtractor builds a PythonExtractor with the Python grammar.
func NewPythonExtractor() *PythonExtractor {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &PythonExtractor{parser: p}
}

func (e *PythonExtractor) Language() Language { return LangPython }

func (e *PythonExtractor) Extract(file FileRef, source string) ([]FunctionRef, error) {
	nodes, err := e.parseFunctionNodes(file, source)
	if err != nil {
		return nil, err
	}
	refs := make([]FunctionRef, len(nodes))
	for i, n := range nodes {
		refs[i] = n.Ref
	}
	return refs, nil
}

// pyFunctionNode pairs an extracted FunctionRef with its AST node and
// enclosing-class name. Extract keeps only the FunctionRef.
type pyFunctionNode struct {
	Ref      FunctionRef
	Node     *sitter.Node
	ClassName string // "" if not a method
}

// parseFunctionNodes parses source and returns every function/method
// definition in declaration order, depth-first, exactly the traversal
// order a recursive NodeVisitor with a name stack would produce.
func (e *PythonExtractor) parseFunctionNodes(file FileRef, source string) ([]pyFunctionNode, error) {
	content := []byte(source)
	tree, err := e.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse python source %s: %w", file.Path, err)
	}
	defer tree.Close()

	w := &pyWalker{content: content, path: file.Path}
	w.walk(tree.RootNode(), nil)
	return w.nodes, nil
}

type pyWalker struct {
	content []byte
	path    string
	stack   []string
	nodes   []pyFunctionNode
}

func (w *pyWalker) qualifiedName(name string) string {
	if len(w.stack) == 0 {
		return name
	}
	qn := ""
	for _, s := range w.stack {
		qn += s + "."
	}
	return qn + name
}

func (w *pyWalker) enclosingClass() string {
	if len(w.stack) == 0 {
		return ""
	}
	// Only meaningful if the immediate parent on the stack is a class;
	// callers only use this for direct methods, where that always holds
	// because functions nested inside functions are not "methods".
	return w.stack[len(w.stack)-1]
}

func (w *pyWalker) walk(node *sitter.Node, parentIsClass *bool) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "function_definition":
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			break
		}
		name := string(w.content[nameNode.StartByte():nameNode.EndByte()])
		className := ""
		if parentIsClass != nil && *parentIsClass && len(w.stack) > 0 {
			className = w.stack[len(w.stack)-1]
		}
		ref := FunctionRef{
			Path:          w.path,
			QualifiedName: w.qualifiedName(name),
			StartLine:     int(node.StartPoint().Row) + 1,
			EndLine:       int(node.EndPoint().Row) + 1,
			StartCol:      int(node.StartPoint().Column) + 1,
			EndCol:        int(node.EndPoint().Column) + 1,
			Language:      LangPython,
		}
		w.nodes = append(w.nodes, pyFunctionNode{Ref: ref, Node: node, ClassName: className})

		w.stack = append(w.stack, name)
		if body := node.ChildByFieldName("body"); body != nil {
			for i := 0; i < int(body.ChildCount()); i++ {
				w.walk(body.Child(i), nil)
			}
		}
		w.stack = w.stack[:len(w.stack)-1]
		return

	case "class_definition":
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			break
		}
		name := string(w.content[nameNode.StartByte():nameNode.EndByte()])
		w.stack = append(w.stack, name)
		isClass := true
		if body := node.ChildByFieldName("body"); body != nil {
			for i := 0; i < int(body.ChildCount()); i++ {
				w.walk(body.Child(i), &isClass)
			}
		}
		w.stack = w.stack[:len(w.stack)-1]
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(i), parentIsClass)
	}
}
