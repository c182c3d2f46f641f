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
	"path"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// classAndModule names a resolved class: (moduleFile, className). An
// empty moduleFile means "defined in the current file".
type classAndModule struct {
	moduleFile string
	className  string
}

// callRef is one `name(...)`, `obj.attr(...)`, or `Ctor(...).attr(...)`
// call form found in a function body.
type callRef struct {
	kind string // "name", "attr", "ctor"
	base string
	name string
}

// importMap is the per-file alias table built from import/from-import
// statements, resolved against the set of locally-collected files.
type importMap struct {
	moduleAliases   map[string]string            // alias -> module file path
	functionAliases map[string][2]string         // alias -> (module file path, orig name)
	classAliases    map[string][2]string          // alias -> (module file path, orig name)
}

// ExpandCalls generates EXP snippets for every Python function by
// inlining the bodies of functions/methods it statically calls, up to
// expansion.MaxDepth hops, bounded by expansion.MaxChars. Non-Python
// functions get a reduced same-file, name-only expansion (see
// expandGoLike) since cross-module import aliasing is a Python-only
// concept in this pipeline.
func ExpandCalls(functions []FunctionRef, fileSource map[string]string, expansion ExpansionConfig) []SnippetRef {
	if expansion.MaxDepth <= 0 {
		return nil
	}

	byFile := map[string][]FunctionRef{}
	for _, fn := range functions {
		byFile[fn.Path] = append(byFile[fn.Path], fn)
	}

	moduleNameMap := buildModuleNameMap(byFile)
	moduleFunctions := map[string]map[string]FunctionRef{}
	moduleQualified := map[string]map[string]FunctionRef{}
	moduleClasses := map[string]map[string]bool{}
	moduleFactories := map[string]map[string]string{}
	for filePath, fns := range byFile {
		moduleFunctions[filePath] = nameMap(fns)
		moduleQualified[filePath] = qualifiedMap(fns)
		moduleClasses[filePath] = classNamesOf(qualifiedMap(fns))
		moduleFactories[filePath] = factoryMapForFunctions(fns, fileSource)
	}

	var localFiles []string
	for p := range byFile {
		localFiles = append(localFiles, p)
	}
	sort.Strings(localFiles)

	var out []SnippetRef
	for _, filePath := range localFiles {
		fns := byFile[filePath]
		if detectLanguageFromPath(filePath) != LangPython {
			out = append(out, expandGoLike(fns, fileSource, expansion)...)
			continue
		}

		nMap := nameMap(fns)
		qMap := qualifiedMap(fns)
		cNames := classNamesOf(qMap)
		imports := collectImports(filePath, fileSource[filePath], localFiles)

		for _, fn := range fns {
			expandedText, helpers := expandOneFunction(
				fn, fileSource, nMap, qMap, cNames, imports,
				moduleNameMap, moduleFunctions, moduleQualified, moduleClasses, moduleFactories,
				expansion)
			if len(helpers) == 0 {
				continue
			}
			norm := Normalize(expandedText, LangPython)
			fnText := functionText(fileSource[filePath], fn)
			codeHash := hashText(fnText)
			hash := hashText(fmt.Sprintf("EXP:%s:%d:%d:%s:%s:%d:%d:%s",
				fn.Path, fn.StartLine, fn.EndLine, codeHash, strings.Join(helpers, ","),
				expansion.MaxDepth, expansion.MaxChars, norm))
			out = append(out, SnippetRef{
				ID:          snippetID(KindExp, hash),
				Function:    fn,
				Kind:        KindExp,
				Text:        expandedText,
				NormText:    norm,
				StartLine:   fn.StartLine,
				EndLine:     fn.EndLine,
				SnippetHash: hash,
				CharLen:     len(norm),
			})
		}
	}
	return out
}

func detectLanguageFromPath(p string) Language { return detectLanguage(p) }

func nameMap(fns []FunctionRef) map[string]FunctionRef {
	m := map[string]FunctionRef{}
	for _, fn := range fns {
		parts := strings.Split(fn.QualifiedName, ".")
		m[parts[len(parts)-1]] = fn
	}
	return m
}

func qualifiedMap(fns []FunctionRef) map[string]FunctionRef {
	m := map[string]FunctionRef{}
	for _, fn := range fns {
		m[fn.QualifiedName] = fn
	}
	return m
}

func classNamesOf(qualified map[string]FunctionRef) map[string]bool {
	names := map[string]bool{}
	for qn := range qualified {
		parts := strings.Split(qn, ".")
		if len(parts) >= 2 {
			names[parts[len(parts)-2]] = true
		}
	}
	return names
}

func classNameOfFunction(fn FunctionRef) string {
	parts := strings.Split(fn.QualifiedName, ".")
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return ""
}

func expandOneFunction(
	fn FunctionRef,
	fileSource map[string]string,
	nameMap, qualifiedMap map[string]FunctionRef,
	classNames map[string]bool,
	imports importMap,
	moduleNameMap map[string]string,
	moduleFunctions, moduleQualified map[string]map[string]FunctionRef,
	moduleClasses map[string]map[string]bool,
	moduleFactories map[string]map[string]string,
	expansion ExpansionConfig,
) (string, []string) {
	var helpers []string
	fnText := functionText(fileSource[fn.Path], fn)
	expanded := fnText
	frontier := []FunctionRef{fn}
	visited := map[string]bool{fn.Identity(): true}
	className := classNameOfFunction(fn)

	factoryMap := moduleFactories[fn.Path]
	localClassMap := buildLocalClassMap(
		fn, fileSource, classNames, factoryMap, imports, moduleNameMap, moduleFactories, moduleClasses)

	for depth := 0; depth < expansion.MaxDepth; depth++ {
		var next []FunctionRef
		for _, cur := range frontier {
			curText := functionText(fileSource[cur.Path], cur)
			for _, call := range collectCalls(curText) {
				helper := resolveCall(call, nameMap, qualifiedMap, classNames, imports,
					moduleNameMap, moduleFunctions, moduleQualified, className, localClassMap)
				if helper == nil {
					continue
				}
				if visited[helper.Identity()] {
					continue
				}
				helperText := functionText(fileSource[helper.Path], *helper)
				addition := fmt.Sprintf("\n\n# expanded:%s\n%s", helper.QualifiedName, helperText)
				if len(expanded)+len(addition) > expansion.MaxChars {
					continue
				}
				visited[helper.Identity()] = true
				helpers = append(helpers, helper.QualifiedName)
				expanded += addition
				next = append(next, *helper)
			}
		}
		frontier = next
	}
	return expanded, helpers
}

// collectCalls parses source as a Python snippet and returns the
// distinct static call forms found anywhere in it, in the order first
// seen.
func collectCalls(source string) []callRef {
	seen := map[callRef]bool{}
	var calls []callRef
	tree, err := parsePythonSnippet(source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	content := []byte(source)
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "call" {
			if fn := n.ChildByFieldName("function"); fn != nil {
				if c := callFromNode(fn, content); c != nil && !seen[*c] {
					seen[*c] = true
					calls = append(calls, *c)
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return calls
}

func callFromNode(node *sitter.Node, content []byte) *callRef {
	switch node.Type() {
	case "identifier":
		return &callRef{kind: "name", name: string(content[node.StartByte():node.EndByte()])}
	case "attribute":
		obj := node.ChildByFieldName("object")
		attr := node.ChildByFieldName("attribute")
		if obj == nil || attr == nil {
			return nil
		}
		attrName := string(content[attr.StartByte():attr.EndByte()])
		if obj.Type() == "identifier" {
			return &callRef{kind: "attr", base: string(content[obj.StartByte():obj.EndByte()]), name: attrName}
		}
		if obj.Type() == "call" {
			if innerFn := obj.ChildByFieldName("function"); innerFn != nil && innerFn.Type() == "identifier" {
				return &callRef{kind: "ctor", base: string(content[innerFn.StartByte():innerFn.EndByte()]), name: attrName}
			}
		}
	}
	return nil
}

func resolveCall(
	call callRef,
	nameMap, qualifiedMap map[string]FunctionRef,
	classNames map[string]bool,
	imports importMap,
	moduleNameMap map[string]string,
	moduleFunctions, moduleQualified map[string]map[string]FunctionRef,
	className string,
	localClassMap map[string]classAndModule,
) *FunctionRef {
	switch call.kind {
	case "name":
		if fn, ok := nameMap[call.name]; ok {
			return &fn
		}
		if alias, ok := imports.functionAliases[call.name]; ok {
			return resolveFromModuleFunctions(alias[0], alias[1], moduleNameMap, moduleFunctions)
		}
		return nil

	case "attr":
		if (call.base == "self" || call.base == "cls") && className != "" {
			if fn, ok := qualifiedMap[className+"."+call.name]; ok {
				return &fn
			}
			return nil
		}
		if cm, ok := localClassMap[call.base]; ok {
			if cm.moduleFile == "" {
				if fn, ok := qualifiedMap[cm.className+"."+call.name]; ok {
					return &fn
				}
				return nil
			}
			return resolveClassMethod(cm.moduleFile, cm.className, call.name, moduleNameMap, moduleQualified)
		}
		if modPath, ok := imports.moduleAliases[call.base]; ok {
			return resolveFromModuleFunctions(modPath, call.name, moduleNameMap, moduleFunctions)
		}
		return nil

	case "ctor":
		if classNames[call.base] {
			if fn, ok := qualifiedMap[call.base+"."+call.name]; ok {
				return &fn
			}
		}
		if alias, ok := imports.classAliases[call.base]; ok {
			return resolveClassMethod(alias[0], alias[1], call.name, moduleNameMap, moduleQualified)
		}
	}
	return nil
}

func resolveFromModuleFunctions(modulePath, name string, moduleNameMap map[string]string, moduleFunctions map[string]map[string]FunctionRef) *FunctionRef {
	filePath, ok := resolveModulePathToFile(modulePath, moduleNameMap)
	if !ok {
		return nil
	}
	fns, ok := moduleFunctions[filePath]
	if !ok {
		return nil
	}
	if fn, ok := fns[name]; ok {
		return &fn
	}
	return nil
}

func resolveClassMethod(modulePath, className, methodName string, moduleNameMap map[string]string, moduleQualified map[string]map[string]FunctionRef) *FunctionRef {
	filePath, ok := resolveModulePathToFile(modulePath, moduleNameMap)
	if !ok {
		return nil
	}
	qmap, ok := moduleQualified[filePath]
	if !ok {
		return nil
	}
	if fn, ok := qmap[className+"."+methodName]; ok {
		return &fn
	}
	return nil
}

func resolveModulePathToFile(modulePath string, moduleNameMap map[string]string) (string, bool) {
	base := path.Base(modulePath)
	if f, ok := moduleNameMap[base]; ok {
		return f, true
	}
	stem := strings.TrimSuffix(base, path.Ext(base))
	if f, ok := moduleNameMap[stem]; ok {
		return f, true
	}
	return "", false
}

func buildModuleNameMap(byFile map[string][]FunctionRef) map[string]string {
	paths := make([]string, 0, len(byFile))
	for filePath := range byFile {
		paths = append(paths, filePath)
	}
	sort.Strings(paths)
	m := map[string]string{}
	for _, filePath := range paths {
		base := path.Base(filePath)
		stem := strings.TrimSuffix(base, path.Ext(base))
		m[base] = filePath
		m[stem] = filePath
	}
	return m
}

// collectImports parses a Python file's top-level import statements and
// resolves any that name another locally-collected file, building the
// alias tables used by resolveCall.
func collectImports(filePath, source string, localFiles []string) importMap {
	im := importMap{
		moduleAliases:   map[string]string{},
		functionAliases: map[string][2]string{},
		classAliases:    map[string][2]string{},
	}
	tree, err := parsePythonSnippet(source)
	if err != nil {
		return im
	}
	defer tree.Close()

	content := []byte(source)
	root := tree.RootNode()
	baseDir := path.Dir(filePath)

	for i := 0; i < int(root.ChildCount()); i++ {
		stmt := root.Child(i)
		switch stmt.Type() {
		case "import_statement":
			for j := 0; j < int(stmt.ChildCount()); j++ {
				child := stmt.Child(j)
				if child.Type() == "dotted_name" {
					modName := string(content[child.StartByte():child.EndByte()])
					if mp, ok := resolveLocalModule(baseDir, modName, localFiles); ok {
						alias := lastDotted(modName)
						im.moduleAliases[alias] = mp
					}
				}
				if child.Type() == "aliased_import" {
					nameNode := child.ChildByFieldName("name")
					aliasNode := child.ChildByFieldName("alias")
					if nameNode == nil || aliasNode == nil {
						continue
					}
					modName := string(content[nameNode.StartByte():nameNode.EndByte()])
					aliasName := string(content[aliasNode.StartByte():aliasNode.EndByte()])
					if mp, ok := resolveLocalModule(baseDir, modName, localFiles); ok {
						im.moduleAliases[aliasName] = mp
					}
				}
			}

		case "import_from_statement":
			moduleNode := stmt.ChildByFieldName("module_name")
			if moduleNode == nil {
				continue
			}
			modName := string(content[moduleNode.StartByte():moduleNode.EndByte()])
			resolveDir := baseDir
			// relative_import nodes ("from . import x", "from ..pkg import x")
			// appear as module_name type "relative_import"; fall back to
			// parent-directory walk using leading dots in the raw text.
			if moduleNode.Type() == "relative_import" {
				dots := strings.Count(modName, ".")
				for d := 0; d < dots; d++ {
					resolveDir = path.Dir(resolveDir)
				}
				modName = strings.TrimLeft(modName, ".")
			}
			mp, ok := resolveLocalModule(resolveDir, modName, localFiles)
			if !ok {
				continue
			}
			for j := 0; j < int(stmt.ChildCount()); j++ {
				child := stmt.Child(j)
				switch child.Type() {
				case "dotted_name":
					nm := string(content[child.StartByte():child.EndByte()])
					if nm == modName || strings.HasPrefix(modName, nm) {
						continue
					}
					im.functionAliases[nm] = [2]string{mp, nm}
					im.classAliases[nm] = [2]string{mp, nm}
				case "aliased_import":
					nameNode := child.ChildByFieldName("name")
					aliasNode := child.ChildByFieldName("alias")
					if nameNode == nil || aliasNode == nil {
						continue
					}
					orig := string(content[nameNode.StartByte():nameNode.EndByte()])
					aliasName := string(content[aliasNode.StartByte():aliasNode.EndByte()])
					im.functionAliases[aliasName] = [2]string{mp, orig}
					im.classAliases[aliasName] = [2]string{mp, orig}
				}
			}
		}
	}
	return im
}

func lastDotted(s string) string {
	parts := strings.Split(s, ".")
	return parts[len(parts)-1]
}

func resolveLocalModule(baseDir, moduleName string, localFiles []string) (string, bool) {
	parts := strings.Split(moduleName, ".")
	candidate1 := path.Join(append(append([]string{baseDir}, parts...))...) + ".py"
	candidate2 := path.Join(append(append([]string{baseDir}, parts...), "__init__.py")...)
	for _, f := range localFiles {
		if normalizePath(f) == normalizePath(candidate1) || normalizePath(f) == normalizePath(candidate2) {
			return f, true
		}
	}
	for _, f := range localFiles {
		if matchesModulePath(f, parts) {
			return f, true
		}
	}
	return "", false
}

func matchesModulePath(filePath string, parts []string) bool {
	pathParts := strings.Split(normalizePath(filePath), "/")
	var moduleParts []string
	if path.Base(filePath) == "__init__.py" {
		moduleParts = append(append([]string{}, parts...), "__init__.py")
	} else {
		moduleParts = append(append([]string{}, parts[:len(parts)-1]...), parts[len(parts)-1]+".py")
	}
	if len(pathParts) < len(moduleParts) {
		return false
	}
	tail := pathParts[len(pathParts)-len(moduleParts):]
	for i := range tail {
		if tail[i] != moduleParts[i] {
			return false
		}
	}
	return true
}

// buildLocalClassMap infers, for each local variable assigned within fn
// with a statically-recognizable constructor call, annotated type, or
// factory-function call, which class it holds an instance of.
func buildLocalClassMap(
	fn FunctionRef,
	fileSource map[string]string,
	classNames map[string]bool,
	factoryMap map[string]string,
	imports importMap,
	moduleNameMap map[string]string,
	moduleFactories map[string]map[string]string,
	moduleClasses map[string]map[string]bool,
) map[string]classAndModule {
	result := map[string]classAndModule{}
	fnText := functionText(fileSource[fn.Path], fn)
	tree, err := parsePythonSnippet(fnText)
	if err != nil {
		return result
	}
	defer tree.Close()

	content := []byte(fnText)
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "assignment":
			left := n.ChildByFieldName("left")
			right := n.ChildByFieldName("right")
			typ := n.ChildByFieldName("type")
			if left != nil && left.Type() == "identifier" {
				name := string(content[left.StartByte():left.EndByte()])
				if typ != nil {
					if cm, ok := resolveAnnotationClass(typ, content, imports); ok {
						result[name] = cm
					}
				} else if right != nil {
					if cm, ok := resolveValueClass(right, content, classNames, factoryMap, imports, moduleNameMap, moduleFactories, moduleClasses); ok {
						result[name] = cm
					} else if right.Type() == "identifier" {
						if src, ok := result[string(content[right.StartByte():right.EndByte()])]; ok {
							result[name] = src
						}
					}
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return result
}

func resolveValueClass(
	node *sitter.Node, content []byte,
	classNames map[string]bool, factoryMap map[string]string, imports importMap,
	moduleNameMap map[string]string, moduleFactories map[string]map[string]string, moduleClasses map[string]map[string]bool,
) (classAndModule, bool) {
	if node.Type() != "call" {
		return classAndModule{}, false
	}
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return classAndModule{}, false
	}
	if fn.Type() == "identifier" {
		name := string(content[fn.StartByte():fn.EndByte()])
		if classNames[name] {
			return classAndModule{className: name}, true
		}
		if alias, ok := imports.classAliases[name]; ok {
			if classExistsInModule(alias[0], alias[1], moduleNameMap, moduleClasses) {
				return classAndModule{moduleFile: alias[0], className: alias[1]}, true
			}
			return classAndModule{}, false
		}
		if cls, ok := factoryMap[name]; ok {
			return classAndModule{className: cls}, true
		}
		if alias, ok := imports.functionAliases[name]; ok {
			if cls, ok := resolveFactoryReturn(alias[0], alias[1], moduleNameMap, moduleFactories); ok {
				return classAndModule{moduleFile: alias[0], className: cls}, true
			}
		}
		return classAndModule{}, false
	}
	if fn.Type() == "attribute" {
		base := fn.ChildByFieldName("object")
		attr := fn.ChildByFieldName("attribute")
		if base != nil && base.Type() == "identifier" && attr != nil {
			baseName := string(content[base.StartByte():base.EndByte()])
			if modPath, ok := imports.moduleAliases[baseName]; ok {
				attrName := string(content[attr.StartByte():attr.EndByte()])
				if cls, ok := resolveFactoryReturn(modPath, attrName, moduleNameMap, moduleFactories); ok {
					return classAndModule{moduleFile: modPath, className: cls}, true
				}
			}
		}
	}
	return classAndModule{}, false
}

func resolveAnnotationClass(node *sitter.Node, content []byte, imports importMap) (classAndModule, bool) {
	switch node.Type() {
	case "identifier":
		name := string(content[node.StartByte():node.EndByte()])
		if alias, ok := imports.classAliases[name]; ok {
			return classAndModule{moduleFile: alias[0], className: alias[1]}, true
		}
		return classAndModule{className: name}, true
	case "attribute":
		base := node.ChildByFieldName("object")
		attr := node.ChildByFieldName("attribute")
		if base != nil && base.Type() == "identifier" && attr != nil {
			baseName := string(content[base.StartByte():base.EndByte()])
			attrName := string(content[attr.StartByte():attr.EndByte()])
			if modPath, ok := imports.moduleAliases[baseName]; ok {
				return classAndModule{moduleFile: modPath, className: attrName}, true
			}
			return classAndModule{className: attrName}, true
		}
	}
	return classAndModule{}, false
}

func resolveFactoryReturn(modulePath, funcName string, moduleNameMap map[string]string, moduleFactories map[string]map[string]string) (string, bool) {
	filePath, ok := resolveModulePathToFile(modulePath, moduleNameMap)
	if !ok {
		return "", false
	}
	factories, ok := moduleFactories[filePath]
	if !ok {
		return "", false
	}
	cls, ok := factories[funcName]
	return cls, ok
}

func classExistsInModule(modulePath, className string, moduleNameMap map[string]string, moduleClasses map[string]map[string]bool) bool {
	filePath, ok := resolveModulePathToFile(modulePath, moduleNameMap)
	if !ok {
		return false
	}
	classes, ok := moduleClasses[filePath]
	if !ok {
		return false
	}
	return classes[className]
}

// factoryMapForFunctions maps a short function name to the class name
// it constructs and returns, for functions whose only return statement
// is `return SomeClass(...)`.
func factoryMapForFunctions(fns []FunctionRef, fileSource map[string]string) map[string]string {
	out := map[string]string{}
	for _, fn := range fns {
		text := functionText(fileSource[fn.Path], fn)
		if cls, ok := inferReturnClass(text); ok {
			parts := strings.Split(fn.QualifiedName, ".")
			out[parts[len(parts)-1]] = cls
		}
	}
	return out
}

func inferReturnClass(source string) (string, bool) {
	tree, err := parsePythonSnippet(source)
	if err != nil {
		return "", false
	}
	defer tree.Close()
	content := []byte(source)

	var found string
	returns := 0
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "return_statement" {
			returns++
			if returns == 1 && n.ChildCount() > 1 {
				val := n.Child(1)
				if val.Type() == "call" {
					if fn := val.ChildByFieldName("function"); fn != nil && fn.Type() == "identifier" {
						found = string(content[fn.StartByte():fn.EndByte()])
					}
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	if returns != 1 {
		return "", false
	}
	return found, found != ""
}

// parsePythonSnippet parses an arbitrary Python source fragment (a
// function body slice, an import list, ...) with the Python parser it
// shares with Normalize; PythonExtractor uses a parser of its own.
func parsePythonSnippet(source string) (*sitter.Tree, error) {
	return normalizeParser().ParseCtx(context.Background(), nil, []byte(source))
}

// expandGoLike produces a reduced EXP pass for non-Python languages:
// same-file, name-only call resolution (no cross-file import aliasing,
// no class/self-call inference), still bounded by expansion.MaxChars.
func expandGoLike(fns []FunctionRef, fileSource map[string]string, expansion ExpansionConfig) []SnippetRef {
	nMap := map[string]FunctionRef{}
	for _, fn := range fns {
		nMap[goSimpleName(fn.QualifiedName)] = fn
	}

	var out []SnippetRef
	for _, fn := range fns {
		fnText := functionText(fileSource[fn.Path], fn)
		expanded := fnText
		visited := map[string]bool{fn.Identity(): true}
		var helpers []string
		frontier := []FunctionRef{fn}

		for depth := 0; depth < expansion.MaxDepth; depth++ {
			var next []FunctionRef
			for _, cur := range frontier {
				curText := functionText(fileSource[cur.Path], cur)
				for _, name := range goLikeCallNames(curText) {
					helper, ok := nMap[name]
					if !ok || visited[helper.Identity()] {
						continue
					}
					helperText := functionText(fileSource[helper.Path], helper)
					addition := fmt.Sprintf("\n\n// expanded:%s\n%s", helper.QualifiedName, helperText)
					if len(expanded)+len(addition) > expansion.MaxChars {
						continue
					}
					visited[helper.Identity()] = true
					helpers = append(helpers, helper.QualifiedName)
					expanded += addition
					next = append(next, helper)
				}
			}
			frontier = next
		}

		if len(helpers) == 0 {
			continue
		}
		norm := Normalize(expanded, fn.Language)
		codeHash := hashText(fnText)
		hash := hashText(fmt.Sprintf("EXP:%s:%d:%d:%s:%s:%d:%d:%s",
			fn.Path, fn.StartLine, fn.EndLine, codeHash, strings.Join(helpers, ","),
			expansion.MaxDepth, expansion.MaxChars, norm))
		out = append(out, SnippetRef{
			ID:          snippetID(KindExp, hash),
			Function:    fn,
			Kind:        KindExp,
			Text:        expanded,
			NormText:    norm,
			StartLine:   fn.StartLine,
			EndLine:     fn.EndLine,
			SnippetHash: hash,
			CharLen:     len(norm),
		})
	}
	return out
}

// goLikeCallNames does a crude token-level scan for `identifier(`
// occurrences, good enough for same-file best-effort expansion without
// a dedicated Go/TS call-graph.
func goLikeCallNames(source string) []string {
	var names []string
	var cur strings.Builder
	for i := 0; i < len(source); i++ {
		c := source[i]
		isIdent := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if isIdent {
			cur.WriteByte(c)
			continue
		}
		if c == '(' && cur.Len() > 0 {
			names = append(names, cur.String())
		}
		cur.Reset()
	}
	return names
}
