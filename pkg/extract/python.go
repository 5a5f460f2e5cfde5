package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

func extractPython(root *sitter.Node, source []byte) []rawClass {
	var classes []rawClass
	walkTyped(root, func(node *sitter.Node, nodeType string) bool {
		if nodeType != "class_definition" {
			return true
		}
		name := nodeText(node.ChildByFieldName("name"), source)
		if name == "" {
			return true
		}
		members := newMemberSet()
		pythonMembers(node.ChildByFieldName("body"), source, members)
		methods, attrs := members.split()
		classes = append(classes, rawClass{
			name:       name,
			parent:     pythonParent(node.ChildByFieldName("superclasses"), source),
			methods:    methods,
			attributes: attrs,
			line:       int(node.StartPoint().Row) + 1,
		})
		return true
	})
	return classes
}

// pythonParent returns the first base class, ignoring object and keyword
// arguments such as metaclass=.
func pythonParent(args *sitter.Node, source []byte) string {
	if args == nil {
		return ""
	}
	for i := range int(args.NamedChildCount()) {
		arg := args.NamedChild(i)
		if arg.Type() != "identifier" && arg.Type() != "attribute" {
			continue
		}
		if name := nodeText(arg, source); name != "object" {
			return name
		}
	}
	return ""
}

func pythonMembers(body *sitter.Node, source []byte, members *memberSet) {
	if body == nil {
		return
	}
	for i := range int(body.NamedChildCount()) {
		stmt := body.NamedChild(i)
		switch stmt.Type() {
		case "function_definition":
			pythonFunction(stmt, nil, source, members)
		case "decorated_definition":
			def := stmt.ChildByFieldName("definition")
			if def == nil || def.Type() != "function_definition" {
				continue
			}
			var decorators []string
			for j := range int(stmt.NamedChildCount()) {
				if d := stmt.NamedChild(j); d.Type() == "decorator" {
					decorators = append(decorators, decoratorName(nodeText(d, source)))
				}
			}
			pythonFunction(def, decorators, source, members)
		case "expression_statement":
			// class-level assignments, including annotated ones: x: int = 0
			for j := range int(stmt.NamedChildCount()) {
				expr := stmt.NamedChild(j)
				if expr.Type() != "assignment" {
					continue
				}
				if left := expr.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
					members.attribute(nodeText(left, source))
				}
			}
		}
	}
}

func pythonFunction(fn *sitter.Node, decorators []string, source []byte, members *memberSet) {
	name := nodeText(fn.ChildByFieldName("name"), source)
	if name == "__init__" {
		return
	}
	for _, d := range decorators {
		switch {
		case d == "staticmethod":
			return
		case d == "property", d == "cached_property",
			strings.HasSuffix(d, ".cached_property"),
			strings.HasSuffix(d, ".setter"),
			strings.HasSuffix(d, ".getter"),
			strings.HasSuffix(d, ".deleter"):
			members.attribute(name)
			return
		}
	}
	members.method(name)
}

// decoratorName turns "@functools.cache(maxsize=1)" into "functools.cache".
func decoratorName(text string) string {
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "@"))
	if i := strings.IndexByte(text, '('); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
