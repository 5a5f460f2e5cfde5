package extract

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// extractJava finds class declarations. Interfaces, enums and records are
// not part of a single-inheritance class hierarchy and are ignored.
func extractJava(root *sitter.Node, source []byte) []rawClass {
	var classes []rawClass
	walkTyped(root, func(node *sitter.Node, nodeType string) bool {
		if nodeType != "class_declaration" {
			return true
		}
		name := nodeText(node.ChildByFieldName("name"), source)
		if name == "" {
			return true
		}
		var parent string
		if sc := node.ChildByFieldName("superclass"); sc != nil && sc.NamedChildCount() > 0 {
			parent = nodeText(sc.NamedChild(0), source)
		}
		members := newMemberSet()
		javaMembers(node.ChildByFieldName("body"), source, members)
		methods, attrs := members.split()
		classes = append(classes, rawClass{
			name:       name,
			parent:     parent,
			methods:    methods,
			attributes: attrs,
			line:       int(node.StartPoint().Row) + 1,
		})
		return true
	})
	return classes
}

func javaMembers(body *sitter.Node, source []byte, members *memberSet) {
	if body == nil {
		return
	}
	for i := range int(body.NamedChildCount()) {
		member := body.NamedChild(i)
		switch member.Type() {
		case "method_declaration":
			if !javaStatic(member) {
				members.method(nodeText(member.ChildByFieldName("name"), source))
			}
		case "field_declaration":
			if javaStatic(member) {
				continue
			}
			for j := range int(member.NamedChildCount()) {
				if d := member.NamedChild(j); d.Type() == "variable_declarator" {
					members.attribute(nodeText(d.ChildByFieldName("name"), source))
				}
			}
		}
	}
}

func javaStatic(decl *sitter.Node) bool {
	for i := range int(decl.NamedChildCount()) {
		if mods := decl.NamedChild(i); mods.Type() == "modifiers" {
			return hasToken(mods, "static")
		}
	}
	return false
}
