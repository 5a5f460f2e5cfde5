package extract

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// extractECMAScript finds classes in JavaScript, TypeScript and TSX trees.
// Accessors (get/set) are attributes: they define properties, not callable
// members. Static members belong to the constructor and are skipped.
func extractECMAScript(root *sitter.Node, source []byte) []rawClass {
	var classes []rawClass
	walkTyped(root, func(node *sitter.Node, nodeType string) bool {
		switch nodeType {
		case "class_declaration", "class", "abstract_class_declaration":
			name := nodeText(node.ChildByFieldName("name"), source)
			if name == "" {
				return true
			}
			members := newMemberSet()
			ecmaMembers(node.ChildByFieldName("body"), source, members)
			methods, attrs := members.split()
			classes = append(classes, rawClass{
				name:       name,
				parent:     ecmaParent(node, source),
				methods:    methods,
				attributes: attrs,
				line:       int(node.StartPoint().Row) + 1,
			})
		}
		return true
	})
	return classes
}

// ecmaParent returns the expression after "extends". JavaScript puts it
// directly under class_heritage; TypeScript wraps it in an extends_clause.
func ecmaParent(class *sitter.Node, source []byte) string {
	for i := range int(class.ChildCount()) {
		heritage := class.Child(i)
		if heritage.Type() != "class_heritage" {
			continue
		}
		for j := range int(heritage.NamedChildCount()) {
			child := heritage.NamedChild(j)
			switch child.Type() {
			case "extends_clause":
				return nodeText(child.ChildByFieldName("value"), source)
			case "implements_clause", "comment":
				continue
			default:
				return nodeText(child, source)
			}
		}
	}
	return ""
}

func ecmaMembers(body *sitter.Node, source []byte, members *memberSet) {
	if body == nil {
		return
	}
	for i := range int(body.NamedChildCount()) {
		member := body.NamedChild(i)
		switch member.Type() {
		case "method_definition", "method_signature", "abstract_method_signature":
			if hasToken(member, "static", "static get") {
				continue
			}
			name := nodeText(member.ChildByFieldName("name"), source)
			switch {
			case hasToken(member, "get", "set"):
				members.attribute(name)
			case name == "constructor":
				parameterProperties(member.ChildByFieldName("parameters"), source, members)
			default:
				members.method(name)
			}
		case "field_definition":
			if hasToken(member, "static") {
				continue
			}
			members.attribute(nodeText(member.ChildByFieldName("property"), source))
		case "public_field_definition":
			if hasToken(member, "static") {
				continue
			}
			members.attribute(nodeText(member.ChildByFieldName("name"), source))
		}
	}
}

// parameterProperties records TypeScript constructor parameters declared
// with an accessibility modifier or readonly, which become fields.
func parameterProperties(params *sitter.Node, source []byte, members *memberSet) {
	if params == nil {
		return
	}
	for i := range int(params.NamedChildCount()) {
		p := params.NamedChild(i)
		if p.Type() != "required_parameter" && p.Type() != "optional_parameter" {
			continue
		}
		if hasToken(p, "accessibility_modifier", "readonly", "override_modifier") {
			members.attribute(nodeText(p.ChildByFieldName("pattern"), source))
		}
	}
}
