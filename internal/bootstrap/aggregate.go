package bootstrap

import (
	"regexp"
	"strings"
)

const (
	openTag  = "<?php"
	closeTag = "?>"
)

// namespaceDecl matches a statement-style namespace declaration at the start
// of a line: `namespace Foo\Bar;`.
var namespaceDecl = regexp.MustCompile(`(?m)^[ \t]*namespace[ \t]+([A-Za-z_][A-Za-z0-9_\\]*)[ \t]*;`)

// bracedNamespace matches a block-style declaration, which needs no rewrite.
var bracedNamespace = regexp.MustCompile(`(?m)^[ \t]*namespace(?:[ \t]+[A-Za-z_][A-Za-z0-9_\\]*)?[ \t]*\{`)

// stripTags removes the leading open tag and a trailing close tag.
func stripTags(source string) string {
	s := strings.TrimLeft(source, " \t\r\n")
	s = strings.TrimPrefix(s, openTag)
	s = strings.TrimRight(s, " \t\r\n")
	s = strings.TrimSuffix(s, closeTag)
	return strings.TrimSpace(s)
}

// fixNamespaceDeclarations rewrites a module body so that it can share a
// file with other bodies: every `namespace X;` becomes a braced block, and a
// body without any namespace is wrapped in the global namespace block.
func fixNamespaceDeclarations(source string) string {
	body := stripTags(source)

	if bracedNamespace.MatchString(body) {
		return body
	}

	locs := namespaceDecl.FindAllStringSubmatchIndex(body, -1)
	if len(locs) == 0 {
		return "namespace\n{\n" + body + "\n}"
	}

	var b strings.Builder
	b.WriteString(body[:locs[0][0]])
	for i, loc := range locs {
		if i > 0 {
			b.WriteString("}\n")
		}
		b.WriteString("namespace ")
		b.WriteString(body[loc[2]:loc[3]])
		b.WriteString("\n{")

		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		b.WriteString(strings.TrimRight(body[loc[1]:end], " \t\r\n"))
		b.WriteString("\n")
	}
	b.WriteString("}")

	return strings.TrimSpace(b.String())
}

// compile concatenates rewritten bodies after an open tag, producing the
// intermediate single-file unit.
func compile(bodies []string) string {
	var b strings.Builder
	b.WriteString(openTag)
	b.WriteString(" ")
	for _, body := range bodies {
		b.WriteString("\n")
		b.WriteString(fixNamespaceDeclarations(body))
		b.WriteString("\n")
	}
	return b.String()
}
