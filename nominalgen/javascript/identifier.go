package javascript

import (
	"strings"
	"unicode"
)

// JavaScript reserved words, including future reserved words in strict mode.
var reservedWords = map[string]bool{
	"arguments":  true,
	"await":      true,
	"break":      true,
	"case":       true,
	"catch":      true,
	"class":      true,
	"const":      true,
	"continue":   true,
	"debugger":   true,
	"default":    true,
	"delete":     true,
	"do":         true,
	"else":       true,
	"enum":       true,
	"eval":       true,
	"export":     true,
	"extends":    true,
	"false":      true,
	"finally":    true,
	"for":        true,
	"function":   true,
	"if":         true,
	"implements": true,
	"import":     true,
	"in":         true,
	"instanceof": true,
	"interface":  true,
	"let":        true,
	"new":        true,
	"null":       true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"return":     true,
	"static":     true,
	"super":      true,
	"switch":     true,
	"this":       true,
	"throw":      true,
	"true":       true,
	"try":        true,
	"typeof":     true,
	"var":        true,
	"void":       true,
	"while":      true,
	"with":       true,
	"yield":      true,
}

// escapeReservedWord escapes a reserved word by appending an underscore.
func escapeReservedWord(name string) string {
	if reservedWords[name] {
		return name + "_"
	}
	return name
}

// sanitizeIdentifier makes an identifier valid for JavaScript.
func sanitizeIdentifier(name string) string {
	return escapeReservedWord(sanitizeChars(name))
}

// sanitizeChars replaces characters not allowed in identifiers.
func sanitizeChars(name string) string {
	if name == "" {
		return "_"
	}

	var result strings.Builder

	// Handle leading digit
	if unicode.IsDigit(rune(name[0])) {
		result.WriteRune('_')
	}

	// Replace invalid characters with underscores
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}

	return result.String()
}

// ctorIdent returns the identifier of a declared type's constructor:
// "$" followed by the registered name with '.' and '`' replaced by '$'.
// "Zoo.List`1" becomes "$Zoo$List$1".
func ctorIdent(registered string) string {
	r := strings.NewReplacer(".", "$", "`", "$")
	return "$" + sanitizeChars(r.Replace(registered))
}

// memberName returns the host name of a method: the source name with its
// first letter lowercased, escaped if it is a reserved word.
func memberName(name string) string {
	if name == "" {
		return "_"
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return sanitizeIdentifier(string(runes))
}

// quote renders s as a single-quoted string literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
