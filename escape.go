package tickdb

import "strings"

var (
	tagEscaper = strings.NewReplacer(
		`\`, `\\`, `,`, `\,`, ` `, `\ `, `=`, `\=`)
	tagUnescaper = strings.NewReplacer(
		`\\`, `\`, `\,`, `,`, `\ `, ` `, `\=`, `=`)
	stringFieldEscaper = strings.NewReplacer(
		`\`, `\\`, `"`, `\"`)
)

// escapeTag escapes a measurement name, tag key, tag value, or field key
// for the line protocol. Backslash is escaped first so already escaped
// characters are not escaped twice.
func escapeTag(s string) string {
	return tagEscaper.Replace(s)
}

func unescapeTag(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	return tagUnescaper.Replace(s)
}

// escapeStringField escapes and double-quotes a string field value.
func escapeStringField(s string) string {
	return `"` + stringFieldEscaper.Replace(s) + `"`
}

// quoteIdent quotes an identifier for use in a statement.
func quoteIdent(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, c := range s {
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// quoteLiteral quotes a string literal for use in a statement.
func quoteLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, c := range s {
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
