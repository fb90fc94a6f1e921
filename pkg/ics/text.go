// Package ics reads and writes iCalendar (RFC 5545) documents. The writer
// emits byte-stable output: CRLF line endings, fixed field order, 75-octet
// line folding. The reader is deliberately permissive and skips anything it
// does not understand; it never fails hard.
package ics

import "strings"

// foldWidth is the maximum content line length before folding, per RFC 5545.
const foldWidth = 75

// escapeText doubles backslashes, commas and semicolons and turns literal
// newlines into the two-character sequence \n.
func escapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case ',':
			b.WriteString(`\,`)
		case ';':
			b.WriteString(`\;`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			// swallowed; bare CR has no text meaning
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// unescapeText reverses escapeText. Unknown escapes keep the literal
// character, matching the permissive reader posture.
func unescapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if !escaped {
			if r == '\\' {
				escaped = true
				continue
			}
			b.WriteRune(r)
			continue
		}
		switch r {
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteRune(r)
		}
		escaped = false
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}

// foldLine hard-folds a content line: the first 75 characters are emitted,
// the remainder continues on lines starting with a single space.
func foldLine(line string) []string {
	if len(line) <= foldWidth {
		return []string{line}
	}
	out := []string{line[:foldWidth]}
	rest := line[foldWidth:]
	for len(rest) > foldWidth {
		out = append(out, " "+rest[:foldWidth])
		rest = rest[foldWidth:]
	}
	out = append(out, " "+rest)
	return out
}

// unfoldLines splits raw ICS text into logical lines, merging continuation
// lines (leading space or tab) into their predecessor.
func unfoldLines(data string) []string {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	raw := strings.Split(data, "\n")
	var out []string
	for _, line := range raw {
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') && len(out) > 0 {
			out[len(out)-1] += line[1:]
			continue
		}
		out = append(out, line)
	}
	return out
}

// splitContentLine breaks NAME;PARAM=VAL;PARAM=VAL:VALUE into its parts.
// ok is false for lines without a colon.
func splitContentLine(line string) (name string, params map[string]string, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", nil, "", false
	}
	head, value := line[:idx], line[idx+1:]

	parts := strings.Split(head, ";")
	name = strings.ToUpper(strings.TrimSpace(parts[0]))
	if name == "" {
		return "", nil, "", false
	}
	params = make(map[string]string, len(parts)-1)
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		params[strings.ToUpper(strings.TrimSpace(kv[0]))] = strings.TrimSpace(kv[1])
	}
	return name, params, value, true
}
