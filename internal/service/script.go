package service

import "strings"

// SplitStatements splits a Cypher script on top-level semicolons. Quoted
// strings and backtick identifiers are kept intact; // line comments and
// /* */ block comments are dropped. Blank statements are skipped.
func SplitStatements(script string) []string {
	var (
		stmts []string
		cur   strings.Builder
		quote rune
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}

	r := []rune(script)
	for i := 0; i < len(r); i++ {
		c := r[i]
		if quote != 0 {
			cur.WriteRune(c)
			switch {
			case c == '\\' && quote != '`' && i+1 < len(r):
				i++
				cur.WriteRune(r[i])
			case c == quote:
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
			cur.WriteRune(c)
		case c == '/' && i+1 < len(r) && r[i+1] == '/':
			for i < len(r) && r[i] != '\n' {
				i++
			}
			cur.WriteRune('\n')
		case c == '/' && i+1 < len(r) && r[i+1] == '*':
			i += 2
			for i < len(r) && !(r[i] == '*' && i+1 < len(r) && r[i+1] == '/') {
				i++
			}
			i++
			cur.WriteRune(' ')
		case c == ';':
			flush()
		default:
			cur.WriteRune(c)
		}
	}
	flush()
	return stmts
}
