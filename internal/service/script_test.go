package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{"empty", "  \n ", nil},
		{"single without terminator", "CREATE (n)", []string{"CREATE (n)"}},
		{"multiple", "CREATE (a);\nCREATE (b);\n", []string{"CREATE (a)", "CREATE (b)"}},
		{"blank statements", ";;CREATE (a);;", []string{"CREATE (a)"}},
		{"semicolon in single quotes", "CREATE (:T {v: 'a;b'}); RETURN 1", []string{"CREATE (:T {v: 'a;b'})", "RETURN 1"}},
		{"semicolon in double quotes", `CREATE (:T {v: "a;b"})`, []string{`CREATE (:T {v: "a;b"})`}},
		{"escaped quote", `CREATE (:T {v: 'it\'s;'}); RETURN 1`, []string{`CREATE (:T {v: 'it\'s;'})`, "RETURN 1"}},
		{"backtick identifier", "MATCH (n) RETURN n.`a;b`; RETURN 2", []string{"MATCH (n) RETURN n.`a;b`", "RETURN 2"}},
		{"line comment", "// seed data; ignored\nCREATE (a); // trailing;\nCREATE (b)", []string{"CREATE (a)", "CREATE (b)"}},
		{"block comment", "CREATE /* a; b */ (a);/* only a comment */;", []string{"CREATE   (a)"}},
		{"comment markers in strings", "CREATE (:U {url: 'http://x/*y'})", []string{"CREATE (:U {url: 'http://x/*y'})"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatements(tt.script))
		})
	}
}
