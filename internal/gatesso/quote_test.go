package gatesso

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "'hello'"},
		{"empty", "", "''"},
		{"single quote", "O'Brien", "'O''Brien'"},
		{"injection attempt", "'; DROP TABLE employees; --", "'''; DROP TABLE employees; --'"},
		{"backslash", `C:\temp`, ` E'C:\\temp'`},
		{"backslash and quote", `\'`, ` E'\\'''`},
		{"like pattern", "%smith%", "'%smith%'"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, QuoteLiteral(tc.input))
		})
	}
}

func TestQuoteLiteralNested(t *testing.T) {
	// A remote query embedded inside another remote query must stay intact
	// after being escaped at each nesting level.
	inner := fmt.Sprintf(`SELECT name FROM employees WHERE name ILIKE %s`, QuoteLiteral("%o'brien%"))
	outer := fmt.Sprintf(`SELECT * FROM dblink('gate_sso', %s) AS t(name text)`, QuoteLiteral(inner))

	assert.Contains(t, outer, "''%o''''brien%''")
	// The outer literal is balanced: an even number of quote characters.
	assert.Equal(t, 0, strings.Count(outer, "'")%2)
}
