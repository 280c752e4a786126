package gatesso

import "strings"

// QuoteLiteral quotes a string literal for inclusion in SQL text sent across
// the remote link. Queries executed through dblink travel as strings, so the
// values embedded in them cannot ride along as bind parameters; this is the
// single escaping path for that unavoidable case. Everything that crosses
// into remote query text must pass through here, at every nesting level.
func QuoteLiteral(literal string) string {
	quoted := strings.ReplaceAll(literal, "'", "''")
	if strings.Contains(quoted, `\`) {
		quoted = strings.ReplaceAll(quoted, `\`, `\\`)
		return " E'" + quoted + "'"
	}
	return "'" + quoted + "'"
}
