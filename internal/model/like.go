package model

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE pattern matching s literally anywhere in the column.
// It relies on backslash being the LIKE escape character (the Postgres default).
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
