package staging

import "strings"

// UseStatement selects the working database for the statements that follow
// in a batch.
func UseStatement(database string) string {
	return "USE " + database + ";"
}

// DropTableStatement drops a table if it exists. Absent tables are a
// successful no-op, which keeps batch deletion idempotent.
func DropTableStatement(table string) string {
	return "DROP TABLE IF EXISTS " + table + ";"
}

// parseMockStatement recognizes the two statement forms the reconciler
// emits. Returns (database, "", true) for USE, ("", table, true) for
// DROP TABLE IF EXISTS, and ("", "", false) otherwise.
func parseMockStatement(stmt string) (database, table string, ok bool) {
	stmt = strings.TrimSuffix(strings.TrimSpace(stmt), ";")
	if rest, found := strings.CutPrefix(stmt, "USE "); found {
		return strings.TrimSpace(rest), "", true
	}
	if rest, found := strings.CutPrefix(stmt, "DROP TABLE IF EXISTS "); found {
		return "", strings.TrimSpace(rest), true
	}
	return "", "", false
}
