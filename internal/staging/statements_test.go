package staging

import "testing"

func TestUseStatement(t *testing.T) {
	if got := UseStatement("strata_staging"); got != "USE strata_staging;" {
		t.Errorf("UseStatement = %q", got)
	}
}

func TestDropTableStatement(t *testing.T) {
	if got := DropTableStatement("strata_intermediate_x"); got != "DROP TABLE IF EXISTS strata_intermediate_x;" {
		t.Errorf("DropTableStatement = %q", got)
	}
}

func TestParseMockStatement(t *testing.T) {
	tests := []struct {
		stmt     string
		database string
		table    string
		ok       bool
	}{
		{"USE strata_staging;", "strata_staging", "", true},
		{"DROP TABLE IF EXISTS t1;", "", "t1", true},
		{"  DROP TABLE IF EXISTS t2  ", "", "t2", true},
		{"SELECT 1;", "", "", false},
		{"", "", "", false},
	}

	for _, tc := range tests {
		db, table, ok := parseMockStatement(tc.stmt)
		if db != tc.database || table != tc.table || ok != tc.ok {
			t.Errorf("parseMockStatement(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.stmt, db, table, ok, tc.database, tc.table, tc.ok)
		}
	}
}
