package database

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// unicodeLower folds case beyond ASCII. sqlite's built-in lower() leaves
// letters such as Á or Ó untouched.
const unicodeLower = "unicode_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(unicodeLower, 1, foldLower)
}

func foldLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return strings.ToLower(fmt.Sprint(v)), nil
	}
}

// Lower wraps expr in the dialect's Unicode-aware lowercase function.
func (db *DB) Lower(expr string) string {
	if db.Dialect == SQLite {
		return unicodeLower + "(" + expr + ")"
	}
	return "lower(" + expr + ")"
}
