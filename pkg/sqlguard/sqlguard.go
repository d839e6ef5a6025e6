// Package sqlguard classifies ad-hoc SQL statements so the console can hide
// or reject affordances the caller's role does not permit. It is the first
// gate only; the backend independently enforces the same rules.
package sqlguard

import (
	"regexp"
	"strings"
)

// Verdict explains why a statement was rejected.
type Verdict struct {
	Allowed bool
	Reason  string
}

// Keywords blocked for everyone below superadmin, matched anywhere in the
// statement on word boundaries.
var dangerousKeywords = []string{
	"DROP", "TRUNCATE", "ALTER", "GRANT", "REVOKE", "CREATE",
	"VACUUM", "ANALYZE", "REFRESH",
}

// First keywords permitted for non-superadmin roles.
var readOnlyLeaders = map[string]bool{
	"SELECT":  true,
	"WITH":    true,
	"EXPLAIN": true,
}

var (
	lineCommentRe  = regexp.MustCompile(`--[^\n]*`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	leadingWordRe  = regexp.MustCompile(`^\s*(\w+)`)
	quotedRe       = regexp.MustCompile(`(?s)'[^']*'|"[^"]*"`)
)

// RemoveComments strips -- line comments and /* */ block comments.
func RemoveComments(sql string) string {
	sql = blockCommentRe.ReplaceAllString(sql, " ")
	return lineCommentRe.ReplaceAllString(sql, " ")
}

// Normalize collapses whitespace after stripping comments.
func Normalize(sql string) string {
	return strings.Join(strings.Fields(RemoveComments(sql)), " ")
}

// FirstKeyword returns the first word of the statement upper-cased
// (SELECT, INSERT, ...), or "" when the statement is empty.
func FirstKeyword(sql string) string {
	m := leadingWordRe.FindStringSubmatch(RemoveComments(sql))
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// HasMultipleStatements reports whether the text contains a semicolon acting
// as a statement separator. Semicolons inside quoted strings are ignored;
// a single trailing semicolon is not treated as a separator.
func HasMultipleStatements(sql string) bool {
	stripped := quotedRe.ReplaceAllString(RemoveComments(sql), " ")
	trimmed := strings.TrimRight(strings.TrimSpace(stripped), ";")
	return strings.Contains(trimmed, ";")
}

// BlockedKeyword returns the first dangerous keyword found in the statement,
// or "" when none is present.
func BlockedKeyword(sql string) string {
	upper := strings.ToUpper(Normalize(sql))
	for _, kw := range dangerousKeywords {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
		if re.MatchString(upper) {
			return kw
		}
	}
	return ""
}

// Check classifies a statement for the given capability tier. Superadmins may
// run anything; admins may chain statements but are still limited to read-only
// leaders and no dangerous keywords; everyone else gets a single read-only
// statement.
func Check(sql string, isAdmin, isSuperAdmin bool) Verdict {
	if strings.TrimSpace(RemoveComments(sql)) == "" {
		return Verdict{Allowed: false, Reason: "empty statement"}
	}

	if isSuperAdmin {
		return Verdict{Allowed: true}
	}

	if HasMultipleStatements(sql) && !isAdmin {
		return Verdict{Allowed: false, Reason: "multiple statements are not allowed"}
	}

	if kw := BlockedKeyword(sql); kw != "" {
		return Verdict{Allowed: false, Reason: "command '" + kw + "' is not allowed for your role"}
	}

	if !readOnlyLeaders[FirstKeyword(sql)] {
		return Verdict{Allowed: false, Reason: "only SELECT/EXPLAIN queries are allowed for your role"}
	}

	return Verdict{Allowed: true}
}
