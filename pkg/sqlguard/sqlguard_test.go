package sqlguard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFirstKeyword(t *testing.T) {
	t.Parallel()

	require.Equal(t, "SELECT", FirstKeyword("select * from t"))
	require.Equal(t, "WITH", FirstKeyword("  WITH cte AS (SELECT 1) SELECT * FROM cte"))
	require.Equal(t, "SELECT", FirstKeyword("-- a comment\nSELECT 1"))
	require.Equal(t, "SELECT", FirstKeyword("/* block */ SELECT 1"))
	require.Equal(t, "", FirstKeyword("   "))
	require.Equal(t, "", FirstKeyword("-- only a comment"))
}

func TestHasMultipleStatements(t *testing.T) {
	t.Parallel()

	require.False(t, HasMultipleStatements("SELECT 1"))
	require.False(t, HasMultipleStatements("SELECT 1;"), "a trailing semicolon is not a separator")
	require.False(t, HasMultipleStatements("SELECT 'a;b' FROM t"), "semicolons inside strings are ignored")
	require.True(t, HasMultipleStatements("SELECT 1; SELECT 2"))
	require.True(t, HasMultipleStatements("SELECT 1; -- c\nSELECT 2;"))
}

func TestBlockedKeyword(t *testing.T) {
	t.Parallel()

	require.Equal(t, "DROP", BlockedKeyword("drop table t"))
	require.Equal(t, "TRUNCATE", BlockedKeyword("SELECT 1; TRUNCATE t"))
	require.Equal(t, "", BlockedKeyword("SELECT dropped_at FROM t"), "word boundaries, not substrings")
	require.Equal(t, "", BlockedKeyword("SELECT 1 /* DROP TABLE t */"), "comments are stripped first")
}

func TestCheck(t *testing.T) {
	t.Parallel()

	t.Run("user", func(t *testing.T) {
		t.Parallel()
		require.True(t, Check("SELECT * FROM t", false, false).Allowed)
		require.True(t, Check("EXPLAIN SELECT 1", false, false).Allowed)
		require.False(t, Check("INSERT INTO t VALUES (1)", false, false).Allowed)
		require.False(t, Check("SELECT 1; SELECT 2", false, false).Allowed)
		require.False(t, Check("", false, false).Allowed)
		require.False(t, Check("-- nothing", false, false).Allowed)
	})

	t.Run("admin", func(t *testing.T) {
		t.Parallel()
		require.True(t, Check("WITH c AS (SELECT 1) SELECT * FROM c; SELECT 2", true, false).Allowed,
			"admins may chain statements")
		require.False(t, Check("UPDATE t SET x = 1", true, false).Allowed,
			"admins are still read-only")
		require.False(t, Check("SELECT 1; DROP TABLE t", true, false).Allowed)
		v := Check("GRANT ALL ON t TO bob", true, false)
		require.False(t, v.Allowed)
		require.Contains(t, v.Reason, "GRANT")
	})

	t.Run("superadmin", func(t *testing.T) {
		t.Parallel()
		require.True(t, Check("DROP TABLE t", true, true).Allowed)
		require.True(t, Check("VACUUM ANALYZE t", true, true).Allowed)
		require.False(t, Check("   ", true, true).Allowed, "empty statements are rejected for everyone")
	})
}
