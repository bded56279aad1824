package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigPath(t *testing.T) {
	cases := []struct {
		dsn  string
		want string
	}{
		{"file:/tmp/app.db", "/tmp/app.db"},
		{"file:./data/app.db?_busy_timeout=5000", "./data/app.db"},
		{"/tmp/plain.db", "/tmp/plain.db"},
	}
	for _, c := range cases {
		if got := (Config{DSN: c.dsn}).Path(); got != c.want {
			t.Fatalf("Path(%q) = %q, want %q", c.dsn, got, c.want)
		}
	}
}

func TestConnectCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "app.db")
	st := New(Config{DSN: "file:" + path})
	if err := st.Connect(); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("parent directory was not created: %v", err)
	}
}

func TestReopenPreservesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	st := New(Config{DSN: "file:" + path})
	if err := st.Connect(); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if err := st.Exec(`CREATE TABLE t (x INT)`); err != nil {
		t.Fatalf("Exec error: %v", err)
	}
	if err := st.Exec(`INSERT INTO t VALUES (42)`); err != nil {
		t.Fatalf("Exec error: %v", err)
	}

	if err := st.Reopen(); err != nil {
		t.Fatalf("Reopen error: %v", err)
	}

	var x int
	if err := st.QueryRow(`SELECT x FROM t`).Scan(&x); err != nil {
		t.Fatalf("QueryRow after Reopen: %v", err)
	}
	if x != 42 {
		t.Fatalf("x = %d, want 42", x)
	}
}

func TestCloseIsNilSafeAndIdempotent(t *testing.T) {
	var st *Store
	if err := st.Close(); err != nil {
		t.Fatalf("nil store Close: %v", err)
	}
	st = New(Config{DSN: "file:" + filepath.Join(t.TempDir(), "app.db")})
	if err := st.Connect(); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("second Close error: %v", err)
	}
}
