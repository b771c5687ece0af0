package migrations

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

func TestVersion(t *testing.T) {
	cases := map[string]string{
		"001_init_schema.sql":     "001",
		"sql/002_indexes.sql":     "002",
		"010_add_flashcard_x.sql": "010",
	}
	for in, want := range cases {
		if got := Version(in); got != want {
			t.Fatalf("Version(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPendingSortsAndFiltersSQL(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.sql":    {Data: []byte("SELECT 2;")},
		"001_a.sql":    {Data: []byte("SELECT 1;")},
		"README.md":    {Data: []byte("docs")},
		"nested/x.sql": {Data: []byte("SELECT 3;")},
	}

	files, err := Pending(fsys)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(files) != 2 || files[0] != "001_a.sql" || files[1] != "002_b.sql" {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestEmbeddedMigrationsCoverAllTables(t *testing.T) {
	files, err := Pending(Files())
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("no embedded migrations")
	}

	var all strings.Builder
	for _, f := range files {
		b, err := fs.ReadFile(Files(), f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		all.Write(b)
	}

	tables := []string{
		"users", "user_profiles", "study_plans", "daily_plans", "study_sessions",
		"progress_data", "user_statistics", "quiz_attempts", "quizzes",
		"quiz_questions", "flashcards", "notifications", "curriculum",
	}
	for _, table := range tables {
		if !strings.Contains(all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Fatalf("table %s missing from migrations", table)
		}
	}
}
