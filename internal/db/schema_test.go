package db

import (
	"testing"
	"time"
)

func TestEnsureSchemaIdempotent(t *testing.T) {
	database := NewTestDB(t)
	if err := EnsureSchema(database); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

func TestCountdownsAreImmutable(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(
		`INSERT INTO countdowns (id, label, type, date, created_at) VALUES (?, ?, ?, ?, ?)`,
		"c1", "Launch day", "Launch", "2026-06-01", time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := database.Exec(`UPDATE countdowns SET label = 'changed' WHERE id = 'c1'`); err == nil {
		t.Error("expected UPDATE to be rejected")
	}
	if _, err := database.Exec(`DELETE FROM countdowns WHERE id = 'c1'`); err == nil {
		t.Error("expected DELETE to be rejected")
	}

	var label string
	if err := database.QueryRow(`SELECT label FROM countdowns WHERE id = 'c1'`).Scan(&label); err != nil {
		t.Fatalf("select: %v", err)
	}
	if label != "Launch day" {
		t.Errorf("expected label to be unchanged, got %q", label)
	}
}

func TestCountdownTypeConstraint(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(
		`INSERT INTO countdowns (id, label, type, date, created_at) VALUES (?, ?, ?, ?, ?)`,
		"c2", "Party", "Wedding", "2026-06-01", time.Now().UTC(),
	)
	if err == nil {
		t.Error("expected unknown type to violate the CHECK constraint")
	}
}

func TestFileDBSharedAcrossConnections(t *testing.T) {
	database := NewTestFileDB(t)

	if _, err := database.Exec(`INSERT INTO settings (key, value) VALUES ('k', 'v')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	conn1, err := database.Conn(t.Context())
	if err != nil {
		t.Fatalf("conn: %v", err)
	}
	defer conn1.Close()
	conn2, err := database.Conn(t.Context())
	if err != nil {
		t.Fatalf("conn: %v", err)
	}
	defer conn2.Close()

	var v string
	if err := conn2.QueryRowContext(t.Context(), `SELECT value FROM settings WHERE key = 'k'`).Scan(&v); err != nil {
		t.Fatalf("select on second connection: %v", err)
	}
	if v != "v" {
		t.Errorf("expected 'v', got %q", v)
	}
}
