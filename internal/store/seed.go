package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Seed populates demo users and sections, but only when the users table is
// empty. Existing installs are never touched.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}

	users := []struct{ id, name, role string }{
		{"faculty1", "Dr. Asha Rao", "faculty"},
		{"faculty2", "Prof. Daniel Okafor", "faculty"},
		{"stu1", "Priya Nair", "student"},
		{"stu2", "Marcus Lee", "student"},
		{"stu3", "Elena Petrova", "student"},
	}
	for _, u := range users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, name, role) VALUES (?, ?, ?)`,
			u.id, u.name, u.role,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed users: %w", err)
		}
	}

	sections := []struct{ id, code, title, facultyID string }{
		{"sec101", "CS101", "Introduction to Computing", "faculty1"},
		{"sec202", "CS202", "Data Structures", "faculty2"},
	}
	for _, s := range sections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sections (id, code, title, faculty_id) VALUES (?, ?, ?, ?)`,
			s.id, s.code, s.title, s.facultyID,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed sections: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
