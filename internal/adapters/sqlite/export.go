// Package sqlite exports an event into a SQLite database for ad-hoc reporting.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/c4hscore/internal/domain/model"
	"github.com/okian/c4hscore/pkg/metrics"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// nullString stores "" as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Export writes ev into a new SQLite database at path, replacing any existing file.
func Export(ctx context.Context, ev *model.Event, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("export path is required")
	}
	cleanPath := filepath.Clean(path)
	for _, p := range []string{cleanPath, cleanPath + "-wal", cleanPath + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove old export: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cleanPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	if err := writeEvent(ctx, tx, ev); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}

	metrics.RecordSQLiteExport()
	return nil
}

func writeEvent(ctx context.Context, tx *sql.Tx, ev *model.Event) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO event (name, details, start_date, end_date, last_change_ms, last_save_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.Name, ev.Details, ev.Dates.Start.Format(dateLayout), ev.Dates.End.Format(dateLayout),
		toMillis(ev.LastChange), toMillis(ev.LastSave),
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	for _, a := range ev.Arenas {
		if _, err := tx.ExecContext(ctx, `INSERT INTO arenas (id, uid, name) VALUES (?, ?, ?)`, a.ID, a.UID, a.Name); err != nil {
			return fmt.Errorf("insert arena %s: %w", a.ID, err)
		}
		for _, jc := range a.JumpClasses {
			if err := writeJumpClass(ctx, tx, jc); err != nil {
				return err
			}
		}
	}

	for _, r := range ev.Riders {
		if _, err := tx.ExecContext(ctx, `INSERT INTO riders (surname, given_name, ea_number) VALUES (?, ?, ?)`,
			r.Surname, r.GivenName, nullString(r.EANumber())); err != nil {
			return fmt.Errorf("insert rider %s: %w", r.FullName(), err)
		}
	}
	for _, h := range ev.Horses {
		if _, err := tx.ExecContext(ctx, `INSERT INTO horses (name, ea_number) VALUES (?, ?)`,
			h.Name, nullString(h.EANumber())); err != nil {
			return fmt.Errorf("insert horse %s: %w", h.Name, err)
		}
	}
	for _, c := range ev.Combos {
		var surname, given, horse sql.NullString
		if c.Rider != nil {
			surname = sql.NullString{String: c.Rider.Surname, Valid: true}
			given = sql.NullString{String: c.Rider.GivenName, Valid: true}
		}
		if c.Horse != nil {
			horse = sql.NullString{String: c.Horse.Name, Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO combos (id, uid, rider_surname, rider_given_name, horse_name) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.UID, surname, given, horse); err != nil {
			return fmt.Errorf("insert combo %s: %w", c.ID, err)
		}
	}
	return nil
}

func writeJumpClass(ctx context.Context, tx *sql.Tx, jc *model.JumpClass) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO jump_classes (arena_id, id, number, name, article_id, description, height_cm, judge, course_designer, places)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		jc.ArenaID, jc.ID, jc.Number, jc.Name, nullString(jc.ArticleID), jc.Description,
		jc.Height, jc.Judge, jc.CourseDesigner, jc.Places,
	); err != nil {
		return fmt.Errorf("insert class %s: %w", jc.Number, err)
	}

	for _, r := range jc.Rounds {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO rounds (arena_id, class_id, round_type, combo_id, jump_pens, time_cs, time_pens, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.JumpClass.ArenaID, r.JumpClass.ClassID, string(r.Type), r.ComboID,
			r.JumpPenalties, int(r.Time), r.TimePenalties, r.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert round %s/%s: %w", r.Type, r.ComboID, err)
		}
		roundID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("round id: %w", err)
		}
		for _, f := range r.Faults {
			var kinds strings.Builder
			for _, k := range f.Kinds {
				kinds.WriteString(string(k))
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO faults (round_id, jump, kinds) VALUES (?, ?, ?)`,
				roundID, f.Jump, kinds.String()); err != nil {
				return fmt.Errorf("insert fault: %w", err)
			}
		}
	}
	return nil
}
