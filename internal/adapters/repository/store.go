// Package repository persists events and reference articles to YAML files.
package repository

import (
	"context"

	"github.com/okian/c4hscore/internal/domain/model"
)

// Store provides whole-event persistence.
type Store interface {
	// Save writes ev to ev.Filename, stamping LastSave first.
	// Returns ErrNoFilename if the event has never been given a path.
	Save(ctx context.Context, ev *model.Event) error
	// SaveAs sets ev.Filename to path and saves.
	SaveAs(ctx context.Context, ev *model.Event, path string) error
	// Open reads an event previously written by Save.
	Open(ctx context.Context, path string) (*model.Event, error)
}
