package driven

import (
	"context"

	"github.com/custodia-labs/meetsync/internal/core/domain"
)

// NoteWriter persists an accepted artifact as a note and returns its
// location. The engine guarantees at most one Write call per accepted item.
type NoteWriter interface {
	Write(ctx context.Context, note domain.Note) (string, error)
}
