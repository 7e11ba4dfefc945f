// Package sheets defines the outbound port for spreadsheet export.
package sheets

import (
	"context"

	"kharcha/internal/core"
)

// EntryWriter appends one entry to the backup spreadsheet and returns a
// reference to the written row.
type EntryWriter interface {
	Append(ctx context.Context, e core.Entry) (rowRef string, err error)
}
