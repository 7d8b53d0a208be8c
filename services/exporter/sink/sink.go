// Package sink holds the publishing boundary: everything upstream
// produces a rectangular string table, everything here decides where it
// lands. Both implementations share the same contract: overwrite the
// destination worksheet, stamp a banner cell at A1 with the table
// starting at B1, and append a run record to the history sheet,
// creating it on first use.
package sink

import (
	"context"
	"fmt"
	"time"

	"aulareport/lib/timezone"
)

const HistorySheet = "Historial"

type Sink interface {
	Publish(ctx context.Context, worksheet string, table [][]string, stamp time.Time) error
}

func banner(stamp time.Time) string {
	return fmt.Sprintf("Actualizado el: %s", timezone.Stamp(stamp))
}

func historyRow(stamp time.Time) []string {
	return []string{"Ejecución registrada el:", timezone.Stamp(stamp)}
}
