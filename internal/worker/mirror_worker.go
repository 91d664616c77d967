// Package worker consumes ledger events and mirrors committed
// transactions to the export sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/events"
	"tally/internal/export"
	"tally/internal/ledger"
)

// MirrorWorker appends created transactions to the mirror sheet. The
// sheet is append-only: updates and deletes are recorded as correction
// rows so the mirror keeps a full audit trail instead of rewriting
// history.
type MirrorWorker struct {
	appender export.RowAppender
}

func NewMirrorWorker(appender export.RowAppender) *MirrorWorker {
	return &MirrorWorker{appender: appender}
}

// HandleMessage processes a single transaction event from AMQP
func (w *MirrorWorker) HandleMessage(ctx context.Context, msg *events.TransactionMessage) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"action", msg.Action,
		"transaction_id", msg.TransactionID)

	switch msg.Action {
	case ledger.ActionCreated, ledger.ActionUpdated, ledger.ActionDeleted:
	default:
		slog.WarnContext(ctx, "Skipping event with unknown action",
			"action", msg.Action,
			"transaction_id", msg.TransactionID)
		return nil
	}

	row := msg
	if msg.Action != ledger.ActionCreated {
		// Annotate correction rows so readers can tell them apart
		// from the original entry.
		annotated := *msg
		annotated.Description = fmt.Sprintf("[%s] %s", msg.Action, msg.Description)
		row = &annotated
	}

	ref, err := w.appender.AppendTransaction(ctx, row)
	if err != nil {
		return fmt.Errorf("append transaction %s: %w", msg.TransactionID, err)
	}

	slog.InfoContext(ctx, "Mirrored transaction",
		"transaction_id", msg.TransactionID,
		"action", msg.Action,
		"sheet_ref", ref)

	return nil
}
