package sink

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var tracer = otel.Tracer("exporter/sink")

// GoogleSheets publishes to a shared Google Sheets spreadsheet through
// a service account.
type GoogleSheets struct {
	service       *sheets.Service
	spreadsheetId string
}

func NewGoogleSheets(ctx context.Context, credentialsFile, spreadsheetId string) (*GoogleSheets, error) {
	service, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &GoogleSheets{
		service:       service,
		spreadsheetId: spreadsheetId,
	}, nil
}

func toValueRange(rangeStr string, rows [][]string) *sheets.ValueRange {
	values := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}
	return &sheets.ValueRange{Range: rangeStr, Values: values}
}

func (s *GoogleSheets) ensureHistorySheet(ctx context.Context) error {
	spreadsheet, err := s.service.Spreadsheets.Get(s.spreadsheetId).Context(ctx).Do()
	if err != nil {
		return err
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == HistorySheet {
			return nil
		}
	}

	_, err = s.service.Spreadsheets.BatchUpdate(s.spreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: HistorySheet},
			},
		}},
	}).Context(ctx).Do()
	return err
}

func (s *GoogleSheets) update(ctx context.Context, rangeStr string, rows [][]string) error {
	_, err := s.service.Spreadsheets.Values.
		Update(s.spreadsheetId, rangeStr, toValueRange(rangeStr, rows)).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (s *GoogleSheets) Publish(ctx context.Context, worksheet string, table [][]string, stamp time.Time) error {
	ctx, span := tracer.Start(ctx, "GoogleSheets:Publish")
	defer span.End()

	span.SetAttributes(
		attribute.String("worksheet", worksheet),
		attribute.Int("rows", len(table)),
	)

	// full overwrite, stale rows from a larger previous run must not
	// survive underneath the new table
	_, err := s.service.Spreadsheets.Values.
		Clear(s.spreadsheetId, fmt.Sprintf("'%s'", worksheet), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to clear worksheet")
		return fmt.Errorf("failed to clear %q: %w", worksheet, err)
	}

	err = s.update(ctx, fmt.Sprintf("'%s'!A1", worksheet), [][]string{{banner(stamp)}})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write banner")
		return fmt.Errorf("failed to write banner to %q: %w", worksheet, err)
	}

	err = s.update(ctx, fmt.Sprintf("'%s'!B1", worksheet), table)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write table")
		return fmt.Errorf("failed to write table to %q: %w", worksheet, err)
	}

	err = s.ensureHistorySheet(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to ensure history sheet")
		return fmt.Errorf("failed to ensure %q sheet: %w", HistorySheet, err)
	}

	appendRange := fmt.Sprintf("'%s'!A1", HistorySheet)
	_, err = s.service.Spreadsheets.Values.
		Append(s.spreadsheetId, appendRange, toValueRange(appendRange, [][]string{historyRow(stamp)})).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to append history row")
		return fmt.Errorf("failed to append to %q: %w", HistorySheet, err)
	}

	return nil
}
