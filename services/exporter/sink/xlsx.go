package sink

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Xlsx publishes into a local workbook with the same layout the Google
// Sheets sink produces, for runs without service-account credentials.
type Xlsx struct {
	path string
}

func NewXlsx(path string) *Xlsx {
	return &Xlsx{path: path}
}

func (x *Xlsx) open() (*excelize.File, error) {
	_, err := os.Stat(x.path)
	if os.IsNotExist(err) {
		return excelize.NewFile(), nil
	}
	if err != nil {
		return nil, err
	}
	return excelize.OpenFile(x.path)
}

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		panic(err)
	}
	return name
}

func (x *Xlsx) Publish(ctx context.Context, worksheet string, table [][]string, stamp time.Time) error {
	_, span := tracer.Start(ctx, "Xlsx:Publish")
	defer span.End()

	span.SetAttributes(
		attribute.String("worksheet", worksheet),
		attribute.String("path", x.path),
		attribute.Int("rows", len(table)),
	)

	file, err := x.open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open workbook")
		return fmt.Errorf("failed to open %q: %w", x.path, err)
	}
	defer file.Close()

	// drop and recreate instead of clearing cell by cell, overwrite
	// semantics match the sheets sink
	if idx, _ := file.GetSheetIndex(worksheet); idx != -1 {
		err = file.DeleteSheet(worksheet)
		if err != nil {
			return fmt.Errorf("failed to reset %q: %w", worksheet, err)
		}
	}
	_, err = file.NewSheet(worksheet)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", worksheet, err)
	}

	err = file.SetCellValue(worksheet, "A1", banner(stamp))
	if err != nil {
		return err
	}
	for i, row := range table {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		err = file.SetSheetRow(worksheet, cellName(2, i+1), &cells)
		if err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", i+1, worksheet, err)
		}
	}

	err = x.appendHistory(file, stamp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to append history row")
		return err
	}

	// the workbook starts out with a default sheet that never gets
	// data; keep it out of the saved file
	if idx, _ := file.GetSheetIndex("Sheet1"); idx != -1 && worksheet != "Sheet1" {
		_ = file.DeleteSheet("Sheet1")
	}

	err = file.SaveAs(x.path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save workbook")
		return fmt.Errorf("failed to save %q: %w", x.path, err)
	}
	return nil
}

func (x *Xlsx) appendHistory(file *excelize.File, stamp time.Time) error {
	if idx, _ := file.GetSheetIndex(HistorySheet); idx == -1 {
		_, err := file.NewSheet(HistorySheet)
		if err != nil {
			return fmt.Errorf("failed to create %q: %w", HistorySheet, err)
		}
	}

	rows, err := file.GetRows(HistorySheet)
	if err != nil {
		return err
	}

	record := historyRow(stamp)
	cells := make([]any, len(record))
	for i, cell := range record {
		cells[i] = cell
	}
	return file.SetSheetRow(HistorySheet, cellName(1, len(rows)+1), &cells)
}
