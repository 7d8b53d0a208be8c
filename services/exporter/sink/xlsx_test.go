package sink

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXlsxPublish(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reporte.xlsx")
	s := NewXlsx(path)

	table := [][]string{
		{"Nombre Completo", "Email"},
		{"Ana Reyes", "ana@example.mx"},
	}
	stamp := time.Date(2025, time.March, 7, 18, 0, 0, 0, time.UTC)

	err := s.Publish(context.Background(), "Encuesta", table, stamp)
	require.NoError(t, err)

	file, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()

	bannerCell, err := file.GetCellValue("Encuesta", "A1")
	require.NoError(t, err)
	require.Equal(t, "Actualizado el: 2025-03-07 12:00:00", bannerCell)

	// table starts at B1, leaving the banner column alone
	header, err := file.GetCellValue("Encuesta", "B1")
	require.NoError(t, err)
	require.Equal(t, "Nombre Completo", header)

	email, err := file.GetCellValue("Encuesta", "C2")
	require.NoError(t, err)
	require.Equal(t, "ana@example.mx", email)

	history, err := file.GetRows(HistorySheet)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, []string{"Ejecución registrada el:", "2025-03-07 12:00:00"}, history[0])
}

func TestXlsxPublishOverwritesAndAppendsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reporte.xlsx")
	s := NewXlsx(path)

	big := [][]string{
		{"Nombre Completo", "Email"},
		{"Ana Reyes", "ana@example.mx"},
		{"Luis Mora", "luis@example.mx"},
	}
	first := time.Date(2025, time.March, 7, 18, 0, 0, 0, time.UTC)
	require.NoError(t, s.Publish(context.Background(), "Encuesta", big, first))

	small := [][]string{
		{"Nombre Completo", "Email"},
		{"Ana Reyes", "ana@example.mx"},
	}
	second := time.Date(2025, time.March, 14, 18, 0, 0, 0, time.UTC)
	require.NoError(t, s.Publish(context.Background(), "Encuesta", small, second))

	file, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()

	// the worksheet is a full overwrite, Luis' row must not survive
	leftover, err := file.GetCellValue("Encuesta", "B3")
	require.NoError(t, err)
	require.Equal(t, "", leftover)

	// the history sheet is append-only across runs
	history, err := file.GetRows(HistorySheet)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "2025-03-07 12:00:00", history[0][1])
	require.Equal(t, "2025-03-14 12:00:00", history[1][1])
}
