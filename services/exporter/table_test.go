package exporter

import (
	"testing"

	"aulareport/lib/scrapers/moodle/feedback"
	"aulareport/lib/scrapers/moodle/grading"

	"github.com/stretchr/testify/require"
)

func TestBuildSurveyTableWidthAndBlanks(t *testing.T) {
	roster := []User{
		{FullName: "Ana Reyes", Email: "ana@example.mx"},
		{FullName: "Luis Mora", Email: "luis@example.mx"},
	}
	responses := []feedback.Response{
		{Name: "Luis Mora", Email: "luis@example.mx", Date: "hoy", Answers: []string{"G1", "Bien", "Excelente"}},
	}

	table := BuildSurveyTable(ReconcileSurvey(roster, responses))
	require.Len(t, table, 3)

	// 4 fixed columns + one per answer
	require.Len(t, table[0], 4+3)
	require.Equal(t,
		[]string{"Nombre Completo", "Grupos", "Fecha de Encuesta", "Email de Encuestados", "Pregunta 1", "Pregunta 2", "Pregunta 3"},
		table[0],
	)

	// non-respondent keeps the row with every field blank
	require.Equal(t, []string{"Ana Reyes", "", "", "", "", "", ""}, table[1])
	require.Equal(t, []string{"Luis Mora", "G1", "hoy", "luis@example.mx", "G1", "Bien", "Excelente"}, table[2])
}

func TestBuildSurveyTableEmptySource(t *testing.T) {
	roster := []User{{FullName: "Ana Reyes", Email: "ana@example.mx"}}
	table := BuildSurveyTable(ReconcileSurvey(roster, nil))
	require.Empty(t, table)
}

func TestBuildSurveyTableRowCountMatchesRoster(t *testing.T) {
	roster := make([]User, 40)
	for i := range roster {
		roster[i] = User{FullName: "X", Email: string(rune('a'+i%26)) + "@example.mx"}
	}
	responses := []feedback.Response{{Email: "a@example.mx", Answers: []string{"G1"}}}

	table := BuildSurveyTable(ReconcileSurvey(roster, responses))
	require.Len(t, table, len(roster)+1)
}

func TestBuildDeliverableTableWidth(t *testing.T) {
	set := NewDeliverableSet()
	set.Add("Tarea 1", []grading.SubmissionStatus{
		{Name: "Ana Reyes", Email: "ana@example.mx", State: grading.StateSubmitted, Graded: true, Grade: "95.00", Modified: "jueves"},
	})
	set.Add("Tarea 2", nil)

	roster := []User{
		{FullName: "Ana Reyes", Email: "ana@example.mx"},
		{FullName: "Luis Mora", Email: "luis@example.mx"},
	}
	table := BuildDeliverableTable(set, set.Records(roster))
	require.Len(t, table, 3)

	// 2 fixed columns + 3 per deliverable
	require.Len(t, table[0], 2+3*2)
	require.Equal(t, "Tarea 1 - Estado", table[0][2])
	require.Equal(t, "Tarea 2 - Última modificación", table[0][7])

	require.Equal(t, []string{"Ana Reyes", "ana@example.mx", "Entregado y calificado", "95.00", "jueves", "", "", ""}, table[1])
	require.Equal(t, []string{"Luis Mora", "luis@example.mx", "", "", "", "", "", ""}, table[2])
}

func TestBuildDeliverableTableSkippedDeliverableAbsent(t *testing.T) {
	// a deliverable whose fetch was exhausted never reaches Add, so
	// its columns do not exist for anyone
	set := NewDeliverableSet()
	set.Add("Tarea 2", []grading.SubmissionStatus{
		{Name: "Ana Reyes", Email: "ana@example.mx", State: grading.StateDraft},
	})

	roster := []User{{FullName: "Ana Reyes", Email: "ana@example.mx"}}
	table := BuildDeliverableTable(set, set.Records(roster))
	require.Len(t, table[0], 2+3)
	for _, h := range table[0] {
		require.NotContains(t, h, "Tarea 1")
	}
}

func TestBuildDeliverableTableEmptySource(t *testing.T) {
	set := NewDeliverableSet()
	table := BuildDeliverableTable(set, set.Records(nil))
	require.Empty(t, table)
}
