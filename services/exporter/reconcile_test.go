package exporter

import (
	"testing"

	"aulareport/lib/scrapers/moodle/feedback"
	"aulareport/lib/scrapers/moodle/grading"

	"github.com/stretchr/testify/require"
)

func TestReconcileSurveyOneRowPerUser(t *testing.T) {
	roster := []User{
		{FullName: "Ana Reyes", Email: "ana@example.mx"},
		{FullName: "Luis Mora", Email: "luis@example.mx"},
	}
	responses := []feedback.Response{
		{Name: "Luis Mora", Email: "luis@example.mx", Date: "hoy", Answers: []string{"G1", "Bien"}},
	}

	rows := ReconcileSurvey(roster, responses)
	require.Len(t, rows, 2)
	require.Nil(t, rows[0].Response)
	require.NotNil(t, rows[1].Response)
	require.Equal(t, "luis@example.mx", rows[1].Response.Email)
}

func TestReconcileSurveyFirstMatchWins(t *testing.T) {
	roster := []User{{FullName: "Ana Reyes", Email: "ana@example.mx"}}
	responses := []feedback.Response{
		{Email: "ana@example.mx", Answers: []string{"primera"}},
		{Email: "ana@example.mx", Answers: []string{"segunda"}},
	}

	rows := ReconcileSurvey(roster, responses)
	require.Len(t, rows, 1)
	require.Equal(t, []string{"primera"}, rows[0].Response.Answers)
}

func TestReconcileSurveyIsByteExact(t *testing.T) {
	roster := []User{{FullName: "Ana Reyes", Email: "Ana@Example.mx"}}
	responses := []feedback.Response{{Email: "ana@example.mx"}}

	rows := ReconcileSurvey(roster, responses)
	require.Nil(t, rows[0].Response)
}

func TestDeliverableSetAccumulates(t *testing.T) {
	set := NewDeliverableSet()
	set.Add("Tarea 1", []grading.SubmissionStatus{
		{Name: "Ana Reyes", Email: "ana@example.mx", State: grading.StateSubmitted, Graded: true, Grade: "95.00", Modified: "jueves"},
	})
	set.Add("Tarea 2", []grading.SubmissionStatus{
		{Name: "Ana Reyes", Email: "ana@example.mx", State: grading.StateDraft, Modified: "lunes"},
		{Name: "Invitado Externo", Email: "ext@example.mx", State: grading.StateSubmitted, Modified: "martes"},
	})

	roster := []User{
		{FullName: "Ana Reyes", Email: "ana@example.mx"},
		{FullName: "Luis Mora", Email: "luis@example.mx"},
	}
	records := set.Records(roster)
	require.Len(t, records, 3)

	// roster order first
	require.Equal(t, "ana@example.mx", records[0].Email)
	require.Equal(t, "Entregado y calificado", records[0].ByLabel["Tarea 1"].Estado)
	require.Equal(t, "Borrador", records[0].ByLabel["Tarea 2"].Estado)

	// roster user with no deliverable data keeps a blank record
	require.Equal(t, "luis@example.mx", records[1].Email)
	require.Empty(t, records[1].ByLabel)

	// emails only present in deliverable data are retained at the end
	require.Equal(t, "ext@example.mx", records[2].Email)
	require.Equal(t, "Entregado", records[2].ByLabel["Tarea 2"].Estado)
}

func TestDeliverableSetFirstSeenWinsWithinLabel(t *testing.T) {
	set := NewDeliverableSet()
	set.Add("Tarea 1", []grading.SubmissionStatus{
		{Name: "Ana Reyes", Email: "ana@example.mx", State: grading.StateSubmitted},
		{Name: "Ana Reyes", Email: "ana@example.mx", State: grading.StateDraft},
	})

	records := set.Records(nil)
	require.Len(t, records, 1)
	require.Equal(t, "Entregado", records[0].ByLabel["Tarea 1"].Estado)
}

func TestDeliverableRecordsPreferRosterName(t *testing.T) {
	set := NewDeliverableSet()
	set.Add("Tarea 1", []grading.SubmissionStatus{
		{Name: "REYES ANA", Email: "ana@example.mx", State: grading.StateSubmitted},
	})

	records := set.Records([]User{{FullName: "Ana Reyes", Email: "ana@example.mx"}})
	require.Equal(t, "Ana Reyes", records[0].Name)
}
