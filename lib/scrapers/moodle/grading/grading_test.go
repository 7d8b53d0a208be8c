package grading

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"aulareport/lib/scrapers/moodle/core"

	"github.com/stretchr/testify/require"
)

func TestStatusesRecoversAfterTransientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write(gradingPage(statusRow(
			"Ana Reyes", "ana@example.mx",
			`<div class="submissionstatussubmitted">Enviado</div>`,
			"88.00", "-",
		)))
	}))
	defer server.Close()

	coreClient, err := core.NewClient(context.Background(), core.ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	client := NewClient(coreClient)

	statuses, err := client.Statuses(context.Background(), "441")
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	require.Equal(t, int32(3), calls.Load())
}

func TestStatusesExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	coreClient, err := core.NewClient(context.Background(), core.ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	client := NewClient(coreClient)

	_, err = client.Statuses(context.Background(), "441")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoData)
	require.Equal(t, int32(3), calls.Load())
}
