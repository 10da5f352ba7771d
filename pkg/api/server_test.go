package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helviojunior/abapscan/pkg/models"
	"github.com/helviojunior/abapscan/pkg/rules"
)

func newTestServer() *httptest.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httptest.NewServer(NewServer(logger, rules.Note2378796()).Handler())
}

func postUnits(t *testing.T, ts *httptest.Server, units []models.Unit) *http.Response {
	t.Helper()

	body, err := json.Marshal(units)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/assess-2378796", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestAssessFlaggedAndCleanUnits(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	units := []models.Unit{
		{
			PgmName: "ZDIRTY", IncName: "ZDIRTY_INC", Type: "routine",
			Code: "SELECT STAWN FROM MARC WHERE MATNR = '1'.",
		},
		{
			PgmName: "ZCLEAN", IncName: "ZCLEAN_INC", Type: "routine",
			Code: "SELECT MATNR FROM MARC WHERE WERKS = '1000'.",
		},
	}

	resp := postUnits(t, ts, units)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var results []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))

	// only the flagged unit comes back, and it carries a findings key
	require.Len(t, results, 1)
	assert.Equal(t, "ZDIRTY", results[0]["pgm_name"])
	require.Contains(t, results[0], "findings")

	findings := results[0]["findings"].([]any)
	require.Len(t, findings, 1)
	finding := findings[0].(map[string]any)
	assert.Equal(t, "SensitiveFieldDirectAccess", finding["issue_type"])
	assert.Equal(t, "error", finding["severity"])
	assert.Equal(t, "STAWN", finding["field"])
}

func TestAssessAllCleanReturnsEmptyList(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	units := []models.Unit{
		{PgmName: "Z1", IncName: "Z1_INC", Type: "routine", Code: "WRITE 'x'."},
	}

	resp := postUnits(t, ts, units)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(body)))
}

func TestAssessCleanUnitHasNoFindingsKey(t *testing.T) {
	// a clean unit never serializes an empty findings list
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewServer(logger, rules.Note2378796())

	result := s.detector.Scan(models.Unit{
		PgmName: "Z1", IncName: "Z1_INC", Type: "routine", Code: "WRITE 'x'.",
	})
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"findings"`)
}

func TestAssessRejectsInvalidUnit(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	units := []models.Unit{
		{IncName: "Z1_INC", Type: "routine", Code: "WRITE 'x'."},
	}

	resp := postUnits(t, ts, units)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var e map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Contains(t, e["detail"], "pgm_name")
}

func TestAssessRejectsBadBody(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/assess-2378796", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAssessMethodNotAllowed(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/assess-2378796")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var h map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, true, h["ok"])
	assert.Equal(t, "2378796", h["note"])
}
