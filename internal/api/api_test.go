package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ezBadminton/ttrank/internal/config"
	"github.com/ezBadminton/ttrank/internal/metrics"
	"github.com/ezBadminton/ttrank/internal/report"
	"github.com/ezBadminton/ttrank/internal/service"
	"github.com/ezBadminton/ttrank/internal/spreadsheet"
)

const groupYAML = `
name: Group A
players: [Anna, Ben, Carl]
sets:
  - {home: Anna, away: Ben, score: "11-9,11-7,11-3"}
  - {home: Ben, away: Carl, score: "11-9,11-7,11-3"}
  - {home: Anna, away: Carl, score: "11-9,11-7,11-3"}
`

func newRouter(t *testing.T, maxBodyBytes int64) (http.Handler, *metrics.Manager) {
	t.Helper()
	m := metrics.NewManager()
	svc := service.New(config.New(), zap.NewNop(), m)
	return NewHandler(svc, m, zap.NewNop(), maxBodyBytes).Router(), m
}

func do(router http.Handler, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router, _ := newRouter(t, 1<<20)

	rec := do(router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRankYAML(t *testing.T) {
	router, _ := newRouter(t, 1<<20)

	rec := do(router, http.MethodPost, "/v1/rankings", "application/yaml", strings.NewReader(groupYAML))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rep report.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, "Group A", rep.Name)
	assert.NotEmpty(t, rep.RunID)
	require.Len(t, rep.Standings, 3)
	assert.Equal(t, "Anna", rep.Standings[0].Player)
	assert.Equal(t, "Ben", rep.Standings[1].Player)
	assert.Equal(t, "Carl", rep.Standings[2].Player)
}

func TestRankJSON(t *testing.T) {
	router, _ := newRouter(t, 1<<20)

	body := `{"sets":[{"home":"A","away":"B","score":"wo:away"}]}`
	rec := do(router, http.MethodPost, "/v1/rankings", "application/json", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rep report.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, []string{"A"}, rep.Unranked)
	require.Len(t, rep.Standings, 1)
	assert.Equal(t, "B", rep.Standings[0].Player)
}

func TestRankWorkbook(t *testing.T) {
	router, _ := newRouter(t, 1<<20)

	// Upload a workbook and download the report workbook
	upload := excelize.NewFile()
	sheet := upload.GetSheetName(upload.GetActiveSheetIndex())
	for i, row := range [][]any{{"Home", "Away", "Score"}, {"A", "B", "3-11,3-11,3-11"}} {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, upload.SetSheetRow(sheet, axis, &row))
	}
	var body bytes.Buffer
	require.NoError(t, upload.Write(&body))
	require.NoError(t, upload.Close())

	rec := do(router, http.MethodPost, "/v1/rankings.xlsx", xlsxContentType, &body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(spreadsheet.StandingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "B", rows[1][1])
}

func TestRankBatch(t *testing.T) {
	router, _ := newRouter(t, 1<<20)

	stream := groupYAML + "---\nname: Group B\nsets: [{home: X, away: Y, score: \"11-0,11-0,11-0\"}]\n"
	rec := do(router, http.MethodPost, "/v1/rankings/batch", "", strings.NewReader(stream))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var reports []report.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "Group A", reports[0].Name)
	assert.Equal(t, "Group B", reports[1].Name)
	assert.Equal(t, "X", reports[1].Standings[0].Player)
}

func TestRankErrors(t *testing.T) {
	router, _ := newRouter(t, 256)

	cases := []struct {
		name        string
		path        string
		contentType string
		body        string
		status      int
	}{
		{"unknown player", "/v1/rankings", "application/yaml", "players: [A]\nsets: [{home: A, away: B, score: ''}]\n", http.StatusBadRequest},
		{"bad score", "/v1/rankings", "application/yaml", "sets: [{home: A, away: B, score: '11:9'}]\n", http.StatusBadRequest},
		{"bad rules", "/v1/rankings", "application/json", `{"rules":{"bestOf":0},"sets":[]}`, http.StatusBadRequest},
		{"unknown field", "/v1/rankings", "application/json", `{"teams":[]}`, http.StatusBadRequest},
		{"unknown format", "/v1/rankings", "text/csv", "A,B,11-0", http.StatusBadRequest},
		{"not a workbook", "/v1/rankings.xlsx", xlsxContentType, "A,B", http.StatusBadRequest},
		{"too large", "/v1/rankings", "application/yaml", "name: " + strings.Repeat("x", 300), http.StatusRequestEntityTooLarge},
		{"batch too large", "/v1/rankings/batch", "application/yaml", "name: " + strings.Repeat("x", 300), http.StatusRequestEntityTooLarge},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := do(router, http.MethodPost, c.path, c.contentType, strings.NewReader(c.body))
			assert.Equal(t, c.status, rec.Code, rec.Body.String())

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestRequestMetrics(t *testing.T) {
	router, _ := newRouter(t, 1<<20)

	do(router, http.MethodPost, "/v1/rankings", "application/yaml", strings.NewReader(groupYAML))
	do(router, http.MethodPost, "/v1/rankings", "application/json", strings.NewReader("{"))
	do(router, http.MethodGet, "/nowhere", "", nil)

	rec := do(router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `ttrank_http_requests_total{method="POST",route="/v1/rankings",status="200"} 1`)
	assert.Contains(t, body, `ttrank_http_requests_total{method="POST",route="/v1/rankings",status="400"} 1`)
	assert.Contains(t, body, `ttrank_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, body, `ttrank_rankings_total{outcome="ok"} 1`)
}

func TestServe(t *testing.T) {
	router, _ := newRouter(t, 1<<20)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, listener, router, zap.NewNop())
	}()

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", listener.Addr()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
