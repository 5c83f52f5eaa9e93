package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zip"
	"github.com/mwiater/perfview/internal/appconfig"
	"github.com/mwiater/perfview/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	beforeLog = "waypoint_index;player_position;player_rotation;fps_measure;VRAM MB\n0;1 2 3;4 5;50;1000\n1;1 2 3;4 5;50;1200\n2;1 2 3;4 5;50;1100\n"
	afterLog  = "waypoint_index;player_position;player_rotation;fps_measure;VRAM MB\n0;1 2 3;4 5;55;1100\n1;1 2 3;4 5;55;1000\n2;1 2 3;4 5;55;900\n"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newHandler(t *testing.T, cfg appconfig.Config) http.Handler {
	t.Helper()
	return New(cfg, session.NewStore()).RegisterRoutes()
}

func do(h http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func upload(t *testing.T, h http.Handler, files map[string]string, order ...string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range order {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return do(h, http.MethodPost, "/api/session", &body, mw.FormDataContentType())
}

func loaded(t *testing.T) http.Handler {
	t.Helper()
	h := newHandler(t, appconfig.Config{})
	rec := upload(t, h, map[string]string{"before.csv": beforeLog, "after.csv": afterLog}, "before.csv", "after.csv")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return h
}

func TestHealthAndIndex(t *testing.T) {
	h := newHandler(t, appconfig.Config{ReportTitle: "Route check"})

	rec := do(h, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","loaded":false}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = do(h, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Route check</title>")
}

func TestNoSession(t *testing.T) {
	h := newHandler(t, appconfig.Config{})
	for _, target := range []string{"/api/chart", "/api/summary", "/api/report", "/api/chart.png"} {
		rec := do(h, http.MethodGet, target, nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Contains(t, rec.Body.String(), session.ErrNoSession.Error(), target)
	}
}

func TestUpload(t *testing.T) {
	h := newHandler(t, appconfig.Config{})
	rec := upload(t, h, map[string]string{"b.csv": afterLog, "a.csv": beforeLog}, "b.csv", "a.csv")
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		ID       string   `json:"id"`
		Datasets []string `json:"datasets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.ID)
	assert.Equal(t, []string{"b.csv", "a.csv"}, body.Datasets, "selection order is kept")

	rec = upload(t, h, map[string]string{}, []string{}...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no capture files")

	rec = upload(t, h, map[string]string{"empty.csv": ""}, "empty.csv")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadTooLarge(t *testing.T) {
	h := newHandler(t, appconfig.Config{MaxUploadMB: 1})
	big := strings.Repeat("0;1 2 3;4 5;60\n", 100000)
	rec := upload(t, h, map[string]string{"big.csv": "waypoint_index;player_position;player_rotation;fps_measure\n" + big}, "big.csv")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestChartEndpoints(t *testing.T) {
	h := loaded(t)

	rec := do(h, http.MethodGet, "/api/chart?metric=fpsMeasure", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var setup struct {
		Labels        []string `json:"labels"`
		ReferenceLine float64  `json:"referenceLine"`
		Datasets      []struct {
			Label  string `json:"label"`
			Points []struct {
				Teleport string `json:"teleport"`
			} `json:"points"`
		} `json:"datasets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &setup))
	assert.Len(t, setup.Labels, 3)
	assert.Equal(t, 60.0, setup.ReferenceLine)
	assert.Equal(t, "tp 1, 2, 3, 4, 5", setup.Datasets[0].Points[0].Teleport)

	rec = do(h, http.MethodGet, "/api/chart?metric=nope", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(h, http.MethodGet, "/api/chart?metric=playerPosition", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodGet, "/api/chart.png?metric=vram", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = do(h, http.MethodGet, "/api/chart.png?metric=gpuUtilization", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSummaryAndNames(t *testing.T) {
	h := loaded(t)

	rec := do(h, http.MethodGet, "/api/summary?placement=beforeLast", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Layout struct {
			Header []string `json:"header"`
		} `json:"layout"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"tableName", "report #1", "delta", "report #2"}, body.Layout.Header)

	rec = do(h, http.MethodGet, "/api/summary?placement=sideways", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	names := `{"legend":{"after.csv":"patched"},"reportName":"Nightly","tableTitle":"Build 42","columns":["old","new"]}`
	rec = do(h, http.MethodPut, "/api/session/names", strings.NewReader(names), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(h, http.MethodGet, "/api/summary", nil, "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Build 42", "old", "new", "delta"}, body.Layout.Header)

	rec = do(h, http.MethodPut, "/api/session/names", strings.NewReader(`{"legend":{"ghost.csv":"x"}}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReport(t *testing.T) {
	h := loaded(t)
	rec := do(h, http.MethodGet, "/api/report?metric=vram", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		DefaultMetric string                     `json:"defaultMetric"`
		Charts        map[string]json.RawMessage `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "vram", payload.DefaultMetric)
	assert.Contains(t, payload.Charts, "fpsMeasure")
}

func TestExport(t *testing.T) {
	h := loaded(t)
	names := `{"legend":{"after.csv":"patched"},"reportName":"Nightly"}`
	rec := do(h, http.MethodPut, "/api/session/names", strings.NewReader(names), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodPost, "/api/export", strings.NewReader(`{"comment":"looks good","metric":"fpsMeasure"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="Nightly.zip"`)

	data := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var entries []string
	for _, f := range zr.File {
		entries = append(entries, f.Name)
	}
	assert.ElementsMatch(t, []string{"before.csv", "patched.csv", "screenshot.png", "comment.txt", "summary.csv", "manifest.yaml"}, entries)
}

func TestContentDisposition(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii", in: "Nightly 42.zip", want: `attachment; filename="Nightly 42.zip"`},
		{name: "utf8", in: "Résumé.zip", want: `attachment; filename="R_sum_.zip"; filename*=UTF-8''R%C3%A9sum%C3%A9.zip`},
		{name: "reserved", in: "a'b=c.zip", want: `attachment; filename="a'b=c.zip"`},
		{name: "encoded reserved", in: "é'=.zip", want: `attachment; filename="_'=.zip"; filename*=UTF-8''%C3%A9%27%3D.zip`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contentDisposition(tt.in))
		})
	}
}

func TestExportNonASCIIName(t *testing.T) {
	h := loaded(t)
	rec := do(h, http.MethodPut, "/api/session/names", strings.NewReader(`{"reportName":"Café build"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodPost, "/api/export", strings.NewReader(`{"metric":"fpsMeasure"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	header := rec.Header().Get("Content-Disposition")
	assert.Contains(t, header, `filename="Caf_ build.zip"`)
	assert.Contains(t, header, `filename*=UTF-8''Caf%C3%A9%20build.zip`)
	assert.NotContains(t, header, `é`)
}
