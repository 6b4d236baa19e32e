package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/mdtree/internal/config"
	"github.com/dgallion1/mdtree/internal/doctree"
	"github.com/dgallion1/mdtree/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	cfg := config.Config{
		Port:               "0",
		APIKey:             apiKey,
		MaxUploadBytes:     1 << 16,
		MaxInputBytes:      1 << 12,
		MaxDepth:           16,
		MaxConcurrentParse: 2,
		CacheTTL:           time.Minute,
		StatsWindow:        time.Minute,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(pipeline.NewOrchestrator(cfg, log), log, cfg)
}

func do(t *testing.T, s *Server, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestParse_JSON(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(t, s, http.MethodPost, "/api/parse", "application/json",
		strings.NewReader(`{"title":"doc","text":"> hi\n+ see `+"`x`"+`\n"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "doc", res.Tree.Title)
	require.Len(t, res.Tree.Children, 2)
	assert.Equal(t, doctree.Quote, res.Tree.Children[0].Kind)
	assert.Equal(t, doctree.BulletPoint, res.Tree.Children[1].Kind)
	assert.Equal(t, 1, res.Counts.CodeSpans)
	assert.Equal(t, res.DocID, rec.Header().Get("X-Doc-ID"))
}

func TestParse_Formats(t *testing.T) {
	s := newTestServer(t, "")
	body := `{"text":"+ one\n"}`

	rec := do(t, s, http.MethodPost, "/api/parse?format=html", "application/json", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<ul>\n<li>one</li>\n</ul>\n", rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/parse?format=outline", "application/json", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BULLET_POINT \"one\\n\"\n", rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/parse?format=xml", "application/json", strings.NewReader(body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParse_InvalidBody(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(t, s, http.MethodPost, "/api/parse", "application/json", strings.NewReader(`{not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid json body")
}

func TestParse_TooLarge(t *testing.T) {
	s := newTestServer(t, "")
	payload, err := json.Marshal(pipeline.Input{Text: strings.Repeat("x", 5000)})
	require.NoError(t, err)

	rec := do(t, s, http.MethodPost, "/api/parse", "application/json", bytes.NewReader(payload))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestParseFile(t *testing.T) {
	s := newTestServer(t, "")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "../../notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("> quoted\nplain\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec := do(t, s, http.MethodPost, "/api/parse/file", mw.FormDataContentType(), &body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "notes", res.Tree.Title)
	require.Len(t, res.Tree.Children, 2)
	assert.Equal(t, "quoted\n", res.Tree.Children[0].Text)
}

func TestParseFile_UnsupportedType(t *testing.T) {
	s := newTestServer(t, "")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "image.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, mw.Close())

	rec := do(t, s, http.MethodPost, "/api/parse/file", mw.FormDataContentType(), &body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported file type")
}

func TestParseBatch(t *testing.T) {
	s := newTestServer(t, "")
	body := `{"documents":[{"title":"a","text":"+ one\n"},{"title":"b","text":"` + strings.Repeat("y", 5000) + `"}]}`

	rec := do(t, s, http.MethodPost, "/api/parse/batch", "application/json", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Results []map[string]any `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.NotEmpty(t, resp.Results[0]["doc_id"])
	assert.Contains(t, resp.Results[1]["error"], "input too large")

	rec = do(t, s, http.MethodPost, "/api/parse/batch", "application/json", strings.NewReader(`{"documents":[]}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReconstruct(t *testing.T) {
	s := newTestServer(t, "")
	input := "text `c`\n> q\n+ b `x`\n"

	rec := do(t, s, http.MethodPost, "/api/parse", "application/json",
		strings.NewReader(mustJSON(t, pipeline.Input{Text: input})))
	require.Equal(t, http.StatusOK, rec.Code)

	var res pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	rec = do(t, s, http.MethodPost, "/api/reconstruct", "application/json",
		strings.NewReader(mustJSON(t, res.Tree)))
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, input, out["text"])
}

func TestStats(t *testing.T) {
	s := newTestServer(t, "")
	do(t, s, http.MethodPost, "/api/parse", "application/json", strings.NewReader(`{"text":"x"}`))

	rec := do(t, s, http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Parse struct {
			Count  int `json:"count"`
			Totals struct {
				Documents int `json:"documents"`
			} `json:"totals"`
		} `json:"parse"`
		CacheEntries int `json:"cache_entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Parse.Count)
	assert.Equal(t, 1, resp.Parse.Totals.Documents)
	assert.Equal(t, 1, resp.CacheEntries)
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, "secret")

	rec := do(t, s, http.MethodGet, "/api/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health stays public.
	rec = do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"notes.md", "notes.md"},
		{"../../etc/passwd", "passwd"},
		{`a\b.txt`, "a_b.txt"},
		{"", "unnamed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestRequestLog(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	cfg := config.Config{MaxInputBytes: 1 << 12, MaxUploadBytes: 1 << 16}
	s := NewServer(pipeline.NewOrchestrator(cfg, log), log, cfg)

	rec := do(t, s, http.MethodPost, "/api/parse", "application/json", strings.NewReader(`{"text":"+ a\n"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var entry struct {
		Msg    string `json:"msg"`
		Path   string `json:"path"`
		Status int    `json:"status"`
		Bytes  int    `json:"bytes"`
		DocID  string `json:"doc_id"`
	}
	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	assert.Equal(t, "request", entry.Msg)
	assert.Equal(t, "/api/parse", entry.Path)
	assert.Equal(t, http.StatusOK, entry.Status)
	assert.Equal(t, rec.Body.Len(), entry.Bytes)
	assert.Equal(t, rec.Header().Get("X-Doc-ID"), entry.DocID)
	assert.NotEmpty(t, entry.DocID)
}

func TestAuth_JSONError(t *testing.T) {
	s := newTestServer(t, "secret")
	rec := do(t, s, http.MethodPost, "/api/parse", "application/json", strings.NewReader(`{"text":"x"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"missing authorization"}`, rec.Body.String())
}
