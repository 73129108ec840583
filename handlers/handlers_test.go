package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lexalign-backend/models"
	"lexalign-backend/service"
	"lexalign-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	casesKey       = "corpus/cases.jsonl"
	legislationKey = "corpus/legislation.json"
)

const testCases = `{"citation":"[2020] HCA 5","text":"Property settlement and superannuation; custody was not in issue."}
{"citation":"[2019] NSWDC 12","text":"A custody dispute about the children."}
{"citation":"Family Law Act 1975","text":"An Act relating to custody","type":"primary_legislation"}
`

const testLegislation = `{"act":{"name":"Family Law Act 1975"},"sections":[
{"section":"79","title":"Alteration of property interests","legal_test":"just and equitable","keywords":["property","superannuation"]},
{"section":"60CC","title":"Best interests of the child","legal_test":"best interests","keywords":["custody","parenting"]}]}`

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, seed bool) *gin.Engine {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	if seed {
		ctx := context.Background()
		require.NoError(t, store.Put(ctx, casesKey, strings.NewReader(testCases)))
		require.NoError(t, store.Put(ctx, legislationKey, strings.NewReader(testLegislation)))
	}

	corpus := service.NewCorpusService(
		service.CorpusWithSource(storage.NewBlobCorpusSource(store, casesKey, legislationKey, nil)),
		service.CorpusWithUploadStore(store, casesKey, legislationKey),
	)
	alignment := service.NewAlignmentService(service.AlignmentWithCorpus(corpus))

	r := gin.New()
	RegisterRoutes(r.Group("/api"), NewAlignmentHandler(alignment, nil), NewCorpusHandler(corpus, 1024, nil))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func doUpload(t *testing.T, r http.Handler, kind, filename, content string) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if kind != "" {
		require.NoError(t, mw.WriteField("kind", kind))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/corpus/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestAlign(t *testing.T) {
	r := newTestRouter(t, true)

	code, env := doJSON(t, r, http.MethodPost, "/api/alignment", `{"story":"We are fighting over custody of the children."}`)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	var res models.StatutoryAlignment
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, []string{"custody", "children", "child"}, res.KeywordsIdentified)
	// three hits at 1.15 outrank one hit at 1.5
	require.Len(t, res.SimilarCases, 2)
	assert.Equal(t, "[2019] NSWDC 12", res.SimilarCases[0].Citation)
	assert.InDelta(t, 3.45, res.SimilarCases[0].Score, 1e-9)
	require.NotEmpty(t, res.ApplicableLaw)
	assert.Equal(t, "60CC", res.ApplicableLaw[0].Section)
	assert.Equal(t, "parenting", res.MissingEvidence.CaseType)
}

func TestAlign_BadRequests(t *testing.T) {
	r := newTestRouter(t, true)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing story", `{}`, "INVALID_REQUEST"},
		{"malformed json", `{"story":`, "INVALID_REQUEST"},
		{"blank story", `{"story":"   "}`, "EMPTY_STORY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doJSON(t, r, http.MethodPost, "/api/alignment", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestSubsystemEndpoints(t *testing.T) {
	r := newTestRouter(t, true)

	t.Run("validate", func(t *testing.T) {
		code, env := doJSON(t, r, http.MethodPost, "/api/validate", `{"text":"Under s79 and s999 the court divided the assets"}`)
		require.Equal(t, http.StatusOK, code)
		var res models.ValidationResult
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.False(t, res.Valid)
		require.Len(t, res.Issues, 1)
		assert.Equal(t, "s999", res.Issues[0].Invalid)
		assert.InDelta(t, 0.5, res.Confidence, 1e-9)
	})

	t.Run("gaps", func(t *testing.T) {
		code, env := doJSON(t, r, http.MethodPost, "/api/gaps", `{"text":"the children are 5 and 8"}`)
		require.Equal(t, http.StatusOK, code)
		var res struct {
			CaseType string               `json:"case_type"`
			Gaps     []models.EvidenceGap `json:"gaps"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.Equal(t, "parenting", res.CaseType)
		require.Len(t, res.Gaps, 3)
		assert.Equal(t, "safety_risk", res.Gaps[0].Element)
	})

	t.Run("keywords", func(t *testing.T) {
		code, env := doJSON(t, r, http.MethodPost, "/api/keywords", `{"text":"Mediation about the house"}`)
		require.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `{"keywords":["house","mediation"]}`, string(env.Data))
	})

	t.Run("factorize", func(t *testing.T) {
		code, env := doJSON(t, r, http.MethodPost, "/api/factorize", `{"text":"no children, we own a house"}`)
		require.Equal(t, http.StatusOK, code)
		var res struct {
			Structure models.CaseStructure `json:"structure"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.Zero(t, res.Structure.ChildFactors.Count)
	})

	t.Run("precedents", func(t *testing.T) {
		code, env := doJSON(t, r, http.MethodPost, "/api/precedents", `{"story":"custody of the children","top_k":1}`)
		require.Equal(t, http.StatusOK, code)
		var res service.PrecedentsResult
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.Len(t, res.Matches, 1)

		code, env = doJSON(t, r, http.MethodPost, "/api/precedents", `{"story":"custody","top_k":-1}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
	})

	t.Run("rank cases", func(t *testing.T) {
		code, env := doJSON(t, r, http.MethodPost, "/api/cases/rank", `{"keywords":["custody"],"limit":1}`)
		require.Equal(t, http.StatusOK, code)
		var res []models.RankedCase
		require.NoError(t, json.Unmarshal(env.Data, &res))
		require.Len(t, res, 1)
		assert.Equal(t, "[2020] HCA 5", res[0].Citation)
		assert.InDelta(t, 1.5, res[0].Score, 1e-9)
		assert.Equal(t, "HCA", res[0].Court)
	})

	t.Run("rank sections", func(t *testing.T) {
		code, env := doJSON(t, r, http.MethodPost, "/api/sections/rank", `{"facts":"a dispute over property and superannuation"}`)
		require.Equal(t, http.StatusOK, code)
		var res []models.RankedSection
		require.NoError(t, json.Unmarshal(env.Data, &res))
		require.Len(t, res, 1)
		assert.Equal(t, "79", res[0].Section)
	})
}

func TestCorpusEndpoints(t *testing.T) {
	r := newTestRouter(t, false)

	code, env := doJSON(t, r, http.MethodPost, "/api/corpus/reload", ``)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "CORPUS_UNAVAILABLE", env.Error.Code)

	code, env = doUpload(t, r, "cases", "cases.jsonl", testCases)
	require.Equal(t, http.StatusCreated, code, env.Error.Message)
	var up service.UploadResult
	require.NoError(t, json.Unmarshal(env.Data, &up))
	assert.Equal(t, 3, up.Records)
	assert.Equal(t, casesKey, up.ActiveKey)
	assert.Equal(t, 2, up.Stats.Cases)
	assert.Equal(t, 1, up.Stats.LegislationRecords)

	code, env = doJSON(t, r, http.MethodGet, "/api/corpus/stats", ``)
	require.Equal(t, http.StatusOK, code)
	var stats models.CorpusStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 2, stats.Cases)
	assert.Equal(t, "storage", stats.Source)

	code, _ = doJSON(t, r, http.MethodPost, "/api/corpus/reload", ``)
	assert.Equal(t, http.StatusOK, code)
}

func TestCorpusUpload_Rejected(t *testing.T) {
	r := newTestRouter(t, true)

	tests := []struct {
		name     string
		kind     string
		filename string
		content  string
		status   int
		code     string
	}{
		{"missing kind", "", "cases.jsonl", testCases, http.StatusBadRequest, "MISSING_KIND"},
		{"missing file", "cases", "", "", http.StatusBadRequest, "MISSING_FILE"},
		{"unknown kind", "opinions", "x.json", "{}", http.StatusBadRequest, "INVALID_KIND"},
		{"no records", "cases", "cases.jsonl", "not json\n", http.StatusBadRequest, "INVALID_CORPUS"},
		{"broken legislation", "legislation", "fla.json", "{", http.StatusBadRequest, "INVALID_CORPUS"},
		{"too large", "cases", "big.jsonl", strings.Repeat("x", 2048), http.StatusBadRequest, "FILE_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doUpload(t, r, tt.kind, tt.filename, tt.content)
			assert.Equal(t, tt.status, status)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}
