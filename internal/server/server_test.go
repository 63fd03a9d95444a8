package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"seqtree-core/matrix"
	"seqtree-core/tree"

	"seqtree/internal/appcore"
	"seqtree/internal/assembler"
	"seqtree/internal/cache"
	"seqtree/internal/config"
	"seqtree/internal/metrics"
	"seqtree/pkg/api"
)

type fakeAssembler struct{ err error }

func (f fakeAssembler) Assemble(_ context.Context, m *matrix.DistanceMatrix) (tree.Topology, error) {
	if f.err != nil {
		return tree.Topology{}, f.err
	}
	return tree.ParseTopology("("+strings.Join(m.Labels(), ",")+");", m.Labels())
}

type fixture struct {
	srv     *httptest.Server
	metrics *metrics.Collector
}

func newFixture(t *testing.T, tweak func(*config.Config, *appcore.Builder)) fixture {
	t.Helper()
	cfg := config.Default()
	b := appcore.NewBuilder(cfg, zap.NewNop())
	if tweak != nil {
		tweak(cfg, b)
		b.Matrix = cfg.Matrix
	}
	m := metrics.New("seqtree")
	ts := httptest.NewServer(New(cfg, b, m, zap.NewNop()).Handler())
	t.Cleanup(ts.Close)
	return fixture{srv: ts, metrics: m}
}

func (f fixture) post(t *testing.T, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf []byte
	switch v := body.(type) {
	case string:
		buf = []byte(v)
	default:
		var err error
		buf, err = json.Marshal(v)
		require.NoError(t, err)
	}
	resp, err := http.Post(f.srv.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decodeError(t *testing.T, body []byte) api.ErrorV1 {
	t.Helper()
	var e api.ErrorV1
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e
}

const fasta = ">human\nACGT\n>mouse\nAC\n>fly\nAGGT\n"

func TestHealthAndRequestID(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := http.Get(f.srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = uuid.Parse(resp.Header.Get("X-Request-ID"))
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, f.srv.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestBuild_AllPairs(t *testing.T) {
	f := newFixture(t, nil)
	resp, body := f.post(t, "/api/v1/build", api.BuildRequestV1{Format: "fasta", Text: fasta})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got api.BuildResultV1
	require.NoError(t, json.Unmarshal(body, &got))
	want := api.BuildResultV1{
		Labels:    []string{"human", "mouse", "fly"},
		Matrix:    [][]float64{{0, 2, 1}, {2, 0, 3}, {1, 3, 0}},
		LeafCount: 3,
		Strategy:  "all-pairs",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Builds.WithLabelValues("all-pairs", "ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.Alignments))
}

func TestBuild_ReferenceJSON(t *testing.T) {
	f := newFixture(t, nil)
	text := `[{"name":"a","sequence":"ACGT"},{"name":"b","sequence":"AC"}]`
	resp, body := f.post(t, "/api/v1/build", api.BuildRequestV1{Format: "json", Text: text, Strategy: "reference"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got api.BuildResultV1
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "a", got.Reference)
	assert.Equal(t, []api.RecordV1{{Name: "a", Sequence: "ACGT"}, {Name: "b", Sequence: "AC--"}}, got.Aligned)
	assert.Equal(t, 2.0, got.Matrix[0][1])
}

func TestBuild_Tree(t *testing.T) {
	f := newFixture(t, func(_ *config.Config, b *appcore.Builder) { b.Assembler = fakeAssembler{} })
	resp, body := f.post(t, "/api/v1/build", api.BuildRequestV1{Format: "fasta", Text: fasta, Tree: true})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got api.BuildResultV1
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "(human,mouse,fly);", got.Newick)
	assert.Equal(t, 3, got.LeafCount)
}

func TestBuild_CaseSensitiveOverride(t *testing.T) {
	f := newFixture(t, nil)
	strict := true
	resp, body := f.post(t, "/api/v1/build", api.BuildRequestV1{Format: "fasta", Text: ">a\nacgt\n>b\nACGT\n", CaseSensitive: &strict})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var got api.BuildResultV1
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 4.0, got.Matrix[0][1])

	resp, body = f.post(t, "/api/v1/build", api.BuildRequestV1{Format: "fasta", Text: ">a\nacgt\n>b\nACGT\n"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Zero(t, got.Matrix[0][1])
}

func TestBuild_MemoryCache(t *testing.T) {
	f := newFixture(t, func(_ *config.Config, b *appcore.Builder) { b.Cache = cache.NewMemory(100) })
	for i := 0; i < 2; i++ {
		resp, body := f.post(t, "/api/v1/build", api.BuildRequestV1{Format: "fasta", Text: fasta})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.Alignments))
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.CacheHits))
}

func TestBuild_Errors(t *testing.T) {
	cases := []struct {
		name   string
		tweak  func(*config.Config, *appcore.Builder)
		body   any
		status int
		typ    string
	}{
		{"not json", nil, "{", http.StatusBadRequest, "MALFORMED_INPUT"},
		{"unknown field", nil, `{"format":"fasta","text":">a\nA","bogus":1}`, http.StatusBadRequest, "MALFORMED_INPUT"},
		{"trailing data", nil, `{"format":"fasta","text":">a\nA"} {}`, http.StatusBadRequest, "MALFORMED_INPUT"},
		{"bad format", nil, api.BuildRequestV1{Format: "xml", Text: "x"}, http.StatusBadRequest, "MALFORMED_INPUT"},
		{"missing text", nil, api.BuildRequestV1{Format: "fasta"}, http.StatusBadRequest, "MALFORMED_INPUT"},
		{"bad strategy", nil, api.BuildRequestV1{Format: "fasta", Text: fasta, Strategy: "upgma"}, http.StatusBadRequest, "MALFORMED_INPUT"},
		{"bad sequences", nil, api.BuildRequestV1{Format: "json", Text: `{"a":1}`}, http.StatusBadRequest, "MALFORMED_INPUT"},
		{"no fasta header", nil, api.BuildRequestV1{Format: "fasta", Text: "ACGT"}, http.StatusBadRequest, "MALFORMED_INPUT"},
		{"one record", nil, api.BuildRequestV1{Format: "fasta", Text: ">a\nACGT\n"}, http.StatusUnprocessableEntity, "INSUFFICIENT_DATA"},
		{"empty array", nil, api.BuildRequestV1{Format: "json", Text: "[]"}, http.StatusUnprocessableEntity, "INSUFFICIENT_DATA"},
		{
			"over budget",
			func(c *config.Config, _ *appcore.Builder) { c.Matrix.MaxCells = 10 },
			api.BuildRequestV1{Format: "fasta", Text: fasta},
			http.StatusRequestEntityTooLarge, "WORKLOAD_EXCEEDED",
		},
		{
			"body too large",
			func(c *config.Config, _ *appcore.Builder) { c.Server.MaxBodyBytes = 16 },
			api.BuildRequestV1{Format: "fasta", Text: fasta},
			http.StatusRequestEntityTooLarge, TypeRequestTooLarge,
		},
		{"empty pair", nil, api.BuildRequestV1{Format: "fasta", Text: ">a\n>b\n"}, http.StatusInternalServerError, "ALIGNMENT_FAILURE"},
		{"no assembler", nil, api.BuildRequestV1{Format: "fasta", Text: fasta, Tree: true}, http.StatusNotImplemented, TypeNoAssembler},
		{
			"assembler failed",
			func(_ *config.Config, b *appcore.Builder) {
				b.Assembler = fakeAssembler{err: fmt.Errorf("%w: exit status 1", assembler.ErrFailed)}
			},
			api.BuildRequestV1{Format: "fasta", Text: fasta, Tree: true},
			http.StatusBadGateway, TypeAssemblerFailure,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.tweak)
			resp, body := f.post(t, "/api/v1/build", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode, string(body))
			e := decodeError(t, body)
			assert.Equal(t, tc.typ, e.Type)
			assert.NotEmpty(t, e.Error)
			assert.Equal(t, resp.Header.Get("X-Request-ID"), e.RequestID)
		})
	}
}

func TestAlign(t *testing.T) {
	f := newFixture(t, nil)
	resp, body := f.post(t, "/api/v1/align", api.AlignRequestV1{A: "AC GT", B: "AGT"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got api.AlignmentV1
	require.NoError(t, json.Unmarshal(body, &got))
	want := api.AlignmentV1{AlignedA: "ACGT", AlignedB: "A-GT", Score: 1, Length: 4, Hamming: 1, Identity: 0.75}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("alignment (-want +got):\n%s", diff)
	}

	resp, body = f.post(t, "/api/v1/align", api.AlignRequestV1{})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "ALIGNMENT_FAILURE", decodeError(t, body).Type)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	resp, _ := f.post(t, "/api/v1/build", api.BuildRequestV1{Format: "fasta", Text: fasta})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	mr, err := http.Get(f.srv.URL + "/metrics")
	require.NoError(t, err)
	defer mr.Body.Close()
	body, _ := io.ReadAll(mr.Body)
	assert.Contains(t, string(body), `seqtree_builds_total{outcome="ok",strategy="all-pairs"} 1`)
	assert.Contains(t, string(body), `route="/api/v1/build"`)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, nil)
	req, _ := http.NewRequest(http.MethodOptions, f.srv.URL+"/api/v1/build", nil)
	req.Header.Set("Origin", "https://viewer.example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
