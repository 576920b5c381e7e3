package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kailas-cloud/hitreport/internal/usecase/render"
	viewuc "github.com/kailas-cloud/hitreport/internal/usecase/view"
)

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "secret")
	rr := env.do(t, "GET", "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := decode[map[string]any](t, rr)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestGetSequence_Viewer(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "GET", "/get_sequence/?sequence_ids=SI2.2.0_06267&database_ids=abc123", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body)
	}
	body := decode[struct {
		Sequences []SequenceResponse `json:"sequences"`
	}](t, rr)
	if len(body.Sequences) != 1 || body.Sequences[0].Value != "MSANRLNV" || body.Sequences[0].DatabaseID != "abc123" {
		t.Errorf("sequences = %+v", body.Sequences)
	}
}

func TestGetSequence_FASTADownload(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "GET", "/get_sequence/?sequence_ids=SI2.2.0_06267&database_ids=abc123&download=fasta", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="sequenceserver-SI2.2.0_06267.fa"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(rr.Body.String(), ">SI2.2.0_06267") {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestGetSequence_Errors(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name   string
		path   string
		status int
		code   ErrorCode
	}{
		{"too long", "/get_sequence/?sequence_ids=SI2.2.0_13722&database_ids=abc123", http.StatusRequestEntityTooLarge, CodeSequenceTooLarge},
		{"unknown accession", "/get_sequence/?sequence_ids=XP_1&database_ids=abc123", http.StatusNotFound, CodeSequenceNotFound},
		{"no ids", "/get_sequence/?database_ids=abc123", http.StatusBadRequest, CodeEmptyExport},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(t, "GET", tc.path, "")
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tc.status, rr.Body)
			}
			if got := decode[ErrorResponse](t, rr); got.Code != tc.code {
				t.Errorf("code = %q, want %q", got.Code, tc.code)
			}
		})
	}
}

func TestGetReport(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/reports/r1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	s := decode[viewuc.Summary](t, rr)
	if len(s.Queries) != 1 || len(s.Queries[0].Hits) != 2 || s.Queries[0].Hits[0].ID != "Query_1_hit_1" {
		t.Errorf("summary = %+v", s)
	}

	rr = env.do(t, "GET", "/reports/nope", "")
	if rr.Code != http.StatusNotFound || decode[ErrorResponse](t, rr).Code != CodeReportNotFound {
		t.Errorf("missing report: status %d", rr.Code)
	}
}

func TestGetHit(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/reports/r1/hits/Query_1_hit_2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	v := decode[render.HitView](t, rr)
	if v.ID != "Query_1_hit_2" || v.Data.HitLen != 12000 {
		t.Errorf("view = %+v", v)
	}
	if len(v.LinkBar.Elements) < 2 || v.LinkBar.Elements[1].Enabled {
		t.Errorf("sequence button should be disabled: %+v", v.LinkBar.Elements)
	}

	rr = env.do(t, "GET", "/reports/r1/hits/Query_1_hit_9", "")
	if rr.Code != http.StatusNotFound || decode[ErrorResponse](t, rr).Code != CodeHitNotFound {
		t.Errorf("missing hit: status %d", rr.Code)
	}
}

func TestToggleAndSelect(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/reports/r1/hits/Query_1_hit_1/toggle", "")
	if got := decode[map[string]bool](t, rr); !got["collapsed"] {
		t.Errorf("toggle = %v", got)
	}
	rr = env.do(t, "POST", "/reports/r1/hits/Query_1_hit_1/select", "")
	if got := decode[map[string]bool](t, rr); !got["selected"] {
		t.Errorf("select = %v", got)
	}

	rr = env.do(t, "GET", "/reports/r1/selection", "")
	sel := decode[map[string][]string](t, rr)
	if len(sel["selected"]) != 1 || sel["selected"][0] != "Query_1_hit_1_checkbox" {
		t.Errorf("selection = %v", sel)
	}

	v := decode[render.HitView](t, env.do(t, "GET", "/reports/r1/hits/Query_1_hit_1", ""))
	if !v.Header.Collapsed || !v.LinkBar.Elements[0].Checked {
		t.Errorf("state not rendered: %+v", v.Header)
	}

	rr = env.do(t, "GET", "/reports/r1/selection/fasta", "")
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Body.String(), ">SI2.2.0_06267") {
		t.Errorf("selection fasta: status %d body %q", rr.Code, rr.Body.String())
	}
}

func TestDispatchAndDownload(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/reports/r1/hits/Query_1_hit_1/actions/download-fasta", "")
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body)
	}
	ticket := decode[render.Ticket](t, rr)
	if ticket.Download != "sequenceserver-SI2.2.0_06267.fa" || ticket.Path != "r1/sequenceserver-SI2.2.0_06267.fa" {
		t.Fatalf("ticket = %+v", ticket)
	}
	if rr.Header().Get("Location") != "/downloads/r1/sequenceserver-SI2.2.0_06267.fa" {
		t.Errorf("Location = %q", rr.Header().Get("Location"))
	}
	env.dispatcher.Wait()

	rr = env.do(t, "GET", "/downloads/r1/sequenceserver-SI2.2.0_06267.fa", "")
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Body.String(), ">SI2.2.0_06267") {
		t.Errorf("download: status %d body %q", rr.Code, rr.Body.String())
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="sequenceserver-SI2.2.0_06267.fa"` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	rr = env.do(t, "GET", "/downloads/imported/sequenceserver-SI2.2.0_06267.fa", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("other report's download: status %d", rr.Code)
	}

	rr = env.do(t, "GET", "/downloads/r1/missing.fa", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing download: status %d", rr.Code)
	}
}

func TestDispatch_SameHitInTwoReports(t *testing.T) {
	env := newTestEnv(t)

	var locations []string
	for _, id := range []string{"r1", "imported"} {
		rr := env.do(t, "POST", "/reports/"+id+"/hits/Query_1_hit_1/actions/download-alignment", "")
		if rr.Code != http.StatusAccepted {
			t.Fatalf("%s: status = %d body = %s", id, rr.Code, rr.Body)
		}
		if ticket := decode[render.Ticket](t, rr); ticket.Download != "Query_1_SI2_2_0_06267.txt" {
			t.Fatalf("%s: ticket = %+v", id, ticket)
		}
		locations = append(locations, rr.Header().Get("Location"))
	}
	env.dispatcher.Wait()

	if locations[0] == locations[1] {
		t.Fatalf("both reports point at %q", locations[0])
	}
	infos, err := env.blobs.List(context.Background(), render.DownloadsPrefix)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Errorf("stored downloads = %+v, want one per report", infos)
	}
	for _, loc := range locations {
		if rr := env.do(t, "GET", loc, ""); rr.Code != http.StatusOK {
			t.Errorf("GET %s: status %d", loc, rr.Code)
		}
	}
}

func TestDispatch_Errors(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		path   string
		status int
		code   ErrorCode
	}{
		{"/reports/r1/hits/Query_1_hit_2/actions/view-sequence", http.StatusRequestEntityTooLarge, CodeSequenceTooLarge},
		{"/reports/imported/hits/Query_1_hit_1/actions/download-fasta", http.StatusConflict, CodeDataUnavailable},
		{"/reports/r1/hits/Query_1_hit_1/actions/print", http.StatusBadRequest, CodeUnknownAction},
	}
	for _, tc := range tests {
		rr := env.do(t, "POST", tc.path, "")
		if rr.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.path, rr.Code, tc.status)
			continue
		}
		if got := decode[ErrorResponse](t, rr); got.Code != tc.code {
			t.Errorf("%s: code = %q, want %q", tc.path, got.Code, tc.code)
		}
	}
	env.dispatcher.Wait()
}

func TestGetAlignment(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "GET", "/reports/imported/hits/Query_1_hit_1/alignment", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="Query_1_SI2_2_0_06267.txt"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

const importXML = `<BlastOutput><BlastOutput_program>blastp</BlastOutput_program><BlastOutput_db>/db/x.fasta</BlastOutput_db>
<BlastOutput_iterations><Iteration><Iteration_iter-num>1</Iteration_iter-num><Iteration_query-ID>Query_1</Iteration_query-ID>
<Iteration_query-def>No definition line</Iteration_query-def><Iteration_query-len>10</Iteration_query-len>
<Iteration_hits><Hit><Hit_num>1</Hit_num><Hit_id>XP_1</Hit_id><Hit_def>a protein</Hit_def><Hit_len>10</Hit_len>
<Hit_hsps><Hsp><Hsp_num>1</Hsp_num><Hsp_qseq>MK</Hsp_qseq><Hsp_hseq>MK</Hsp_hseq><Hsp_midline>MK</Hsp_midline></Hsp></Hit_hsps></Hit></Iteration_hits>
</Iteration></BlastOutput_iterations></BlastOutput>`

func TestImportReport(t *testing.T) {
	env := newTestEnv(t)
	if err := env.blobs.Put(context.Background(), "uploads/job.xml", []byte(importXML), "application/xml"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	rr := env.do(t, "POST", "/reports/import", `{"key":"uploads/job.xml","id":"job"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body)
	}
	s := decode[viewuc.Summary](t, rr)
	if !s.Imported || s.ID != "job" {
		t.Errorf("summary = %+v", s)
	}

	v := decode[render.HitView](t, env.do(t, "GET", "/reports/job/hits/Query_1_hit_1", ""))
	if len(v.LinkBar.Elements) != 2 {
		t.Errorf("imported hit link bar = %v", v.LinkBar.Classes())
	}
}

func TestImportReport_BadRequests(t *testing.T) {
	env := newTestEnv(t)
	tests := map[string]struct {
		body   string
		status int
	}{
		"not json":     {"{", http.StatusBadRequest},
		"missing id":   {`{"key":"uploads/job.xml"}`, http.StatusBadRequest},
		"missing blob": {`{"key":"uploads/none.xml","id":"x"}`, http.StatusNotFound},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if rr := env.do(t, "POST", "/reports/import", tc.body); rr.Code != tc.status {
				t.Errorf("status = %d, want %d", rr.Code, tc.status)
			}
		})
	}
}

func TestRouter_AuthAndNotFound(t *testing.T) {
	env := newTestEnv(t, "secret")

	if rr := env.do(t, "GET", "/reports/r1", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated: status %d", rr.Code)
	}

	req := httptest.NewRequest("GET", "/nowhere", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound || decode[ErrorResponse](t, rr).Code != CodeNotFound {
		t.Errorf("unknown route: status %d", rr.Code)
	}
}

func TestGetDownload_RejectsTraversal(t *testing.T) {
	env := newTestEnv(t)
	if rr := env.do(t, "GET", "/downloads/r1/..%2Fsecret", ""); rr.Code != http.StatusBadRequest && rr.Code != http.StatusNotFound {
		t.Errorf("status = %d", rr.Code)
	}
}
