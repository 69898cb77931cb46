package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/shell"
)

func newTestHandler(opts ...espalier.Option) http.Handler {
	return NewHandler(espalier.New(opts...))
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestCreateRun_CompletesAndIsRetrievable(t *testing.T) {
	handler := newTestHandler()

	w := doJSON(t, handler, "POST", "/v1/runs", RunRequest{
		Command: "echo over-http",
		Actions: domain.Script{domain.Expect("over-http")},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var transcript domain.Transcript
	if err := json.Unmarshal(w.Body.Bytes(), &transcript); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if transcript.Result.Status != domain.StatusCompleted {
		t.Errorf("expected completed, got %s", transcript.Result.Status)
	}
	if transcript.ID == "" {
		t.Fatal("expected transcript ID")
	}

	// Retrieve it again by ID.
	wGet := doJSON(t, handler, "GET", "/v1/runs/"+transcript.ID, nil)
	if wGet.Code != http.StatusOK {
		t.Fatalf("expected 200 on GET, got %d", wGet.Code)
	}
	if !strings.Contains(wGet.Body.String(), transcript.ID) {
		t.Error("expected transcript body to carry its ID")
	}

	// It shows up in the listing.
	wList := doJSON(t, handler, "GET", "/v1/runs", nil)
	if wList.Code != http.StatusOK {
		t.Fatalf("expected 200 on list, got %d", wList.Code)
	}
	var ids []string
	if err := json.Unmarshal(wList.Body.Bytes(), &ids); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	found := false
	for _, id := range ids {
		if id == transcript.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s in %v", transcript.ID, ids)
	}

	// Delete removes it.
	wDel := doJSON(t, handler, "DELETE", "/v1/runs/"+transcript.ID, nil)
	if wDel.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", wDel.Code)
	}
	wGone := doJSON(t, handler, "GET", "/v1/runs/"+transcript.ID, nil)
	if wGone.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", wGone.Code)
	}
}

func TestCreateRun_Validation(t *testing.T) {
	handler := newTestHandler()

	t.Run("missing command", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/v1/runs", RunRequest{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("invalid action", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/v1/runs", map[string]any{
			"command": "cat",
			"actions": []map[string]string{{"action": "type", "text": "x"}},
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("spawn failure", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/v1/runs", RunRequest{
			Command: "definitely-not-a-binary-4f9d",
		})
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("garbage body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/runs", strings.NewReader("{nope"))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("oversized command", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/v1/runs", RunRequest{
			Command: "echo " + strings.Repeat("a", 5000),
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestCreateRun_TimeoutOverride(t *testing.T) {
	handler := newTestHandler()

	start := time.Now()
	w := doJSON(t, handler, "POST", "/v1/runs", RunRequest{
		Command:        "sleep 5",
		Actions:        domain.Script{domain.Expect("never")},
		TimeoutSeconds: 1,
	})
	elapsed := time.Since(start)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var transcript domain.Transcript
	if err := json.Unmarshal(w.Body.Bytes(), &transcript); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if transcript.Result.Status != domain.StatusTimedOut {
		t.Errorf("expected timed-out, got %s", transcript.Result.Status)
	}
	if elapsed > 3*time.Second {
		t.Errorf("run should honor the 1s override, took %v", elapsed)
	}
}

func TestExecCommand(t *testing.T) {
	handler := newTestHandler()

	t.Run("ok", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/v1/commands", CommandRequest{Command: "printf hi"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var result shell.Result
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("decode result: %v", err)
		}
		if result.Stdout != "hi" || result.ExitCode != 0 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("blocked", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/v1/commands", CommandRequest{Command: "rm -rf /tmp/x"})
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "not authorized") {
			t.Error("expected refusal message in body")
		}
	})

	t.Run("missing command", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/v1/commands", CommandRequest{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("oversized command", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/v1/commands", CommandRequest{
			Command: "echo " + strings.Repeat("a", 5000),
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestHealthAndInfo(t *testing.T) {
	handler := newTestHandler()

	w := doJSON(t, handler, "GET", "/healthz", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("unexpected health response: %d %s", w.Code, w.Body.String())
	}

	wInfo := doJSON(t, handler, "GET", "/info", nil)
	if wInfo.Code != http.StatusOK || !strings.Contains(wInfo.Body.String(), "espalier-http") {
		t.Errorf("unexpected info response: %d %s", wInfo.Code, wInfo.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler()

	// Run something first so series exist.
	doJSON(t, handler, "POST", "/v1/commands", CommandRequest{Command: "true"})

	w := doJSON(t, handler, "GET", "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "espalier_commands_total") {
		t.Error("expected espalier series in metrics output")
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest("OPTIONS", "/v1/runs", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS origin header")
	}
}
