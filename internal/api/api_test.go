package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nebulahq/nebula/internal/ai"
	"github.com/nebulahq/nebula/internal/models"
	"github.com/nebulahq/nebula/internal/notestore"
	"github.com/nebulahq/nebula/internal/testutil"
)

func testEnv(t *testing.T, authToken string) (*notestore.Store, *testutil.FakeGenerator, http.Handler) {
	t.Helper()
	st, _ := testutil.TestStore(t)
	gen := &testutil.FakeGenerator{Ready: true}
	sess := ai.NewSession(ai.NewGateway(gen, testutil.Logger()), st, testutil.Logger())
	router := NewRouter(st, sess, authToken != "", authToken, nil)
	return st, gen, router
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateListAndGet(t *testing.T) {
	_, _, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/notes", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.Note
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == "" {
		t.Fatal("created note has no id")
	}

	w = do(t, router, http.MethodGet, "/notes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var list NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	// Seeded welcome note plus the new one; the new one is first and active.
	if len(list.Notes) != 2 || list.Notes[0].ID != created.ID {
		t.Errorf("list = %+v", list.Notes)
	}
	if list.Active != created.ID {
		t.Errorf("active = %q, want %q", list.Active, created.ID)
	}

	w = do(t, router, http.MethodGet, "/notes/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("get = %d", w.Code)
	}
	w = do(t, router, http.MethodGet, "/notes/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get missing = %d, want 404", w.Code)
	}
}

func TestUpdateNote(t *testing.T) {
	st, _, router := testEnv(t, "")
	n := st.Create()

	w := do(t, router, http.MethodPatch, "/notes/"+n.ID, map[string]string{"content": "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d, body = %s", w.Code, w.Body.String())
	}
	var got models.Note
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Content != "hello" {
		t.Errorf("content = %q", got.Content)
	}
	if got.UpdatedAt <= n.UpdatedAt {
		t.Error("updatedAt did not advance")
	}

	// A body naming no updatable field is rejected.
	w = do(t, router, http.MethodPatch, "/notes/"+n.ID, map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty update = %d, want 400", w.Code)
	}

	w = do(t, router, http.MethodPatch, "/notes/ghost", map[string]string{"title": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("update missing = %d, want 404", w.Code)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	st, _, router := testEnv(t, "")
	n := st.Create()

	w := do(t, router, http.MethodDelete, "/notes/"+n.ID, map[string]bool{"confirm": false})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unconfirmed delete = %d, want 400", w.Code)
	}
	if _, err := st.Get(n.ID); err != nil {
		t.Error("note must survive an unconfirmed delete")
	}

	w = do(t, router, http.MethodDelete, "/notes/"+n.ID, map[string]bool{"confirm": true})
	if w.Code != http.StatusNoContent {
		t.Errorf("confirmed delete = %d, want 204", w.Code)
	}
	if _, err := st.Get(n.ID); err == nil {
		t.Error("note should be gone")
	}
}

func TestToggleFavorite(t *testing.T) {
	st, _, router := testEnv(t, "")
	n := st.Create()

	w := do(t, router, http.MethodPost, "/notes/"+n.ID+"/favorite", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("favorite = %d", w.Code)
	}
	var got models.Note
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if !got.IsFavorite {
		t.Error("favorite flag not set")
	}
}

func TestActiveSelection(t *testing.T) {
	st, _, router := testEnv(t, "")
	n := st.Create()

	w := do(t, router, http.MethodPut, "/active", map[string]any{"id": nil})
	if w.Code != http.StatusNoContent {
		t.Fatalf("clear active = %d", w.Code)
	}
	w = do(t, router, http.MethodGet, "/active", nil)
	var active ActiveResponse
	_ = json.Unmarshal(w.Body.Bytes(), &active)
	if active.ID != "" {
		t.Errorf("active = %q, want empty", active.ID)
	}

	w = do(t, router, http.MethodPut, "/active", map[string]string{"id": n.ID})
	if w.Code != http.StatusNoContent {
		t.Fatalf("set active = %d", w.Code)
	}
	w = do(t, router, http.MethodPut, "/active", map[string]string{"id": "ghost"})
	if w.Code != http.StatusNotFound {
		t.Errorf("set unknown active = %d, want 404", w.Code)
	}
}

func TestEnhanceApplyFlow(t *testing.T) {
	st, gen, router := testEnv(t, "")
	n := st.Create()
	content := "raw field report"
	_, _ = st.Update(n.ID, notestore.UpdateRequest{Content: &content})
	gen.SetReply("Summary.", nil)

	w := do(t, router, http.MethodPost, "/ai/enhance", map[string]string{"action": "SUMMARIZE"})
	if w.Code != http.StatusOK {
		t.Fatalf("enhance = %d, body = %s", w.Code, w.Body.String())
	}
	var resp EnhanceResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Result != "Summary." {
		t.Errorf("result = %q", resp.Result)
	}

	w = do(t, router, http.MethodGet, "/ai/result", nil)
	var status ai.Status
	_ = json.Unmarshal(w.Body.Bytes(), &status)
	if status.State != "succeeded" || status.NoteID != n.ID {
		t.Errorf("status = %+v", status)
	}

	w = do(t, router, http.MethodPost, "/ai/apply", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("apply = %d", w.Code)
	}
	got, _ := st.Get(n.ID)
	if got.Content != "Summary." {
		t.Errorf("content = %q after apply", got.Content)
	}

	// Applying twice has nothing left to copy.
	w = do(t, router, http.MethodPost, "/ai/apply", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("second apply = %d, want 409", w.Code)
	}
}

func TestEnhanceErrorMapping(t *testing.T) {
	st, gen, router := testEnv(t, "")
	st.Create() // blank content

	w := do(t, router, http.MethodPost, "/ai/enhance", map[string]string{"action": "EXPAND"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("blank content = %d, want 422", w.Code)
	}
	do(t, router, http.MethodPost, "/ai/clear", nil)

	// Unknown action is rejected by validation.
	w = do(t, router, http.MethodPost, "/ai/enhance", map[string]string{"action": "TRANSLATE"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown action = %d, want 400", w.Code)
	}

	// Missing credential maps to 503.
	gen.Ready = false
	n := st.List()[0]
	content := "something"
	_, _ = st.Update(n.ID, notestore.UpdateRequest{Content: &content})
	_ = st.SetActive(n.ID)
	w = do(t, router, http.MethodPost, "/ai/enhance", map[string]string{"action": "EXPAND"})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("missing credential = %d, want 503", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, _, router := testEnv(t, "sekret")

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer sekret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}
