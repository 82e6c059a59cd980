package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/groblegark/ticklist/internal/schema"
)

type testHandler struct {
	// captured from the request
	method      string
	path        string
	query       string
	body        string
	contentType string
	authHeader  string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.query = r.URL.RawQuery
	h.contentType = r.Header.Get("Content-Type")
	h.authHeader = r.Header.Get("Authorization")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// newTestClient creates an HTTPClient pointed at a test server with the given handler.
func newTestClient(h http.Handler) (*HTTPClient, *httptest.Server) {
	srv := httptest.NewServer(h)
	c := NewHTTPClient(srv.URL, "")
	return c, srv
}

func TestHTTPClient_CreateItem(t *testing.T) {
	h := &testHandler{
		statusCode: http.StatusCreated,
		responseBody: `{
			"item_id": "td-abc",
			"body": "Buy milk",
			"is_done": false,
			"priority": 2,
			"owner": "alice",
			"status": "open",
			"created_at": "2026-08-01T10:00:00Z",
			"updated_at": "2026-08-01T10:00:00Z",
			"tags": ["errand"],
			"watchers": ["bob"]
		}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	item, err := c.CreateItem(context.Background(), &CreateItemRequest{
		Body:     "Buy milk",
		Priority: 2,
		Owner:    "alice",
		Tags:     []string{"errand"},
		Watchers: []string{"bob"},
	})
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	if h.method != http.MethodPost || h.path != "/v1/items" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if h.contentType != "application/json" {
		t.Errorf("content-type = %q", h.contentType)
	}

	var reqBody map[string]any
	if err := json.Unmarshal([]byte(h.body), &reqBody); err != nil {
		t.Fatalf("unmarshaling request body: %v", err)
	}
	if reqBody["body"] != "Buy milk" {
		t.Errorf("request body = %v", reqBody["body"])
	}

	if item.ItemID != "td-abc" || item.Priority != 2 || !item.Watchers.Has("bob") {
		t.Errorf("unexpected item: %+v", item)
	}
}

func TestHTTPClient_GetItem_PathEscaping(t *testing.T) {
	h := &testHandler{responseBody: `{"item_id":"td-x","body":"B","status":"open"}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	if _, err := c.GetItem(context.Background(), "td-x"); err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if h.path != "/v1/items/td-x" {
		t.Errorf("path = %q", h.path)
	}
}

func TestHTTPClient_ListItems_Query(t *testing.T) {
	h := &testHandler{responseBody: `{"items":[{"item_id":"td-1","body":"A","status":"open"}],"total":7}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	pri := int64(2)
	resp, err := c.ListItems(context.Background(), &ListItemsRequest{
		Status:   []string{"open", "done"},
		Owner:    "alice",
		Tags:     []string{"urgent"},
		Search:   "milk",
		Priority: &pri,
		Sort:     "-priority",
		Limit:    10,
		Offset:   5,
	})
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if resp.Total != 7 || len(resp.Items) != 1 {
		t.Errorf("resp = %+v", resp)
	}

	for _, want := range []string{
		"status=open%2Cdone", "owner=alice", "tags=urgent",
		"search=milk", "priority=2", "sort=-priority", "limit=10", "offset=5",
	} {
		if !containsParam(h.query, want) {
			t.Errorf("query %q missing %q", h.query, want)
		}
	}
}

func containsParam(query, param string) bool {
	for _, p := range splitQuery(query) {
		if p == param {
			return true
		}
	}
	return false
}

func splitQuery(query string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(query); i++ {
		if i == len(query) || query[i] == '&' {
			parts = append(parts, query[start:i])
			start = i + 1
		}
	}
	return parts
}

func TestHTTPClient_UpdateItem(t *testing.T) {
	h := &testHandler{responseBody: `{"item_id":"td-1","body":"New body","status":"open"}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	item, err := c.UpdateItem(context.Background(), "td-1", map[string]any{
		"body":   "New body",
		"isDone": true,
	})
	if err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}
	if h.method != http.MethodPatch || h.path != "/v1/items/td-1" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	var patch map[string]any
	if err := json.Unmarshal([]byte(h.body), &patch); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}
	if patch["body"] != "New body" || patch["isDone"] != true {
		t.Errorf("patch = %v", patch)
	}
	if item.Body != "New body" {
		t.Errorf("item = %+v", item)
	}
}

func TestHTTPClient_MarkDone(t *testing.T) {
	h := &testHandler{responseBody: `{"item_id":"td-1","body":"B","is_done":true,"status":"done","done_by":"alice"}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	item, err := c.MarkDone(context.Background(), "td-1", "alice")
	if err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	if h.method != http.MethodPost || h.path != "/v1/items/td-1/done" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if h.body == "" || !json.Valid([]byte(h.body)) {
		t.Errorf("body = %q", h.body)
	}
	if !item.IsDone || item.DoneBy != "alice" {
		t.Errorf("item = %+v", item)
	}
}

func TestHTTPClient_DeleteItem(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNoContent}
	c, srv := newTestClient(h)
	defer srv.Close()

	if err := c.DeleteItem(context.Background(), "td-1"); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	if h.method != http.MethodDelete || h.path != "/v1/items/td-1" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
}

func TestHTTPClient_GetChanges(t *testing.T) {
	h := &testHandler{responseBody: `{"changes":[{"id":1,"topic":"ticklist.item.created","item_id":"td-1"}]}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	changes, err := c.GetChanges(context.Background(), "td-1")
	if err != nil {
		t.Fatalf("GetChanges() error = %v", err)
	}
	if len(changes) != 1 || changes[0].Topic != "ticklist.item.created" {
		t.Errorf("changes = %+v", changes)
	}
}

func TestHTTPClient_GetSchema(t *testing.T) {
	desc, err := schema.Describe(&struct {
		Name string `schema:"name"`
		Done bool   `schema:"done"`
	}{})
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	payload, err := json.Marshal(desc)
	if err != nil {
		t.Fatalf("marshal descriptor: %v", err)
	}

	h := &testHandler{responseBody: string(payload)}
	c, srv := newTestClient(h)
	defer srv.Close()

	got, err := c.GetSchema(context.Background(), "item")
	if err != nil {
		t.Fatalf("GetSchema() error = %v", err)
	}
	if h.path != "/v1/schema/item" {
		t.Errorf("path = %q", h.path)
	}
	if kind, ok := got.Kind("name"); !ok || kind != schema.KindText {
		t.Errorf("name kind = %v, %v", kind, ok)
	}
	if kind, ok := got.Kind("done"); !ok || kind != schema.KindBool {
		t.Errorf("done kind = %v, %v", kind, ok)
	}
}

func TestHTTPClient_APIError(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNotFound, responseBody: `{"error":"item not found"}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	_, err := c.GetItem(context.Background(), "nonexistent")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "item not found" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestHTTPClient_AuthHeader(t *testing.T) {
	h := &testHandler{responseBody: `{"status":"ok"}`}
	srv := httptest.NewServer(h)
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret")
	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if h.authHeader != "Bearer secret" {
		t.Errorf("auth header = %q", h.authHeader)
	}
}

func TestHTTPClient_StreamEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		for i := 1; i <= 2; i++ {
			fmt.Fprintf(w, "id:%d\n", i)
			fmt.Fprintf(w, "event:ticklist.item.done\n")
			fmt.Fprintf(w, "data:{\"n\":%d}\n\n", i)
			flusher.Flush()
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	var got []string
	err := c.StreamEvents(context.Background(), []string{"ticklist.item.done"}, func(topic string, data []byte) {
		got = append(got, topic+" "+string(data))
	})
	if err != nil {
		t.Fatalf("StreamEvents() error = %v", err)
	}
	if len(got) != 2 || got[0] != `ticklist.item.done {"n":1}` {
		t.Errorf("events = %v", got)
	}
}
