// Package testutil provides an in-process stand-in for the todo REST service.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/idilsaglam/todo/internal/model"
)

// Request is one call the fake service received.
type Request struct {
	Method string
	Path   string
	Body   model.Item
}

// FakeService serves GET/POST /Todo/ and PUT/DELETE /Todo/{id} from memory.
//
// Thread-safety: all methods are safe for concurrent use.
type FakeService struct {
	*httptest.Server

	mu       sync.Mutex
	items    []model.Item
	requests []Request
	fail     map[string]int
	listBody []byte
	assignID string
}

// NewFakeService starts a fake seeded with items and closes it on test cleanup.
func NewFakeService(t testing.TB, items ...model.Item) *FakeService {
	t.Helper()

	f := &FakeService{
		items: append([]model.Item(nil), items...),
		fail:  make(map[string]int),
	}

	r := mux.NewRouter()
	r.Methods(http.MethodGet).Path("/Todo/").HandlerFunc(f.list)
	r.Methods(http.MethodPost).Path("/Todo/").HandlerFunc(f.create)
	r.Methods(http.MethodPut).Path("/Todo/{id}").HandlerFunc(f.update)
	r.Methods(http.MethodDelete).Path("/Todo/{id}").HandlerFunc(f.remove)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// FailWith makes every request with the given method answer status.
func (f *FakeService) FailWith(method string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method] = status
}

// ListBody overrides the raw GET response body.
func (f *FakeService) ListBody(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listBody = []byte(body)
}

// AssignID makes the next create reply with {"id": id}.
func (f *FakeService) AssignID(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assignID = id
}

// Items returns a copy of the stored items.
func (f *FakeService) Items() []model.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Item(nil), f.items...)
}

// Requests returns a copy of every request received so far.
func (f *FakeService) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

func (f *FakeService) record(r *http.Request, body model.Item) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, Request{Method: r.Method, Path: r.URL.EscapedPath(), Body: body})
	status, failing := f.fail[r.Method]
	return status, failing
}

func (f *FakeService) list(w http.ResponseWriter, r *http.Request) {
	if status, failing := f.record(r, model.Item{}); failing {
		w.WriteHeader(status)
		return
	}
	f.mu.Lock()
	raw := f.listBody
	items := append([]model.Item{}, f.items...)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if raw != nil {
		_, _ = w.Write(raw)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
}

func (f *FakeService) create(w http.ResponseWriter, r *http.Request) {
	var it model.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		f.record(r, it)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if status, failing := f.record(r, it); failing {
		w.WriteHeader(status)
		return
	}

	f.mu.Lock()
	assigned := f.assignID
	f.assignID = ""
	if assigned != "" {
		it.ID = assigned
	}
	f.items = append(f.items, it)
	f.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	if assigned != "" {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": assigned})
	}
}

func (f *FakeService) update(w http.ResponseWriter, r *http.Request) {
	var it model.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		f.record(r, it)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if status, failing := f.record(r, it); failing {
		w.WriteHeader(status)
		return
	}

	id := mux.Vars(r)["id"]
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i] = it
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (f *FakeService) remove(w http.ResponseWriter, r *http.Request) {
	if status, failing := f.record(r, model.Item{}); failing {
		w.WriteHeader(status)
		return
	}

	id := mux.Vars(r)["id"]
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}
