package testsupport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Call records one request received by the fake API.
type Call struct {
	Method      string
	Path        string
	Route       string
	ContentType string
	Header      http.Header
	// JSON holds the decoded body of application/json requests.
	JSON map[string]any
	// Form holds the non-file parts of multipart requests.
	Form map[string]string
	// Files holds file part names mapped to their byte length.
	Files map[string]int
}

// IsMultipart reports whether the call carried a multipart body.
func (c Call) IsMultipart() bool {
	return strings.HasPrefix(c.ContentType, "multipart/form-data")
}

// Account is a user accepted by the fake sign-in endpoint.
type Account struct {
	Password string
	Token    string
	Role     string
}

type failure struct {
	status int
	body   string
}

// FakeAPI is an in-process catalog API that records every call.
type FakeAPI struct {
	t      testing.TB
	server *httptest.Server

	mu       sync.Mutex
	calls    []Call
	works    map[string]json.RawMessage
	order    []string
	nextID   int
	uploads  int
	ratings  map[string]json.RawMessage
	failures map[string][]failure
	accounts map[string]Account

	// UploadResponse overrides the JSON body returned by /upload/image.
	UploadResponse string
	// UploadGate, when set, blocks upload handlers until it is closed or
	// receives a value.
	UploadGate chan struct{}
}

// NewFakeAPI starts a fake API server and registers cleanup.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	api := &FakeAPI{
		t:        t,
		works:    map[string]json.RawMessage{},
		ratings:  map[string]json.RawMessage{},
		failures: map[string][]failure{},
		accounts: map[string]Account{},
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/works/latest", api.record("GET /works/latest", api.handleLatest))
		r.Get("/works/{id}", api.record("GET /works/{id}", api.handleGetWork))
		r.Post("/works", api.record("POST /works", api.handleSaveWork))
		r.Put("/works/{id}", api.record("PUT /works/{id}", api.handleSaveWork))
		r.Post("/works/with-image", api.record("POST /works/with-image", api.handleSaveWork))
		r.Put("/works/{id}/with-image", api.record("PUT /works/{id}/with-image", api.handleSaveWork))
		r.Post("/upload/image", api.record("POST /upload/image", api.handleUpload))
		r.Post("/users/signin", api.record("POST /users/signin", api.handleSignin))
		r.Post("/ratings/average", api.record("POST /ratings/average", api.handleRatings))
	})

	api.server = httptest.NewServer(r)
	t.Cleanup(api.server.Close)
	return api
}

// BaseURL returns the API root, e.g. http://127.0.0.1:1234/api.
func (f *FakeAPI) BaseURL() string {
	return f.server.URL + "/api"
}

// SigninURL returns the sign-in endpoint.
func (f *FakeAPI) SigninURL() string {
	return f.BaseURL() + "/users/signin"
}

// PutWork seeds a stored work from a JSON document.
func (f *FakeAPI) PutWork(id, doc string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.works[id]; !exists {
		f.order = append([]string{id}, f.order...)
	}
	f.works[id] = json.RawMessage(doc)
}

// PutRating seeds the aggregate rating of a work.
func (f *FakeAPI) PutRating(id string, average float64, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratings[id] = json.RawMessage(fmt.Sprintf(`{"average":%g,"count":%d}`, average, count))
}

// AddAccount registers credentials accepted by the sign-in endpoint.
func (f *FakeAPI) AddAccount(email string, account Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[email] = account
}

// FailNext makes the next request to route (e.g. "PUT /works/{id}") return
// status with body.
func (f *FakeAPI) FailNext(route string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route] = append(f.failures[route], failure{status: status, body: body})
}

// Calls returns a copy of the recorded calls.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded calls for one route.
func (f *FakeAPI) CallsTo(route string) []Call {
	var out []Call
	for _, call := range f.Calls() {
		if call.Route == route {
			out = append(out, call)
		}
	}
	return out
}

// WorkCalls returns the recorded create/update calls.
func (f *FakeAPI) WorkCalls() []Call {
	var out []Call
	for _, call := range f.Calls() {
		if call.Method == http.MethodPost || call.Method == http.MethodPut {
			if strings.HasPrefix(call.Route, call.Method+" /works") {
				out = append(out, call)
			}
		}
	}
	return out
}

func (f *FakeAPI) record(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		call := Call{
			Method:      r.Method,
			Path:        r.URL.Path,
			Route:       route,
			ContentType: r.Header.Get("Content-Type"),
			Header:      r.Header.Clone(),
		}
		switch {
		case call.IsMultipart():
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				f.t.Errorf("fake api: parse multipart: %v", err)
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			call.Form = map[string]string{}
			for key, values := range r.MultipartForm.Value {
				call.Form[key] = values[0]
			}
			call.Files = map[string]int{}
			for key, headers := range r.MultipartForm.File {
				call.Files[key] = int(headers[0].Size)
			}
		case strings.HasPrefix(call.ContentType, "application/json"):
			data, _ := io.ReadAll(r.Body)
			call.JSON = map[string]any{}
			if err := json.Unmarshal(data, &call.JSON); err != nil {
				f.t.Errorf("fake api: decode json: %v", err)
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		f.mu.Lock()
		f.calls = append(f.calls, call)
		var injected *failure
		if queue := f.failures[route]; len(queue) > 0 {
			injected = &queue[0]
			f.failures[route] = queue[1:]
		}
		f.mu.Unlock()

		if injected != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(injected.status)
			_, _ = io.WriteString(w, injected.body)
			return
		}
		next(w, r.WithContext(withCall(r.Context(), call)))
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (f *FakeAPI) handleGetWork(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	doc, ok := f.works[id]
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusOK, "null")
		return
	}
	writeJSON(w, http.StatusOK, string(doc))
}

func (f *FakeAPI) handleSaveWork(w http.ResponseWriter, r *http.Request) {
	call := callFromContext(r.Context())
	doc := map[string]any{}
	if call.IsMultipart() {
		for key, value := range call.Form {
			doc[key] = value
		}
		doc["posterUrl"] = fmt.Sprintf("%s/posters/%d.png", f.server.URL, len(f.Calls()))
	} else {
		for key, value := range call.JSON {
			doc[key] = value
		}
	}

	id := chi.URLParam(r, "id")
	f.mu.Lock()
	if id == "" {
		f.nextID++
		id = fmt.Sprintf("w%d", f.nextID)
		f.order = append([]string{id}, f.order...)
	}
	doc["_id"] = id
	data, _ := json.Marshal(doc)
	f.works[id] = data
	f.mu.Unlock()

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, `{"data":`+string(data)+`}`)
}

func (f *FakeAPI) handleUpload(w http.ResponseWriter, r *http.Request) {
	if gate := f.UploadGate; gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	call := callFromContext(r.Context())
	if call.Files["image"] == 0 {
		writeJSON(w, http.StatusBadRequest, `{"message":"no image part"}`)
		return
	}
	f.mu.Lock()
	f.uploads++
	n := f.uploads
	body := f.UploadResponse
	f.mu.Unlock()
	if body == "" {
		body = fmt.Sprintf(`{"data":{"secure_url":"%s/images/%d.png"}}`, f.server.URL, n)
	}
	writeJSON(w, http.StatusOK, body)
}

func (f *FakeAPI) handleSignin(w http.ResponseWriter, r *http.Request) {
	call := callFromContext(r.Context())
	email, _ := call.JSON["email"].(string)
	password, _ := call.JSON["password"].(string)
	f.mu.Lock()
	account, ok := f.accounts[email]
	f.mu.Unlock()
	if !ok || account.Password != password {
		writeJSON(w, http.StatusUnauthorized, `{"message":"invalid credentials"}`)
		return
	}
	user, _ := json.Marshal(map[string]string{"email": email, "role": account.Role})
	token, _ := json.Marshal(account.Token)
	writeJSON(w, http.StatusOK, `{"token":`+string(token)+`,"user":`+string(user)+`}`)
}

func (f *FakeAPI) handleLatest(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	f.mu.Lock()
	docs := make([]string, 0, len(f.order))
	for _, id := range f.order {
		doc := f.works[id]
		var probe struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(doc, &probe)
		if kind != "" && probe.Type != kind {
			continue
		}
		docs = append(docs, string(doc))
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, "["+strings.Join(docs, ",")+"]")
}

func (f *FakeAPI) handleRatings(w http.ResponseWriter, r *http.Request) {
	call := callFromContext(r.Context())
	ids, _ := call.JSON["workIds"].([]any)
	f.mu.Lock()
	parts := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, _ := raw.(string)
		if rating, ok := f.ratings[id]; ok {
			key, _ := json.Marshal(id)
			parts = append(parts, string(key)+":"+string(rating))
		}
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, `{"data":{`+strings.Join(parts, ",")+`}}`)
}
