package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmdesk/internal/catalog"
	"filmdesk/internal/imagefile"
	"filmdesk/internal/services"
	"filmdesk/internal/testsupport"
)

func newClient(t *testing.T, baseURL string, opts ...catalog.Option) *catalog.Client {
	t.Helper()
	client, err := catalog.New(baseURL, opts...)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return client
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := catalog.New("  "); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestGetWorkDecodesLenientShapes(t *testing.T) {
	api := testsupport.NewFakeAPI(t)
	api.PutWork("123", `{"_id":"123","type":"series","nameArabic":"X","year":2010,"seasonsCount":3,
		"directorImage":{"url":"http://img/d.png"},"assistantDirectorImage":"http://img/a.png",
		"cast":["Ali",{"name":"Mona","image":{"url":"http://img/m.png"}},{"name":"Sara","image":"http://img/s.png"}],
		"platforms":[{"name":"netflix","url":"http://n"}]}`)
	client := newClient(t, api.BaseURL())

	work, err := client.GetWork(context.Background(), "123")
	if err != nil {
		t.Fatalf("GetWork returned error: %v", err)
	}
	if work.Identifier() != "123" || work.Type != "series" || work.Year != "2010" || work.SeasonsCount != "3" {
		t.Fatalf("unexpected work: %+v", work)
	}
	if work.DirectorImage.URLOrEmpty() != "http://img/d.png" || work.AssistantDirectorImage.URLOrEmpty() != "http://img/a.png" {
		t.Fatalf("unexpected portrait refs: %+v %+v", work.DirectorImage, work.AssistantDirectorImage)
	}
	if len(work.Cast) != 3 || work.Cast[0].Name != "Ali" || work.Cast[0].Image != nil {
		t.Fatalf("unexpected cast: %+v", work.Cast)
	}
	if work.Cast[1].Image.URLOrEmpty() != "http://img/m.png" || work.Cast[2].Image.URLOrEmpty() != "http://img/s.png" {
		t.Fatalf("unexpected cast images: %+v", work.Cast)
	}
}

func TestGetWorkNullIsNotFound(t *testing.T) {
	api := testsupport.NewFakeAPI(t)
	client := newClient(t, api.BaseURL())
	if _, err := client.GetWork(context.Background(), "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetWorkUnwrapsEnvelopeAnd404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/works/1":
			_, _ = w.Write([]byte(`{"data":{"_id":"1","type":"film","nameArabic":"A"}}`))
		case "/works/2":
			_, _ = w.Write([]byte(`{"work":null}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"no such work"}`))
		}
	}))
	t.Cleanup(server.Close)
	client := newClient(t, server.URL)

	work, err := client.GetWork(context.Background(), "1")
	if err != nil || work.NameArabic != "A" {
		t.Fatalf("expected enveloped work, got %+v %v", work, err)
	}
	if _, err := client.GetWork(context.Background(), "2"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected null envelope to be not found, got %v", err)
	}
	_, err = client.GetWork(context.Background(), "3")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected 404 to be not found, got %v", err)
	}
	if msg, ok := catalog.ServerMessage(err); !ok || msg != "no such work" {
		t.Fatalf("expected server message, got %q %v", msg, ok)
	}
}

func TestRequestsCarryHeaders(t *testing.T) {
	api := testsupport.NewFakeAPI(t)
	client := newClient(t, api.BaseURL(), catalog.WithTokenSource(catalog.StaticToken("tok")), catalog.WithRateLimit(100))

	ctx := services.WithRequestID(context.Background(), "req-1")
	if _, err := client.CreateWork(ctx, &catalog.Payload{Type: catalog.KindFilm, Year: 2000}); err != nil {
		t.Fatalf("CreateWork returned error: %v", err)
	}
	if _, err := client.Latest(context.Background(), ""); err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	calls := api.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if got := calls[0].Header.Get("Authorization"); got != "Bearer tok" {
		t.Fatalf("unexpected authorization header %q", got)
	}
	if got := calls[0].Header.Get("X-Request-ID"); got != "req-1" {
		t.Fatalf("expected context request id, got %q", got)
	}
	if got := calls[1].Header.Get("X-Request-ID"); got == "" || got == "req-1" {
		t.Fatalf("expected generated request id, got %q", got)
	}
	if got := calls[0].Header.Get("User-Agent"); got != "filmdesk/"+catalog.Version {
		t.Fatalf("unexpected user agent %q", got)
	}
}

func TestCreateWorkJSONOmitsEmptyOptionalKeys(t *testing.T) {
	api := testsupport.NewFakeAPI(t)
	client := newClient(t, api.BaseURL())

	payload := &catalog.Payload{
		Type:       catalog.KindFilm,
		NameArabic: "فيلم",
		Year:       1999,
		Cast:       []catalog.CastMember{{Name: "Ali"}},
		PosterURL:  "http://p",
	}
	work, err := client.CreateWork(context.Background(), payload)
	if err != nil {
		t.Fatalf("CreateWork returned error: %v", err)
	}
	if work == nil || work.Identifier() == "" {
		t.Fatalf("expected saved work with id, got %+v", work)
	}
	body := api.CallsTo("POST /works")[0].JSON
	for _, key := range []string{"platforms", "seasonsCount", "episodesCount", "directorImage", "assistantDirectorImage"} {
		if _, ok := body[key]; ok {
			t.Fatalf("expected %s omitted, got %v", key, body)
		}
	}
	cast, _ := json.Marshal(body["cast"])
	if string(cast) != `[{"name":"Ali"}]` {
		t.Fatalf("unexpected cast encoding %s", cast)
	}
}

func TestUpdateWorkWithImageSendsMultipart(t *testing.T) {
	api := testsupport.NewFakeAPI(t)
	client := newClient(t, api.BaseURL())
	seasons, episodes := 3, 10
	payload := &catalog.Payload{
		Type:          catalog.KindSeries,
		NameArabic:    "X",
		Year:          2001,
		Cast:          []catalog.CastMember{{Name: "Ali", Image: &catalog.ImageRef{URL: "http://a"}}},
		DirectorImage: &catalog.ImageRef{URL: "http://d"},
		PosterURL:     "http://ignored",
		SeasonsCount:  &seasons,
		EpisodesCount: &episodes,
		Platforms:     []catalog.Platform{{Name: "shahid", URL: "http://s"}},
	}
	poster := imagefile.New("poster.png", "", testsupport.PNGBytes(128))

	if _, err := client.UpdateWorkWithImage(context.Background(), "123", payload, poster); err != nil {
		t.Fatalf("UpdateWorkWithImage returned error: %v", err)
	}
	calls := api.CallsTo("PUT /works/{id}/with-image")
	if len(calls) != 1 {
		t.Fatalf("expected one multipart update, got %d", len(calls))
	}
	call := calls[0]
	if call.Path != "/api/works/123/with-image" {
		t.Fatalf("unexpected path %q", call.Path)
	}
	want := map[string]string{
		"type":          "series",
		"year":          "2001",
		"cast":          `[{"name":"Ali","image":{"url":"http://a"}}]`,
		"directorImage": `{"url":"http://d"}`,
		"platforms":     `[{"name":"shahid","url":"http://s"}]`,
		"seasonsCount":  "3",
		"episodesCount": "10",
	}
	for key, value := range want {
		if call.Form[key] != value {
			t.Fatalf("form[%s] = %q, want %q", key, call.Form[key], value)
		}
	}
	if _, ok := call.Form["posterUrl"]; ok {
		t.Fatal("expected posterUrl omitted from multipart body")
	}
	if _, ok := call.Form["assistantDirectorImage"]; ok {
		t.Fatal("expected empty assistant director image omitted")
	}
	if call.Files["image"] != 128 {
		t.Fatalf("expected image part of 128 bytes, got %v", call.Files)
	}
}

func TestAPIErrorClassification(t *testing.T) {
	api := testsupport.NewFakeAPI(t)
	api.FailNext("POST /works", http.StatusInternalServerError, `{"message":"db down"}`)
	api.FailNext("POST /works", http.StatusForbidden, `forbidden`)
	client := newClient(t, api.BaseURL())

	_, err := client.CreateWork(context.Background(), &catalog.Payload{})
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport marker, got %v", err)
	}
	if msg, _ := catalog.ServerMessage(err); msg != "db down" {
		t.Fatalf("expected server message, got %q", msg)
	}

	_, err = client.CreateWork(context.Background(), &catalog.Payload{})
	if !errors.Is(err, services.ErrAccessDenied) {
		t.Fatalf("expected access denied marker, got %v", err)
	}
	var apiErr *catalog.APIError
	if !errors.As(err, &apiErr) || apiErr.JSON || apiErr.Body != "forbidden" {
		t.Fatalf("expected raw body, got %+v", apiErr)
	}
}

func TestTransportFailureWrapsMarker(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newClient(t, url)
	if _, err := client.Latest(context.Background(), catalog.KindFilm); !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestLatestMixedAndRatings(t *testing.T) {
	api := testsupport.NewFakeAPI(t)
	api.PutWork("f1", `{"_id":"f1","type":"film","nameArabic":"F1"}`)
	api.PutWork("s1", `{"_id":"s1","type":"series","nameArabic":"S1"}`)
	api.PutWork("f2", `{"_id":"f2","type":"film","nameArabic":"F2"}`)
	api.PutRating("f2", 4.25, 8)
	client := newClient(t, api.BaseURL())

	works, err := client.LatestMixed(context.Background(), 2)
	if err != nil {
		t.Fatalf("LatestMixed returned error: %v", err)
	}
	if len(works) != 2 || works[0].Identifier() != "f2" || works[1].Identifier() != "f1" {
		t.Fatalf("expected films first truncated to limit, got %+v", works)
	}

	ratings, err := client.AverageRatings(context.Background(), []string{"f1", "f2"})
	if err != nil {
		t.Fatalf("AverageRatings returned error: %v", err)
	}
	if _, ok := ratings["f1"]; ok {
		t.Fatalf("expected no rating for f1, got %+v", ratings)
	}
	if got := ratings["f2"].Display(); got != "4.2 (8)" && got != "4.3 (8)" {
		t.Fatalf("unexpected rating display %q", got)
	}
	if body := api.CallsTo("POST /ratings/average")[0].JSON; body["workIds"] == nil {
		t.Fatalf("expected workIds in ratings request, got %v", body)
	}
}

func TestSignIn(t *testing.T) {
	api := testsupport.NewFakeAPI(t)
	api.AddAccount("admin@example.com", testsupport.Account{Password: "pw", Token: "jwt", Role: "admin"})
	client := newClient(t, api.BaseURL())

	resp, err := client.SignIn(context.Background(), api.SigninURL(), "admin@example.com", "pw")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if resp.Token != "jwt" || len(resp.User) == 0 {
		t.Fatalf("unexpected sign-in response %+v", resp)
	}

	_, err = client.SignIn(context.Background(), api.SigninURL(), "admin@example.com", "wrong")
	var apiErr *catalog.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || apiErr.Message != "invalid credentials" {
		t.Fatalf("expected 401 api error, got %v", err)
	}
}
