package main

import (
	"encoding/json"
	"testing"
)

func seedLatest(env *cliTestEnv) {
	env.api.PutWork("f1", `{"_id":"f1","type":"film","nameArabic":"","nameEnglish":"The Message","year":1976}`)
	env.api.PutWork("s1", `{"_id":"s1","type":"series","nameArabic":"باب الحارة","nameEnglish":"Bab Al Hara","year":"2006"}`)
	env.api.PutWork("f2", `{"_id":"f2","type":"film","nameArabic":"","nameEnglish":"Omar Mukhtar","year":1981}`)
	env.api.PutRating("f2", 4.5, 12)
	env.api.PutRating("s1", 0, 0)
}

func TestLatestListsFilmsThenSeriesWithRatings(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLatest(env)

	out, _, err := env.run(t, "latest")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	requireContains(t, out, "Omar Mukhtar")
	requireContains(t, out, "4.5 (12)")
	requireContains(t, out, "No ratings")
	requireContains(t, out, "باب الحارة")

	out, _, err = env.run(t, "latest", "--json")
	if err != nil {
		t.Fatalf("latest --json: %v", err)
	}
	var works []latestWorkJSON
	if err := json.Unmarshal([]byte(out), &works); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(works) != 3 {
		t.Fatalf("expected 3 works, got %d", len(works))
	}
	order := []string{works[0].ID, works[1].ID, works[2].ID}
	if order[0] != "f2" || order[1] != "f1" || order[2] != "s1" {
		t.Fatalf("expected films newest first then series, got %v", order)
	}
	if works[0].Rating == nil || works[0].Rating.Count != 12 {
		t.Fatalf("expected rating on f2, got %+v", works[0].Rating)
	}
	if works[1].Rating != nil || works[2].Rating != nil {
		t.Fatal("works without ratings must report null")
	}
	if works[2].Title != "باب الحارة" || works[1].Year != "1976" {
		t.Fatalf("unexpected mapping %+v / %+v", works[1], works[2])
	}

	ratingCalls := env.api.CallsTo("POST /ratings/average")
	if len(ratingCalls) == 0 {
		t.Fatal("expected a ratings lookup")
	}
}

func TestLatestFiltersByTypeAndLimit(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLatest(env)

	out, _, err := env.run(t, "latest", "--type", "film", "--limit", "1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	requireContains(t, out, "== Latest films ==")
	requireContains(t, out, "Omar Mukhtar")
	requireNotContains(t, out, "The Message")
	requireNotContains(t, out, "Bab Al Hara")

	calls := env.api.CallsTo("POST /ratings/average")
	last := calls[len(calls)-1]
	ids, _ := last.JSON["workIds"].([]any)
	if len(ids) != 1 || ids[0] != "f2" {
		t.Fatalf("ratings must be requested for the shown works only, got %v", ids)
	}
}

func TestLatestLocalizedHeader(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLatest(env)

	out, _, err := env.run(t, "--lang", "ar", "latest", "--type", "series")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	requireContains(t, out, "أحدث المسلسلات")
	requireContains(t, out, "مسلسل")
	requireContains(t, out, "لا توجد تقييمات")
}

func TestLatestRejectsUnknownType(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := env.run(t, "latest", "--type", "documentary")
	if err == nil {
		t.Fatal("expected type error")
	}
	requireContains(t, err.Error(), "--type must be film, series, or all")
	if got := len(env.api.Calls()); got != 0 {
		t.Fatalf("expected no API calls, got %d", got)
	}
}

func TestLatestEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "latest")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	requireContains(t, out, "No works found")
	if got := len(env.api.CallsTo("POST /ratings/average")); got != 0 {
		t.Fatalf("no ratings lookup expected without works, got %d", got)
	}
}
