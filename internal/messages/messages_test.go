package messages_test

import (
	"testing"

	"golang.org/x/text/language"

	"filmdesk/internal/messages"
)

func TestArabicIsDefault(t *testing.T) {
	for _, lang := range []string{"", "ar", "fr", "not a tag"} {
		c := messages.New(lang)
		if c.Language() != language.Arabic {
			t.Fatalf("New(%q) language = %v, want ar", lang, c.Language())
		}
	}
	c := messages.New("ar")
	if got := c.Text(messages.WorkCreated); got != "تم إضافة العمل بنجاح" {
		t.Fatalf("unexpected arabic text: %q", got)
	}
	if got := c.Text(messages.KindSeries); got != "مسلسل" {
		t.Fatalf("unexpected kind label: %q", got)
	}
}

func TestEnglishCatalog(t *testing.T) {
	c := messages.New("en-GB")
	if c.Language() != language.English {
		t.Fatalf("expected english, got %v", c.Language())
	}
	if got := c.Text(messages.ImageTooLarge, "5"); got != "Image is too large. Maximum size is 5 MB" {
		t.Fatalf("unexpected formatted text: %q", got)
	}
	if got := c.Text(messages.RequiredFields, "genre, country"); got != "Fill in the required fields: genre, country" {
		t.Fatalf("unexpected formatted text: %q", got)
	}
}

func TestPlatformLabel(t *testing.T) {
	c := messages.New("en")
	cases := map[string]string{
		"netflix": "Netflix",
		"shahid":  "Shahid",
		"youtube": "YouTube",
		"OCN":     "OCN",
	}
	for name, want := range cases {
		if got := c.PlatformLabel(name); got != want {
			t.Fatalf("PlatformLabel(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestLabelsCoverBothLanguages(t *testing.T) {
	labels := messages.Labels(messages.KindFilm)
	if len(labels) != 2 || labels[0] != "فيلم" || labels[1] != "Film" {
		t.Fatalf("unexpected labels: %v", labels)
	}
}
