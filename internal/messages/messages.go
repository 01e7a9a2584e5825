package messages

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a user-facing message.
type Key string

const (
	SigninUnexpected      Key = "signin.unexpected"
	SigninFailed          Key = "signin.failed"
	InvalidCredentials    Key = "signin.invalid_credentials"
	SigninSucceeded       Key = "signin.succeeded"
	AccessRequired        Key = "session.access_required"
	WorkNotFound          Key = "load.not_found"
	LoadFailed            Key = "load.failed"
	UploadDirectorFailed  Key = "upload.director_failed"
	UploadAssistantFailed Key = "upload.assistant_failed"
	UploadCastFailed      Key = "upload.cast_failed"
	UnsupportedImageType  Key = "image.unsupported_type"
	ImageTooLarge         Key = "image.too_large"
	WorkUpdated           Key = "submit.updated"
	WorkCreated           Key = "submit.created"
	SaveFailed            Key = "submit.failed"
	SubmitInFlight        Key = "submit.in_flight"
	RequiredFields        Key = "validate.required"
	YearOutOfRange        Key = "validate.year_range"
	NoRatings             Key = "browse.no_ratings"
	LatestFilms           Key = "browse.latest_films"
	LatestSeries          Key = "browse.latest_series"
	KindFilm              Key = "kind.film"
	KindSeries            Key = "kind.series"
)

var arabic = map[Key]string{
	SigninUnexpected:      "فشل تسجيل الدخول (خطأ غير متوقع)",
	SigninFailed:          "فشل تسجيل الدخول",
	InvalidCredentials:    "الإيميل أو كلمة المرور غير صحيحة",
	SigninSucceeded:       "تم تسجيل الدخول بنجاح",
	AccessRequired:        "يجب تسجيل الدخول للوصول إلى لوحة التحكم",
	WorkNotFound:          "لم يتم العثور على العمل المطلوب تعديله",
	LoadFailed:            "حدث خطأ أثناء تحميل بيانات العمل",
	UploadDirectorFailed:  "فشل رفع صورة المخرج",
	UploadAssistantFailed: "فشل رفع صورة مساعد المخرج",
	UploadCastFailed:      "فشل رفع صورة الممثل",
	UnsupportedImageType:  "صيغة الملف غير مدعومة. استخدم JPG أو PNG أو GIF أو WEBP",
	ImageTooLarge:         "حجم الصورة كبير جداً. الحد الأقصى %s ميجابايت",
	WorkUpdated:           "تم تعديل العمل بنجاح",
	WorkCreated:           "تم إضافة العمل بنجاح",
	SaveFailed:            "حدث خطأ أثناء حفظ العمل",
	SubmitInFlight:        "جاري حفظ العمل، يرجى الانتظار",
	RequiredFields:        "يرجى ملء الحقول المطلوبة: %s",
	YearOutOfRange:        "السنة يجب أن تكون بين 1800 و 3000",
	NoRatings:             "لا توجد تقييمات",
	LatestFilms:           "أحدث الأفلام",
	LatestSeries:          "أحدث المسلسلات",
	KindFilm:              "فيلم",
	KindSeries:            "مسلسل",
}

var english = map[Key]string{
	SigninUnexpected:      "Sign-in failed (unexpected error)",
	SigninFailed:          "Sign-in failed",
	InvalidCredentials:    "Invalid email or password",
	SigninSucceeded:       "Signed in",
	AccessRequired:        "Sign in to access the dashboard",
	WorkNotFound:          "The work you are editing was not found",
	LoadFailed:            "Failed to load the work",
	UploadDirectorFailed:  "Director image upload failed",
	UploadAssistantFailed: "Assistant director image upload failed",
	UploadCastFailed:      "Cast member image upload failed",
	UnsupportedImageType:  "Unsupported file type. Use JPG, PNG, GIF or WEBP",
	ImageTooLarge:         "Image is too large. Maximum size is %s MB",
	WorkUpdated:           "Work updated",
	WorkCreated:           "Work added",
	SaveFailed:            "Failed to save the work",
	SubmitInFlight:        "A save is already in progress",
	RequiredFields:        "Fill in the required fields: %s",
	YearOutOfRange:        "Year must be between 1800 and 3000",
	NoRatings:             "No ratings",
	LatestFilms:           "Latest films",
	LatestSeries:          "Latest series",
	KindFilm:              "Film",
	KindSeries:            "Series",
}

var (
	buildOnce sync.Once
	builder   *catalog.Builder
	matcher   = language.NewMatcher([]language.Tag{language.Arabic, language.English})
)

func sharedCatalog() *catalog.Builder {
	buildOnce.Do(func() {
		builder = catalog.NewBuilder(catalog.Fallback(language.Arabic))
		for key, text := range arabic {
			_ = builder.SetString(language.Arabic, string(key), text)
		}
		for key, text := range english {
			_ = builder.SetString(language.English, string(key), text)
		}
	})
	return builder
}

// Catalog renders localized messages for one language.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
	title   cases.Caser
}

// New returns a catalog for lang ("ar", "en", or any BCP 47 tag). Unknown or
// unsupported languages fall back to Arabic.
func New(lang string) *Catalog {
	tag := language.Arabic
	if parsed, err := language.Parse(lang); err == nil {
		_, index, confidence := matcher.Match(parsed)
		if confidence != language.No && index == 1 {
			tag = language.English
		}
	}
	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(sharedCatalog())),
		title:   cases.Title(tag),
	}
}

// Language returns the resolved language tag.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// Text renders the message for key. Arguments are substituted with %s verbs
// and should already be strings.
func (c *Catalog) Text(key Key, args ...any) string {
	return c.printer.Sprintf(string(key), args...)
}

// Platforms lists the known streaming platform identifiers in display order.
var Platforms = []string{"netflix", "shahid", "youtube", "ocn"}

var platformLabels = map[string]string{
	"youtube": "YouTube",
	"ocn":     "OCN",
}

// PlatformLabel returns the display name of a streaming platform identifier.
// Unknown identifiers are title-cased.
func (c *Catalog) PlatformLabel(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if label, ok := platformLabels[key]; ok {
		return label
	}
	return c.title.String(key)
}

// Labels returns every localized label for key across supported languages.
func Labels(key Key) []string {
	return []string{arabic[key], english[key]}
}
