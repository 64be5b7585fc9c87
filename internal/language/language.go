package language

import (
	"strings"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// Detector guesses the language of extracted text. Only a handful of
// languages are loaded to keep the model footprint small.
type Detector struct {
	detector lingua.LanguageDetector
}

func NewDetector() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.Bokmal,
				lingua.Nynorsk,
				lingua.English,
				lingua.Swedish,
				lingua.Danish,
				lingua.German,
			).
			WithMinimumRelativeDistance(0.1).
			Build(),
	}
}

// SampleSize caps how many bytes of a text are used for detection.
const SampleSize = 4 << 10

// Detect returns the ISO 639-1 code of the detected language, or an empty
// string when detection is not reliable. Only the first SampleSize bytes of
// text are looked at.
func (d *Detector) Detect(text string) string {
	if d == nil {
		return ""
	}

	text = strings.TrimSpace(Sample(text))
	if text == "" {
		return ""
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}

	return strings.ToLower(lang.IsoCode639_1().String())
}

// Sample returns the longest prefix of text that fits in SampleSize bytes
// without splitting a rune.
func Sample(text string) string {
	if len(text) <= SampleSize {
		return text
	}

	cut := SampleSize
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	return text[:cut]
}
