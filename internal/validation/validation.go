package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"tweetsearch/internal/models"
)

// FieldPhrase is the form field carrying the search phrase.
const FieldPhrase = "phrase"

// RequiredFieldError reports a missing or empty form field.
type RequiredFieldError struct {
	Field string
}

func (e *RequiredFieldError) Error() string {
	return "This field is required."
}

// MaxLengthError reports a field longer than the storage maximum.
type MaxLengthError struct {
	Field  string
	Max    int
	Actual int
}

func (e *MaxLengthError) Error() string {
	return fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", e.Max, e.Actual)
}

// FormErrors maps a field name to its error messages.
type FormErrors map[string][]string

// Add records an error against a field.
func (fe FormErrors) Add(field string, err error) {
	fe[field] = append(fe[field], err.Error())
}

// HasErrors returns true if any field failed validation.
func (fe FormErrors) HasErrors() bool {
	return len(fe) > 0
}

// SearchForm is a validated search submission.
type SearchForm struct {
	Phrase string
}

// ValidateSearchForm checks the submitted phrase. On success the returned form
// carries the trimmed phrase; on failure the errors are keyed by field name.
func ValidateSearchForm(phrase string) (SearchForm, FormErrors) {
	errs := FormErrors{}
	if err := ValidatePhrase(phrase); err != nil {
		errs.Add(FieldPhrase, err)
		return SearchForm{}, errs
	}
	return SearchForm{Phrase: strings.TrimSpace(phrase)}, nil
}

// ValidatePhrase returns a *RequiredFieldError for an empty phrase or a
// *MaxLengthError when it exceeds models.MaxPhraseLength.
func ValidatePhrase(phrase string) error {
	trimmed := strings.TrimSpace(phrase)
	if trimmed == "" {
		return &RequiredFieldError{Field: FieldPhrase}
	}
	if n := utf8.RuneCountInString(trimmed); n > models.MaxPhraseLength {
		return &MaxLengthError{Field: FieldPhrase, Max: models.MaxPhraseLength, Actual: n}
	}
	return nil
}

// NormalizePhrase lowercases a phrase so records are keyed case-insensitively.
func NormalizePhrase(phrase string) string {
	return strings.ToLower(strings.TrimSpace(phrase))
}
