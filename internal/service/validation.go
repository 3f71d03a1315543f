package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateEvaluatorInfo checks the respondent block and reports every
// failing field at once. Messages are shown to the public form as-is.
func ValidateEvaluatorInfo(info models.EvaluatorInfo) models.FormValidation {
	errs := make([]models.ValidationError, 0)

	if strings.TrimSpace(info.Nama) == "" {
		errs = append(errs, models.ValidationError{Field: "nama", Message: "Nama penilai diperlukan"})
	}

	if info.Umur == 0 {
		errs = append(errs, models.ValidationError{Field: "umur", Message: "Umur diperlukan"})
	} else if info.Umur < 1 || info.Umur > 150 {
		errs = append(errs, models.ValidationError{Field: "umur", Message: "Umur tidak sah"})
	}

	if strings.TrimSpace(info.Alamat) == "" {
		errs = append(errs, models.ValidationError{Field: "alamat", Message: "Alamat diperlukan"})
	}

	if strings.TrimSpace(info.Tarikh) == "" {
		errs = append(errs, models.ValidationError{Field: "tarikh", Message: "Tarikh diperlukan"})
	} else if !IsValidDate(info.Tarikh) {
		errs = append(errs, models.ValidationError{Field: "tarikh", Message: "Format tarikh tidak sah"})
	}

	return models.FormValidation{IsValid: len(errs) == 0, Errors: errs}
}

// IsValidDate accepts only real calendar dates in YYYY-MM-DD form.
func IsValidDate(dateStr string) bool {
	if !datePattern.MatchString(dateStr) {
		return false
	}
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}

// IsValidRating accepts only the 1..4 scale; nil is unanswered.
func IsValidRating(rating *int) bool {
	return rating != nil && *rating >= 1 && *rating <= 4
}

// IsRatingsComplete reports whether all four questions carry a valid
// answer.
func IsRatingsComplete(ratings models.EvaluationRatings) bool {
	return IsValidRating(ratings.Q1Tajuk) &&
		IsValidRating(ratings.Q2Ilmu) &&
		IsValidRating(ratings.Q3Penyampaian) &&
		IsValidRating(ratings.Q4Masa)
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// SanitizeString trims whitespace and escapes HTML metacharacters so the
// value is safe to embed in generated HTML.
func SanitizeString(input string) string {
	return htmlEscaper.Replace(strings.TrimSpace(input))
}
