// internal/service/template_service.go
package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	appErrors "github.com/unclebandit/bulkmailer-backend/internal/errors"
)

// Placeholders are single-brace tokens like {Name}, matched non-greedily.
// Nested or escaped braces are not supported.
var placeholderPattern = regexp.MustCompile(`\{(.*?)\}`)

// ExtractPlaceholders returns the distinct placeholder names in templateText,
// in first-seen order. An empty template yields an empty slice.
func ExtractPlaceholders(templateText string) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(templateText, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// ValidatePlaceholders fails with a MissingFieldsError if any placeholder is
// absent from the available field set. Runs once per batch, before any send.
func ValidatePlaceholders(placeholders, available []string) error {
	fields := make(map[string]bool, len(available))
	for _, f := range available {
		fields[f] = true
	}
	missing := []string{}
	for _, p := range placeholders {
		if !fields[p] {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return appErrors.NewMissingFields(missing)
	}
	return nil
}

// RenderTemplate substitutes every {name} token with its value from data.
// Literal \n sequences in the source are normalized to real newlines before
// substitution and the result is trimmed of surrounding whitespace.
func RenderTemplate(template string, data map[string]string) (string, error) {
	result := strings.ReplaceAll(template, `\n`, "\n")
	for k, v := range data {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	if !utf8.ValidString(result) {
		return "", appErrors.NewRenderError("rendered body is not valid UTF-8")
	}
	return strings.TrimSpace(result), nil
}
