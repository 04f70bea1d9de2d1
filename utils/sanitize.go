package utils

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// Sanitize keeps safe formatting markup, used for artwork descriptions written by the admin.
func Sanitize(input string) string {
	return richPolicy.Sanitize(input)
}

// StripTags removes every tag, used for visitor comments. The result is plain text;
// templates escape it again on output.
func StripTags(input string) string {
	return html.UnescapeString(plainPolicy.Sanitize(input))
}
