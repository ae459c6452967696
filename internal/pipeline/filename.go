package pipeline

import (
	"regexp"
	"strings"
	"time"
)

// FilenameTimeLayout is the timestamp part of a suggested artifact filename.
const FilenameTimeLayout = "20060102-150405"

// fallbackFilenameStem is used when the emission has no usable number.
const fallbackFilenameStem = "emissao"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SuggestedFilename names the artifact handed to storage:
// <sanitized-number>_<YYYYMMDD-HHMMSS>.pdf.
func SuggestedFilename(number string, at time.Time) string {
	stem := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(number), "-")
	stem = strings.Trim(stem, "-.")
	if stem == "" {
		stem = fallbackFilenameStem
	}
	return stem + "_" + at.Format(FilenameTimeLayout) + ".pdf"
}
