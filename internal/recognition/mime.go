package recognition

import "strings"

// DetectMime infers a document's content type from the tail of its name or
// URL. Anything unrecognized is treated as PDF.
func DetectMime(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	default:
		return "application/pdf"
	}
}
