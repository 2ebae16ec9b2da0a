package models

// ContentStatus is the publication lifecycle shared by editorial content.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "DRAFT"
	ContentStatusPublished ContentStatus = "PUBLISHED"
	ContentStatusArchived  ContentStatus = "ARCHIVED"
)

// ValidContentStatus reports whether the status is a known lifecycle state.
func ValidContentStatus(s ContentStatus) bool {
	switch s {
	case ContentStatusDraft, ContentStatusPublished, ContentStatusArchived:
		return true
	}
	return false
}

// Localize picks the requested language variant with fallback: English
// requests fall back to Indonesian when the English column is empty, and
// vice versa. Content is authored Indonesian-first.
func Localize(lang, id, en string) string {
	if lang == "en" {
		if en != "" {
			return en
		}
		return id
	}
	if id != "" {
		return id
	}
	return en
}
