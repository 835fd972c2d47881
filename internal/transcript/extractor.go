// Package transcript turns conversation transcripts into a fixed set of
// customer, policy and objection fields using keyword patterns.
package transcript

// Extract runs every rule against normalized text and returns a freshly
// populated result. Each rule stores its leftmost match; rules are evaluated
// independently, so one rule's match never hides another's.
func Extract(normalized string) *ExtractionResult {
	result := &ExtractionResult{}
	for _, rule := range rules {
		loc := rule.Pattern.FindStringIndex(normalized)
		if loc == nil || loc[0] == loc[1] {
			continue
		}
		result.set(rule.Field, normalized[loc[0]:loc[1]])
	}
	return result
}

// ExtractText normalizes raw text and extracts from it.
func ExtractText(raw string) (*ExtractionResult, string) {
	normalized := Normalize(raw)
	return Extract(normalized), normalized
}
