package stake

import "strings"

// NormalizeTerm canonicalizes a search term before indexing or lookup:
// lowercase, surrounding whitespace trimmed. Stake-side and query-side
// normalization must stay identical so matching is case and whitespace
// insensitive.
func NormalizeTerm(term string) string {
	return strings.TrimSpace(strings.ToLower(term))
}

// NormalizeLink canonicalizes a website link before it becomes an index key.
// The registry trims links the same way, so a staked link and a described
// link always resolve to the same website.
func NormalizeLink(link string) string {
	return strings.TrimSpace(link)
}
