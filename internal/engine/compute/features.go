package compute

import (
	"strings"
	"unicode"

	"go.trai.ch/facet/internal/core/domain"
)

// minTokenLength filters out single characters and other noise tokens.
const minTokenLength = 2

// FeatureSet extracts the token set used for similarity scoring: normalized
// frontmatter tags unioned with the tokenized title and content words.
// Feature extraction is deliberately unweighted; the scoring function is
// fixed, the features are the tunable part.
func FeatureSet(n domain.Note) map[string]struct{} {
	features := make(map[string]struct{})
	for _, tag := range n.Frontmatter.Tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized != "" {
			features[normalized] = struct{}{}
		}
	}
	tokenizeInto(features, n.Frontmatter.Title)
	tokenizeInto(features, n.Content)
	return features
}

// Tokenize breaks text into a set of unique lowercase words, splitting on
// non-alphanumeric runes and dropping stopwords and short tokens.
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	tokenizeInto(tokens, text)
	return tokens
}

func tokenizeInto(dst map[string]struct{}, text string) {
	var word strings.Builder
	flush := func() {
		if word.Len() == 0 {
			return
		}
		token := word.String()
		word.Reset()
		if len(token) < minTokenLength {
			return
		}
		if _, stop := stopwords[token]; stop {
			return
		}
		dst[token] = struct{}{}
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
}

// Jaccard computes |A ∩ B| / |A ∪ B| over two feature sets. Two empty sets
// are maximally similar (1.0); one empty against one non-empty scores 0.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	intersection := 0
	for token := range small {
		if _, ok := large[token]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// stopwords are common English words excluded from feature sets. Matching
// on them would make every note look like every other note.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "be", "to", "of", "and", "in", "that", "have", "it",
		"for", "not", "on", "with", "he", "as", "you", "do", "at",
		"this", "but", "his", "by", "from", "they", "we", "say", "her",
		"she", "or", "an", "will", "my", "one", "all", "would", "there",
		"their", "what", "so", "up", "out", "if", "about", "who", "get",
		"which", "go", "me", "when", "make", "can", "like", "time", "no",
		"just", "him", "know", "take", "people", "into", "year", "your",
		"good", "some", "could", "them", "see", "other", "than", "then",
		"now", "look", "only", "come", "its", "over", "think", "also",
		"back", "after", "use", "two", "how", "our", "work", "first",
		"well", "way", "even", "new", "want", "because", "any", "these",
		"give", "day", "most", "us", "is", "was", "are", "been", "has",
		"had", "were", "said", "did", "having", "may", "am", "should",
		"too", "very",
	} {
		stopwords[w] = struct{}{}
	}
}
