package textutil

import (
	"path/filepath"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Confidence buckets a similarity score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// Match is the similarity of a file name and a title.
type Match struct {
	Score      float64
	Confidence Confidence
}

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// Similarity compares an input path with a title. The directory and
// extension of path are ignored.
func Similarity(path, title string) Match {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	a, b := normalize(name), normalize(title)
	if a == "" || b == "" {
		return Match{Confidence: ConfidenceNone}
	}

	score := float64(edlib.JaroWinklerSimilarity(a, b))
	if cosine := CosineSimilarity(NewFingerprint(a), NewFingerprint(b)); cosine > score {
		score = cosine
	}

	match := Match{Score: score}
	switch {
	case score >= 0.95:
		match.Confidence = ConfidenceHigh
	case score >= 0.85:
		match.Confidence = ConfidenceMedium
	case score >= 0.70:
		match.Confidence = ConfidenceLow
	default:
		match.Confidence = ConfidenceNone
	}
	return match
}

func normalize(text string) string {
	return strings.Join(Tokenize(text), " ")
}
