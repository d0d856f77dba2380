// Package similarity detects near-duplicate grievance texts with a weighted
// bag-of-terms vector space: unigram+bigram term counts, stop-word filtering,
// a capped vocabulary, smoothed inverse document frequency, and cosine
// distance over l2-normalized vectors.
package similarity

import (
	"math"
	"sort"
	"sync"
)

const (
	// DefaultThreshold is the similarity at or above which two texts count
	// as near-duplicates.
	DefaultThreshold = 0.7

	// maxVocabulary caps the number of distinct terms per comparison,
	// keeping the highest-frequency terms across the corpus.
	maxVocabulary = 1000
)

// Verdict is the outcome of comparing one text against the corpus.
// MatchIndex is the position of the best match in the append-ordered corpus,
// or -1 when IsDuplicate is false.
type Verdict struct {
	IsDuplicate bool
	Score       float64
	MatchIndex  int
}

// Index holds the process-wide similarity corpus. Compare-then-append is a
// single critical section so two concurrent near-duplicates cannot both miss
// each other.
type Index struct {
	mu        sync.Mutex
	threshold float64
	docs      [][]string // term streams, in corpus append order
}

// NewIndex creates an empty index. A threshold outside (0,1] falls back to
// DefaultThreshold.
func NewIndex(threshold float64) *Index {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Index{threshold: threshold}
}

// ObserveAndAppend compares the cleaned text against every current corpus
// entry, then appends it, atomically. An empty corpus yields Score 0 and no
// duplicate; that is the expected state for the first submission.
func (x *Index) ObserveAndAppend(cleaned string) Verdict {
	terms := Terms(cleaned)

	x.mu.Lock()
	defer x.mu.Unlock()

	v := x.compare(terms)
	x.docs = append(x.docs, terms)
	return v
}

// Append adds the cleaned text to the corpus without comparing. Used on the
// degraded enrichment path, where the verdict is already forfeit but future
// submissions should still see this text.
func (x *Index) Append(cleaned string) {
	terms := Terms(cleaned)

	x.mu.Lock()
	defer x.mu.Unlock()

	x.docs = append(x.docs, terms)
}

// Size reports the current number of corpus entries.
func (x *Index) Size() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.docs)
}

// compare computes the maximum cosine similarity between the candidate term
// stream and each corpus entry. Caller must hold the lock.
func (x *Index) compare(candidate []string) Verdict {
	if len(x.docs) == 0 {
		return Verdict{MatchIndex: -1}
	}

	vocab := buildVocabulary(x.docs, candidate)
	idf := inverseDocFrequency(vocab, x.docs, candidate)

	cv := vectorize(candidate, vocab, idf)

	best, bestIdx := 0.0, -1
	for i, doc := range x.docs {
		sim := dot(vectorize(doc, vocab, idf), cv)
		if sim > best {
			best, bestIdx = sim, i
		}
	}

	if best >= x.threshold {
		return Verdict{IsDuplicate: true, Score: best, MatchIndex: bestIdx}
	}
	return Verdict{Score: best, MatchIndex: -1}
}

// buildVocabulary assigns indices to the corpus-wide term set, truncated to
// the maxVocabulary highest-frequency terms (ties broken alphabetically).
func buildVocabulary(docs [][]string, candidate []string) map[string]int {
	counts := make(map[string]int)
	for _, doc := range docs {
		for _, t := range doc {
			counts[t]++
		}
	}
	for _, t := range candidate {
		counts[t]++
	}

	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxVocabulary {
		terms = terms[:maxVocabulary]
	}

	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}
	return vocab
}

// inverseDocFrequency computes smoothed idf over the corpus plus the
// candidate: ln((1+n)/(1+df)) + 1.
func inverseDocFrequency(vocab map[string]int, docs [][]string, candidate []string) []float64 {
	df := make([]int, len(vocab))
	countDoc := func(doc []string) {
		seen := make(map[int]bool, len(doc))
		for _, t := range doc {
			if idx, ok := vocab[t]; ok && !seen[idx] {
				seen[idx] = true
				df[idx]++
			}
		}
	}
	for _, doc := range docs {
		countDoc(doc)
	}
	countDoc(candidate)

	n := float64(len(docs) + 1)
	idf := make([]float64, len(df))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}
	return idf
}

// vectorize builds the l2-normalized tf-idf vector for a term stream.
func vectorize(doc []string, vocab map[string]int, idf []float64) []float64 {
	vec := make([]float64, len(vocab))
	for _, t := range doc {
		if idx, ok := vocab[t]; ok {
			vec[idx] += idf[idx]
		}
	}

	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
