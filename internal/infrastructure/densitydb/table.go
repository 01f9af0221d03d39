// Package densitydb loads the local ingredient density reference table and
// serves exact, fuzzy, and word-level lookups against it.
package densitydb

import (
	"bytes"
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

//go:embed densities.tsv
var embedded embed.FS

// wordMatchPenalty discounts word-level matches relative to whole-string
// matches, so a single-word hit never outranks an exact or near-exact match.
const wordMatchPenalty = 0.9

// minIndexWordLen skips very short words when building the word index.
const minIndexWordLen = 3

// Entry is one row of the density table.
type Entry struct {
	Name       string  // original name as listed in the table
	SearchName string  // normalized name used for matching
	DensityGML float64 // density in g/ml
}

// Match is a lookup result with its similarity score in [0,1].
type Match struct {
	Entry Entry
	Score float64
}

// Table is an in-memory density reference with a word index built at load time.
type Table struct {
	entries []Entry
	byName  map[string]int   // search name -> entry index
	byWord  map[string][]int // word -> candidate entry indexes
}

// Load parses the embedded density table.
func Load() (*Table, error) {
	data, err := embedded.ReadFile("densities.tsv")
	if err != nil {
		return nil, fmt.Errorf("reading embedded densities: %w", err)
	}
	return parse(bytes.NewReader(data))
}

// LoadFile parses a density table from a TSV file on disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening densities file: %w", err)
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing densities TSV: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("densities table is empty")
	}

	t := &Table{
		byName: make(map[string]int),
		byWord: make(map[string][]int),
	}

	// Skip the header row. Rows without a parseable density are dropped, the
	// same way the source table filters unparseable range values.
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		density, ok := parseDensityValue(row[1])
		if !ok || name == "" {
			continue
		}
		searchName := NormalizeName(name)
		if searchName == "" {
			continue
		}

		idx := len(t.entries)
		t.entries = append(t.entries, Entry{
			Name:       name,
			SearchName: searchName,
			DensityGML: density,
		})

		if _, exists := t.byName[searchName]; !exists {
			t.byName[searchName] = idx
		}
		for _, word := range strings.Fields(searchName) {
			if len(word) < minIndexWordLen {
				continue
			}
			t.byWord[word] = append(t.byWord[word], idx)
		}
	}

	if len(t.entries) == 0 {
		return nil, fmt.Errorf("densities table has no usable rows")
	}
	return t, nil
}

// parseDensityValue parses a density cell, collapsing ranges like "0.48-0.56"
// to their midpoint.
func parseDensityValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		low, err1 := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		high, err2 := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err1 == nil && err2 == nil {
			return (low + high) / 2, true
		}
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Descriptor patterns stripped during name normalization. These qualifiers do
// not meaningfully change an ingredient's density.
var descriptorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(fresh|dried|frozen|canned|bottled|raw|cooked|boiled|steamed)\b`),
	regexp.MustCompile(`\b(organic|natural|pure)\b`),
	regexp.MustCompile(`\b(with|without|added|no)\s+\w+`),
	regexp.MustCompile(`\b(unsweetened|sweetened)\b`),
	regexp.MustCompile(`\s*\([^)]*\)`), // parenthetical content
	regexp.MustCompile(`\s*,.*$`),      // everything after the first comma
}

var multiSpace = regexp.MustCompile(`\s+`)

// NormalizeName lowercases an ingredient name and strips descriptors that do
// not affect density matching.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, p := range descriptorPatterns {
		s = p.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

// Len returns the number of usable entries.
func (t *Table) Len() int { return len(t.entries) }

// Find resolves an ingredient name against the table, trying progressively
// less precise strategies: exact normalized match (score 1.0), whole-string
// fuzzy match, then word-level match against the index. The best candidate is
// accepted when its score clears the threshold.
func (t *Table) Find(name string, threshold float64) (Match, bool) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return Match{}, false
	}

	// Exact match.
	if idx, ok := t.byName[normalized]; ok {
		return Match{Entry: t.entries[idx], Score: 1.0}, true
	}

	// Whole-string fuzzy match across all entries.
	best := Match{Score: -1}
	for _, e := range t.entries {
		if score := SimilarityRatio(normalized, e.SearchName); score > best.Score {
			best = Match{Entry: e, Score: score}
		}
	}
	if best.Score >= threshold {
		return best, true
	}

	// Word-level match: look up each query word in the index and score the
	// candidates it points at. Word hits are discounted so they sit below
	// whole-string matches of the same quality.
	for _, word := range strings.Fields(normalized) {
		if len(word) < minIndexWordLen {
			continue
		}
		for _, idx := range t.byWord[word] {
			e := t.entries[idx]
			score := SimilarityRatio(normalized, e.SearchName)
			if wordScore := wordMatchPenalty * SimilarityRatio(word, e.SearchName); wordScore > score {
				score = wordScore
			}
			if score > best.Score {
				best = Match{Entry: e, Score: score}
			}
		}
	}
	if best.Score >= threshold {
		return best, true
	}

	return Match{}, false
}

// Suggestions returns entries whose normalized name contains the partial query.
func (t *Table) Suggestions(partial string, limit int) []Entry {
	normalized := NormalizeName(partial)
	if normalized == "" || limit <= 0 {
		return nil
	}
	var out []Entry
	for _, e := range t.entries {
		if strings.Contains(e.SearchName, normalized) {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// SimilarityRatio computes a normalized edit-distance ratio in [0,1]: 1 for
// identical strings, 0 for entirely different ones.
func SimilarityRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(a, b))/float64(maxLen)
}

// levenshteinDistance calculates the edit distance between two strings using
// two rows instead of the full matrix.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	n := len(r2)

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
