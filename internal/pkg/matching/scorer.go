package matching

import (
	"math"
	"sort"
	"strings"
)

// Weights of the composite score. Topical fit dominates, capacity breaks ties.
const (
	TopicalWeight  = 0.7
	CapacityWeight = 0.3
)

// Candidate is the scorer's view of a supervisor
type Candidate struct {
	ID          string
	Domains     []string
	MaxQuota    int
	CurrentLoad int
	Available   bool
}

// Result holds a composite score and its components, rounded to two decimals
type Result struct {
	Composite     float64  `json:"score"`
	Topical       float64  `json:"domainScore"`
	Capacity      float64  `json:"quotaScore"`
	CommonDomains []string `json:"commonDomains"`
	Remaining     int      `json:"remainingSlots"`
}

// Suggestion pairs a ranked candidate with its score
type Suggestion struct {
	Candidate Candidate
	Result    Result
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func toSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[normalize(t)] = struct{}{}
	}
	return set
}

// Jaccard returns |A ∩ B| / |A ∪ B| over case-folded, trimmed tags.
// It is 0 when either side is empty.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA, setB := toSet(a), toSet(b)

	intersection := 0
	for tag := range setA {
		if _, ok := setB[tag]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// CapacityScore is the share of the quota still free, never negative
func CapacityScore(maxQuota, currentLoad int) float64 {
	if maxQuota <= 0 {
		return 0
	}
	remaining := maxQuota - currentLoad
	if remaining <= 0 {
		return 0
	}
	return float64(remaining) / float64(maxQuota)
}

// Eligible reports whether a candidate may receive one more student
func Eligible(c Candidate) bool {
	return c.Available && c.CurrentLoad < c.MaxQuota
}

// CommonDomains returns the candidate's tags that the student also declared,
// keeping the candidate's spelling and order. The list is deduplicated
// ignoring case, so a tag repeated by the candidate appears once.
func CommonDomains(studentDomains, supervisorDomains []string) []string {
	student := toSet(studentDomains)
	common := make([]string, 0)
	seen := make(map[string]struct{})
	for _, tag := range supervisorDomains {
		key := normalize(tag)
		if _, ok := student[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		common = append(common, tag)
	}
	return common
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Score computes the compatibility of a student with one candidate.
// Rounding is applied once, after the weighted sum.
func Score(studentDomains []string, c Candidate) Result {
	topical := Jaccard(studentDomains, c.Domains)
	capacity := CapacityScore(c.MaxQuota, c.CurrentLoad)
	composite := TopicalWeight*topical + CapacityWeight*capacity

	return Result{
		Composite:     round2(composite),
		Topical:       round2(topical),
		Capacity:      round2(capacity),
		CommonDomains: CommonDomains(studentDomains, c.Domains),
		Remaining:     c.MaxQuota - c.CurrentLoad,
	}
}

// Rank drops ineligible candidates and orders the rest by descending
// composite score. Equal scores keep their input order.
func Rank(studentDomains []string, candidates []Candidate) []Suggestion {
	suggestions := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		if !Eligible(c) {
			continue
		}
		suggestions = append(suggestions, Suggestion{Candidate: c, Result: Score(studentDomains, c)})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Result.Composite > suggestions[j].Result.Composite
	})
	return suggestions
}
