package detector

import (
	"cmp"
	"slices"

	"github.com/thoreinstein/envdetect/internal/specificity"
)

// Candidate pairs a detector with the identifier it reports.
type Candidate[ID any] struct {
	ID       ID
	Detector Detector
}

// Result is one ranked detection.
type Result[ID any] struct {
	ID    ID
	Score Score
}

type scored struct {
	index int
	score Score
}

// Rank scores every candidate against the evidence, drops those below
// threshold, and orders the rest by descending score.
//
// Equal scores are ordered by specificity: a candidate more specific than
// another sorts first. Candidates that are equal or incomparable keep the
// order in which they were given, so identical inputs always produce
// identical output.
func Rank[ID any](candidates []Candidate[ID], ev Evidence, threshold Score) []Result[ID] {
	kept := make([]scored, 0, len(candidates))
	for i, c := range candidates {
		s := c.Detector.Score(ev)
		if s < threshold {
			continue
		}
		kept = append(kept, scored{index: i, score: s})
	}

	slices.SortStableFunc(kept, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	for start := 0; start < len(kept); {
		end := start + 1
		for end < len(kept) && kept[end].score == kept[start].score {
			end++
		}
		if end-start > 1 {
			orderBySpecificity(kept[start:end], candidates)
		}
		start = end
	}

	results := make([]Result[ID], len(kept))
	for i, k := range kept {
		results[i] = Result[ID]{ID: candidates[k.index].ID, Score: k.score}
	}
	return results
}

// orderBySpecificity reorders a run of equally scored entries in place.
// It repeatedly takes the earliest entry that no remaining entry is more
// specific than. Specificity is a partial order, so such an entry always
// exists.
func orderBySpecificity[ID any](run []scored, candidates []Candidate[ID]) {
	remaining := slices.Clone(run)
	for out := range run {
		pick := 0
		for i, a := range remaining {
			if !dominated(a, remaining, candidates) {
				pick = i
				break
			}
		}
		run[out] = remaining[pick]
		remaining = slices.Delete(remaining, pick, pick+1)
	}
}

func dominated[ID any](a scored, others []scored, candidates []Candidate[ID]) bool {
	da := candidates[a.index].Detector
	for _, b := range others {
		if b.index == a.index {
			continue
		}
		if candidates[b.index].Detector.Compare(da) == specificity.Greater {
			return true
		}
	}
	return false
}
