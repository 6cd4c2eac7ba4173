package match

import (
	"cmp"
	"reflect"
	"slices"
)

// SuggestionThreshold is the lowest score a "did you mean" suggestion may have.
const SuggestionThreshold = 0.5

// Named is a name with an optional type. Names without a type are ranked
// on spelling alone.
type Named struct {
	Name string
	Type reflect.Type
}

// Candidate is one source scored as a match for a target.
type Candidate struct {
	Source Named
	Target Named

	// NameScore is the spelling similarity of the normalized names, 0 to 1.
	NameScore float64
	// TypeCompat is only set when both sides have a type.
	TypeCompat TypeCompatibilityResult
	Typed      bool
	Score      float64
}

// fits reports whether a typed candidate's value could be stored in the target.
func (c Candidate) fits() bool {
	return !c.Typed || c.TypeCompat.Compatibility >= TypeAssignable
}

type CandidateList []Candidate

// RankCandidates scores every source against target, best first. Equal
// scores keep name order so the ranking is stable across runs.
func RankCandidates(target Named, sources []Named) CandidateList {
	list := make(CandidateList, 0, len(sources))

	for _, src := range sources {
		c := Candidate{
			Source:    src,
			Target:    target,
			NameScore: nameSimilarity(src.Name, target.Name),
		}

		c.Score = c.NameScore

		if src.Type != nil && target.Type != nil {
			c.Typed = true
			c.TypeCompat = ScoreTypeCompatibility(src.Type, target.Type)
			c.Score = weighted(c.NameScore, c.TypeCompat.Compatibility)
		}

		list = append(list, c)
	}

	slices.SortFunc(list, func(a, b Candidate) int {
		if d := cmp.Compare(b.Score, a.Score); d != 0 {
			return d
		}

		return cmp.Compare(a.Source.Name, b.Source.Name)
	})

	return list
}

// Suggest returns up to limit of names that look like a misspelling of target.
func Suggest(target string, names []string, limit int) []string {
	sources := make([]Named, 0, len(names))
	for _, n := range names {
		sources = append(sources, Named{Name: n})
	}

	return RankCandidates(Named{Name: target}, sources).suggestions(limit)
}

// SuggestTyped is Suggest for typed names: sources whose type cannot be
// stored in the target type are never suggested.
func SuggestTyped(target Named, sources []Named, limit int) []string {
	return RankCandidates(target, sources).suggestions(limit)
}

func (c CandidateList) suggestions(limit int) []string {
	var out []string

	for _, cand := range c {
		if len(out) == limit || cand.Score < SuggestionThreshold {
			break
		}

		if cand.fits() {
			out = append(out, cand.Source.Name)
		}
	}

	return out
}

// nameSimilarity compares the normalized names with and without a trailing
// noise token and keeps the better score.
func nameSimilarity(a, b string) float64 {
	return max(
		LevenshteinNormalized(NormalizeIdent(a), NormalizeIdent(b)),
		LevenshteinNormalized(NormalizeIdentWithSuffixStrip(a), NormalizeIdentWithSuffixStrip(b)),
	)
}

// weighted mixes spelling (60%) and type compatibility (40%) into one score.
func weighted(name float64, compat TypeCompatibility) float64 {
	typeScore := map[TypeCompatibility]float64{
		TypeIdentical:      1,
		TypeAssignable:     0.9,
		TypeConvertible:    0.7,
		TypeNeedsTransform: 0.4,
	}[compat]

	return 0.6*name + 0.4*typeScore
}
