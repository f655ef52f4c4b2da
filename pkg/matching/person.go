package matching

import (
	"math"
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/normalizers"
)

const (
	weightFamilyname = 0.5
	weightForename   = 0.4
	weightAlternate  = 0.1

	// LowConfidenceFloor is the lowest score reported as a low-confidence candidate
	LowConfidenceFloor = 70.0
)

// Thresholds are the per-field acceptance thresholds on the 0-100 scale
type Thresholds struct {
	Forename   float64
	Familyname float64
	Name       float64
}

// DefaultThresholds returns the default acceptance thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{Forename: 85, Familyname: 85, Name: 85}
}

// PersonMatch is the outcome of scoring one mention against one candidate
type PersonMatch struct {
	Score float64
	// FieldsOK is true when every populated mention field cleared its threshold
	FieldsOK bool
	Swapped  bool
	Vetoed   bool
}

// PersonScorer computes combined person scores
type PersonScorer struct {
	scorer     *Scorer
	thresholds Thresholds
}

// NewPersonScorer creates a PersonScorer
func NewPersonScorer(scorer *Scorer, thresholds Thresholds) *PersonScorer {
	return &PersonScorer{scorer: scorer, thresholds: thresholds}
}

// Thresholds returns the configured thresholds
func (s *PersonScorer) Thresholds() Thresholds {
	return s.thresholds
}

// Score compares mention m against candidate c.
//
// Terms:
//   - familyname (0.5): similarity when both sides are set, 50 when only one is
//   - forename (0.4): similarity when both sides are set, dropped otherwise;
//     a single-letter initial matching the candidate's first letter scores
//     the forename threshold
//   - alternate name (0.1): 100 equal, 50 one-sided, dropped when neither;
//     two different alternate names veto the candidate
//
// Dropped terms are excluded and the remaining weights renormalized.
// Forename and familyname swapped between m and c is a perfect match.
func (s *PersonScorer) Score(m, c models.Person) PersonMatch {
	mFore, mFam := normalizers.NormalizeName(m.Forename), normalizers.NormalizeName(m.Familyname)
	cFore, cFam := normalizers.NormalizeName(c.Forename), normalizers.NormalizeName(c.Familyname)
	mAlt, cAlt := normalizers.NormalizeName(m.AlternateName), normalizers.NormalizeName(c.AlternateName)

	if mAlt != "" && cAlt != "" && mAlt != cAlt {
		return PersonMatch{Vetoed: true}
	}
	if mFore == "" && mFam == "" {
		return PersonMatch{}
	}
	if mFore == cFore && mFam == cFam {
		return PersonMatch{Score: 100, FieldsOK: true}
	}
	if mFore == cFam && mFam == cFore {
		return PersonMatch{Score: 100, FieldsOK: true, Swapped: true}
	}

	scores := map[string]float64{}
	weights := map[string]float64{
		"familyname": weightFamilyname,
		"forename":   weightForename,
		"alternate":  weightAlternate,
	}
	ok := true

	switch {
	case mFam != "" && cFam != "":
		scores["familyname"] = s.scorer.BestRatio(mFam, cFam)
		ok = ok && scores["familyname"] >= s.thresholds.Familyname
	case mFam != "":
		scores["familyname"] = 50
		ok = false
	case cFam != "":
		scores["familyname"] = 50
	}

	if mFore != "" && cFore != "" {
		scores["forename"] = s.forenameScore(mFore, cFore)
		ok = ok && scores["forename"] >= s.thresholds.Forename
	}

	switch {
	case mAlt != "" && cAlt != "":
		scores["alternate"] = 100
	case mAlt != "" || cAlt != "":
		scores["alternate"] = 50
	}

	score := s.scorer.WeightedScore(scores, weights)
	return PersonMatch{Score: round(score), FieldsOK: ok}
}

// Best returns the larger of scoring m against c and c against m. It is used
// between two mentions of one document, where neither side is authoritative.
func (s *PersonScorer) Best(a, b models.Person) PersonMatch {
	ab := s.Score(a, b)
	ba := s.Score(b, a)
	if ba.FieldsOK && (!ab.FieldsOK || ba.Score > ab.Score) {
		return ba
	}
	return ab
}

func (s *PersonScorer) forenameScore(m, c string) float64 {
	mr := []rune(m)
	if len(mr) == 1 {
		if strings.HasPrefix(c, m) {
			return s.thresholds.Forename
		}
		return 0
	}
	best := s.scorer.BestRatio(m, c)
	// compound forenames: "anna-maria" vs "anna"
	for _, part := range strings.FieldsFunc(c, func(r rune) bool { return r == '-' || r == ' ' }) {
		if part == m {
			best = max(best, s.thresholds.Forename)
		}
	}
	return best
}

// Tier maps a score and acceptance decision to a confidence tier
func Tier(score float64, accepted bool) models.Confidence {
	switch {
	case accepted && score >= 100:
		return models.ConfidenceExact
	case accepted:
		return models.ConfidenceFuzzy
	case score >= LowConfidenceFloor:
		return models.ConfidenceLow
	default:
		return models.ConfidenceUnresolved
	}
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
