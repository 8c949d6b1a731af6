package scoring

import (
	"sort"
	"strings"
)

// Weights and bounds for the combined score.
const (
	skillWeight   = 0.5
	qualityWeight = 0.5

	// neutralScore is used when an input is absent: no required skills,
	// or an unscored CV.
	neutralScore = 0.5

	// matchBonus is the multiplicative bonus applied per matched skill.
	matchBonus = 0.05

	// acceptanceThreshold drops weak candidates, unless doing so would
	// leave fewer than the requested minimum.
	acceptanceThreshold = 0.2
)

// ScoredCandidate carries a snapshot with its component and combined
// scores, for ranking and for building explanations.
type ScoredCandidate struct {
	Snapshot      CandidateSnapshot
	SkillScore    float64
	QualityScore  float64
	Combined      float64
	MatchedSkills []string
}

// SelectShortlist scores every candidate in the pool against the required
// skills and returns an ordered subset, between minCandidates and
// maxCandidates long (or the full pool when it is smaller than
// minCandidates). It is a pure function: absent inputs degrade to neutral
// scores, and it never fails.
func SelectShortlist(pool []CandidateSnapshot, requiredSkills []string, minCandidates, maxCandidates int) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(pool))
	for _, snap := range pool {
		scored = append(scored, score(snap, requiredSkills))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Combined > scored[j].Combined
	})

	if len(scored) <= minCandidates {
		return scored
	}

	accepted := scored[:0:0]
	for _, c := range scored {
		if c.Combined >= acceptanceThreshold {
			accepted = append(accepted, c)
		}
	}
	// Graceful widening: skip the threshold when it would starve the
	// shortlist below the minimum.
	if len(accepted) < minCandidates {
		accepted = scored
	}

	if len(accepted) > maxCandidates {
		accepted = accepted[:maxCandidates]
	}
	return accepted
}

func score(snap CandidateSnapshot, requiredSkills []string) ScoredCandidate {
	skillScore, matched := skillMatchScore(snap.Skills, requiredSkills)
	qualityScore := qualityScoreOf(snap)

	return ScoredCandidate{
		Snapshot:      snap,
		SkillScore:    skillScore,
		QualityScore:  qualityScore,
		Combined:      clamp01(skillWeight*skillScore + qualityWeight*qualityScore),
		MatchedSkills: matched,
	}
}

// skillMatchScore computes |intersection| / |required| with a 5% bonus per
// matched skill, uppercase-normalized and clamped to [0,1]. With no
// required skills every candidate scores neutral.
func skillMatchScore(candidateSkills, requiredSkills []string) (float64, []string) {
	if len(requiredSkills) == 0 {
		return neutralScore, nil
	}

	have := make(map[string]struct{}, len(candidateSkills))
	for _, s := range candidateSkills {
		have[strings.ToUpper(strings.TrimSpace(s))] = struct{}{}
	}

	required := make(map[string]struct{}, len(requiredSkills))
	matched := make([]string, 0, len(requiredSkills))
	for _, s := range requiredSkills {
		normalized := strings.ToUpper(strings.TrimSpace(s))
		if _, dup := required[normalized]; dup {
			continue
		}
		required[normalized] = struct{}{}
		if _, ok := have[normalized]; ok {
			matched = append(matched, normalized)
		}
	}

	base := float64(len(matched)) / float64(len(required))
	bonus := 1.0 + matchBonus*float64(len(matched))
	return clamp01(base * bonus), matched
}

func qualityScoreOf(snap CandidateSnapshot) float64 {
	if snap.Quality == nil {
		return neutralScore
	}
	return clamp01(float64(*snap.Quality) / 100.0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
