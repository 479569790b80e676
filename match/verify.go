package match

import (
	"fmt"

	"nutriplan"
)

// Escalation carries an ambiguous match out to the human-decision queue:
// all candidates ordered by descending confidence with their scores, plus
// the translated name shown alongside the original.
type Escalation struct {
	Suggested  nutriplan.SuggestedFood
	Candidates []nutriplan.ReferenceFood
	Scores     []float64
	Translated string
}

// Outcome is the result of verifying one food: either a final VerifiedFood
// or an escalation, never both.
type Outcome struct {
	Verified   *nutriplan.VerifiedFood
	Escalation *Escalation
}

// Verifier applies the confidence band to ranked candidates. It never
// performs lookups itself; candidates are supplied by the caller, which
// keeps verification pure and unit-testable.
type Verifier struct {
	tuning nutriplan.Tuning
	lang   string
}

func NewVerifier(tuning nutriplan.Tuning, lang string) *Verifier {
	return &Verifier{tuning: tuning, lang: lang}
}

// Verify scores all candidates and auto-accepts, auto-rejects, or
// escalates. Deterministic: the same inputs always produce the same
// outcome.
func (v *Verifier) Verify(suggested nutriplan.SuggestedFood, candidates []nutriplan.ReferenceFood) Outcome {
	if len(candidates) == 0 {
		vf := v.Reject(suggested, 0, "no reference candidates; using model estimate")
		return Outcome{Verified: &vf}
	}

	ranked := Rank(suggested, candidates)
	top := ranked[0]

	switch {
	case top.Score >= v.tuning.AutoAcceptThreshold:
		vf := v.Accept(suggested, top.Food, top.Score)
		return Outcome{Verified: &vf}

	case top.Score < v.tuning.AutoRejectFloor:
		note := fmt.Sprintf("best match %q scored %.2f, below floor; using model estimate",
			top.Food.Description, top.Score)
		vf := v.Reject(suggested, top.Score, note)
		return Outcome{Verified: &vf}

	default:
		esc := &Escalation{
			Suggested:  suggested,
			Candidates: make([]nutriplan.ReferenceFood, 0, len(ranked)),
			Scores:     make([]float64, 0, len(ranked)),
			Translated: TranslateTerm(v.lang, suggested.Name),
		}
		for _, s := range ranked {
			esc.Candidates = append(esc.Candidates, s.Food)
			esc.Scores = append(esc.Scores, s.Score)
		}
		return Outcome{Escalation: esc}
	}
}

// Accept builds a VerifiedFood from a matched record, scaling its per-100g
// nutrition to the suggested portion weight.
func (v *Verifier) Accept(suggested nutriplan.SuggestedFood, ref nutriplan.ReferenceFood, confidence float64) nutriplan.VerifiedFood {
	matched := ref
	return nutriplan.VerifiedFood{
		Suggested:  suggested,
		Matched:    &matched,
		Verified:   ref.Per100g.Scale(suggested.GramWeight / 100),
		Confidence: confidence,
		IsVerified: true,
		Notes:      fmt.Sprintf("matched %q (FDC %d) at %.2f confidence", ref.Description, ref.FDCID, confidence),
	}
}

// Reject builds an unverified VerifiedFood that falls back to the model's
// own estimate.
func (v *Verifier) Reject(suggested nutriplan.SuggestedFood, confidence float64, note string) nutriplan.VerifiedFood {
	return nutriplan.VerifiedFood{
		Suggested:  suggested,
		Verified:   suggested.Estimated,
		Confidence: confidence,
		IsVerified: false,
		Notes:      note,
	}
}
