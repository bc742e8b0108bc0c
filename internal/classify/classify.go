// Package classify turns ranked profile candidates into enriched
// contacts, using a language model when one is available and a
// deterministic fallback when it is not.
package classify

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/connectsphere/connect-cli/internal/model"
)

// fallbackTip is the outreach advice used when no model verdict exists.
const fallbackTip = "Mention your mutual connection and be specific about your ask."

const fallbackResponseRate = 6

// verdict is one element of the model's JSON array answer.
type verdict struct {
	Name           string `json:"name"`
	ConnectionType string `json:"connectionType"`
	Department     string `json:"department"`
	Seniority      string `json:"seniority"`
	ResponseRate   int    `json:"responseRate"`
	OutreachTip    string `json:"outreachTip"`
}

// Classifier enriches candidates in one batched completion call.
type Classifier struct {
	completer Completer
}

// New creates a classifier. A nil completer means every contact gets
// the deterministic fallback.
func New(completer Completer) *Classifier {
	return &Classifier{completer: completer}
}

// Classify enriches every candidate. It never fails: a model error or
// an unparseable answer degrades to the fallback for the affected
// contacts, and the output always has one entry per input in the same
// order.
func (c *Classifier) Classify(ctx context.Context, params model.RunParams, candidates []model.ProfileCandidate) []model.EnrichedContact {
	if len(candidates) == 0 {
		return nil
	}

	verdicts := c.modelVerdicts(ctx, params, candidates)

	out := make([]model.EnrichedContact, len(candidates))
	for i, cand := range candidates {
		if v, ok := verdicts[normalizeName(cand.Name)]; ok {
			out[i] = applyVerdict(cand, v)
		} else {
			out[i] = Fallback(cand)
		}
	}
	return out
}

// modelVerdicts asks the completer for the whole batch and indexes the
// parseable answers by normalized name.
func (c *Classifier) modelVerdicts(ctx context.Context, params model.RunParams, candidates []model.ProfileCandidate) map[string]verdict {
	if c.completer == nil {
		return nil
	}

	answer, err := c.completer.Complete(ctx, systemPrompt, buildUserPrompt(params, candidates))
	if err != nil {
		zap.L().Warn("classification call failed, using fallback", zap.Error(err))
		return nil
	}

	var verdicts []verdict
	if err := json.Unmarshal([]byte(stripFences(answer)), &verdicts); err != nil {
		zap.L().Warn("classification answer unparseable, using fallback",
			zap.Error(err),
			zap.Int("answer_len", len(answer)),
		)
		return nil
	}

	byName := make(map[string]verdict, len(verdicts))
	for _, v := range verdicts {
		byName[normalizeName(v.Name)] = v
	}
	return byName
}

// Fallback derives an enrichment from what the pipeline already knows
// about the candidate, without any model involvement.
func Fallback(cand model.ProfileCandidate) model.EnrichedContact {
	return model.EnrichedContact{
		ProfileCandidate: cand,
		ConnectionType:   fallbackConnectionType(cand),
		Department:       "Unknown",
		Seniority:        model.SeniorityMid,
		ResponseRate:     fallbackResponseRate,
		OutreachTip:      fallbackTip,
	}
}

func fallbackConnectionType(cand model.ProfileCandidate) model.ConnectionType {
	reason := strings.ToLower(cand.PriorityReason)
	switch {
	case strings.Contains(reason, "alumni"):
		return model.SchoolAlumni
	case strings.Contains(reason, "colleague"):
		return model.WorkAlumni
	default:
		return model.IndustryContact
	}
}

func applyVerdict(cand model.ProfileCandidate, v verdict) model.EnrichedContact {
	out := model.EnrichedContact{
		ProfileCandidate: cand,
		ConnectionType:   parseConnectionType(v.ConnectionType, cand),
		Department:       v.Department,
		Seniority:        model.ParseSeniority(v.Seniority),
		ResponseRate:     clampResponseRate(v.ResponseRate),
		OutreachTip:      v.OutreachTip,
	}
	if out.Department == "" {
		out.Department = "Unknown"
	}
	if out.OutreachTip == "" {
		out.OutreachTip = fallbackTip
	}
	return out
}

func parseConnectionType(s string, cand model.ProfileCandidate) model.ConnectionType {
	switch model.ConnectionType(strings.TrimSpace(s)) {
	case model.SchoolAlumni:
		return model.SchoolAlumni
	case model.WorkAlumni:
		return model.WorkAlumni
	case model.IndustryContact:
		return model.IndustryContact
	case model.DirectContact:
		return model.DirectContact
	default:
		return fallbackConnectionType(cand)
	}
}

func clampResponseRate(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// stripFences removes a surrounding markdown code fence if the model
// added one despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
