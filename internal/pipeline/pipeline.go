// Package pipeline orchestrates a discovery run: query plan, search,
// extraction, dedup/rank, classification, and email enrichment, strictly
// in that order.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/connectsphere/connect-cli/internal/classify"
	"github.com/connectsphere/connect-cli/internal/config"
	"github.com/connectsphere/connect-cli/internal/email"
	"github.com/connectsphere/connect-cli/internal/extract"
	"github.com/connectsphere/connect-cli/internal/gateway"
	"github.com/connectsphere/connect-cli/internal/model"
	"github.com/connectsphere/connect-cli/internal/query"
	"github.com/connectsphere/connect-cli/internal/rank"
	"github.com/connectsphere/connect-cli/internal/store"
)

// Result is what a run hands back: the connections, the stats, and the
// narrative log. Partial on failure, never nil fields.
type Result struct {
	RunID       string
	Connections []model.FinalConnection
	Stats       model.RunStats
	Log         []LogEntry
}

// Pipeline wires the discovery stages together.
type Pipeline struct {
	cfg        *config.Config
	gateway    *gateway.Gateway
	classifier *classify.Classifier
	emails     *email.Engine
	store      store.Store
}

// New creates a pipeline. The store may be nil; runs are then not
// recorded.
func New(cfg *config.Config, gw *gateway.Gateway, cl *classify.Classifier, st store.Store) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		gateway:    gw,
		classifier: cl,
		emails:     email.NewEngine(),
		store:      st,
	}
}

// ValidateParams checks run input before any network call. All four
// fields are required; whitespace-only values count as missing.
func ValidateParams(p model.RunParams) error {
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"userName", p.UserName},
		{"targetCompany", p.TargetCompany},
		{"previousCompany", p.PreviousCompany},
		{"school", p.School},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("pipeline: missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Run executes one discovery end to end. Stage failures degrade (fewer
// results) rather than abort; an unexpected panic is recovered and the
// partial results collected so far are returned with the error.
func (p *Pipeline) Run(ctx context.Context, params model.RunParams) (result *Result, err error) {
	if err := ValidateParams(params); err != nil {
		return nil, err
	}

	rc := &RunContext{
		ID:      uuid.New().String(),
		Params:  params,
		Started: time.Now(),
	}
	result = &Result{RunID: rc.ID}

	var runID string
	if p.store != nil {
		if run, storeErr := p.store.CreateRun(ctx, params); storeErr != nil {
			zap.L().Warn("run not recorded", zap.Error(storeErr))
		} else {
			runID = run.ID
			rc.ID = run.ID
			result.RunID = run.ID
			if statusErr := p.store.UpdateRunStatus(ctx, runID, model.RunStatusRunning); statusErr != nil {
				zap.L().Warn("run status not updated", zap.Error(statusErr))
			}
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("pipeline: unexpected failure: %v", r)
			rc.Errorf("Run aborted unexpectedly; keeping partial results")
			result.Log = rc.Entries
			if p.store != nil && runID != "" {
				_ = p.store.FailRun(ctx, runID, err)
			}
		}
	}()

	rc.Infof("Starting discovery for %s", params.TargetCompany)

	// Stage 1: search plan.
	plan := query.Build(query.Params{
		TargetCompany:   params.TargetCompany,
		PreviousCompany: params.PreviousCompany,
		School:          params.School,
		MaxQueries:      p.cfg.Pipeline.MaxQueries,
	})
	result.Stats.QueriesIssued = len(plan)
	rc.Infof("Built %d search queries", len(plan))

	// Stages 2-3: search and extract, one query at a time.
	batches := make([][]model.ProfileCandidate, 0, len(plan))
	for _, q := range plan {
		if ctx.Err() != nil {
			rc.Errorf("Run cancelled after %d queries", len(batches))
			break
		}

		raw := p.gateway.Execute(ctx, q, p.cfg.Search.MaxResults)
		result.Stats.ResultsFetched += len(raw)

		var batch []model.ProfileCandidate
		for _, r := range raw {
			cand, ok := extract.Extract(r, params.TargetCompany)
			if !ok {
				continue
			}
			attribute(&cand, q)
			batch = append(batch, cand)
		}
		if len(batch) > 0 {
			batches = append(batches, batch)
		}
	}

	// Stage 4: dedup and rank.
	ranked := rank.Merge(batches...)
	result.Stats.CandidatesExtracted = len(ranked)
	rc.Successf("Found %d unique candidates", len(ranked))

	if n := p.cfg.Pipeline.MaxContacts; n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}

	// Stage 5: classification.
	enriched := p.classifier.Classify(ctx, params, ranked)
	rc.Infof("Classified %d contacts", len(enriched))

	// Stage 6: email enrichment for the leading contacts.
	result.Connections = p.attachEmails(rc, enriched, params.TargetCompany)
	result.Stats.ContactsReturned = len(result.Connections)

	rc.Successf("Discovery finished with %d connections in %s",
		len(result.Connections), time.Since(rc.Started).Round(time.Millisecond))
	result.Log = rc.Entries

	if p.store != nil && runID != "" {
		saved := &model.RunResult{Connections: result.Connections, Stats: result.Stats}
		if saveErr := p.store.UpdateRunResult(ctx, runID, saved); saveErr != nil {
			zap.L().Warn("run result not saved", zap.Error(saveErr))
		}
	}

	return result, nil
}

// attribute applies the originating query's priority attribution to a
// freshly extracted candidate.
func attribute(cand *model.ProfileCandidate, q model.SearchQuery) {
	switch q.Intent {
	case model.IntentColleague, model.IntentSchool:
		cand.IsPriority = true
		cand.PriorityReason = q.Reason
		cand.PriorityScore = q.Weight
	case model.IntentExecutive:
		cand.NetworkScore = q.Weight
	default:
		cand.QualityScore = q.Weight
	}
}

// attachEmails converts enriched contacts to final connections. Only the
// leading contacts get generated email candidates; the rest pass through
// without them.
func (p *Pipeline) attachEmails(rc *RunContext, contacts []model.EnrichedContact, targetCompany string) []model.FinalConnection {
	out := make([]model.FinalConnection, 0, len(contacts))

	limit := p.cfg.Pipeline.EmailContacts
	for i, c := range contacts {
		fc := model.FinalConnection{EnrichedContact: c}

		if limit <= 0 || i < limit {
			company := c.Company
			if company == "" {
				company = targetCompany
			}
			domain := email.ResolveDomain(company)
			if enr, ok := p.emails.Enrich(c.Name, domain); ok {
				fc.PrimaryEmail = enr.Primary
				fc.AllEmailPatterns = enr.Patterns
				fc.EmailConfidence = enr.Confidence
			} else {
				rc.Errorf("No email patterns for %q", c.Name)
			}
		}
		out = append(out, fc)
	}
	return out
}
