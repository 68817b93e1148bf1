// Package runner orchestrates the evaluators over one itinerary version
// and assembles the persisted evaluation report.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripcheck/internal/evals"
	"tripcheck/internal/evidence"
	"tripcheck/internal/itinerary"
	"tripcheck/internal/scope"
)

// Report is the aggregate verdict for one itinerary version. Reports are
// append-only: a re-evaluation produces a new report, never mutates an
// old one.
type Report struct {
	ID          string         `json:"id"`
	VersionID   string         `json:"itinerary_version_id"`
	CreatedAt   time.Time      `json:"timestamp"`
	Overall     evals.Status   `json:"overall_status"`
	Feasibility evals.Verdict  `json:"feasibility_verdict"`
	EditScope   *evals.Verdict `json:"edit_scope_verdict,omitempty"`
	Grounding   evals.Verdict  `json:"grounding_verdict"`
	ElapsedMS   int64          `json:"elapsed_ms"`
}

// EvidenceProvider retrieves the evidence set on demand. The caller
// bounds retrieval through the context; a timeout or error turns the
// grounding verdict uncertain instead of failing the evaluation.
type EvidenceProvider interface {
	Retrieve(ctx context.Context) (evidence.Set, error)
}

// Store persists reports. Save errors are logged and never block the
// caller's report.
type Store interface {
	Save(Report) error
}

// Request carries one itinerary version and its supporting context.
type Request struct {
	Itinerary   itinerary.Itinerary
	Previous    *itinerary.Itinerary
	Instruction string
	Evidence    evidence.Set
	Provider    EvidenceProvider
}

// Options configure a Runner. Zero-value fields take defaults.
type Options struct {
	Config     evals.Config
	Inferencer scope.Inferencer
	Scorer     evidence.Scorer
	Store      Store
	Logger     *zap.Logger
}

// Runner runs the applicable evaluators and aggregates their verdicts.
type Runner struct {
	cfg        evals.Config
	inferencer scope.Inferencer
	scorer     evidence.Scorer
	store      Store
	logger     *zap.Logger

	// persisting lets tests wait for the fire-and-forget save.
	persisting sync.WaitGroup
}

// New builds a Runner, filling unset options with defaults.
func New(opts Options) *Runner {
	r := &Runner{
		cfg:        opts.Config,
		inferencer: opts.Inferencer,
		scorer:     opts.Scorer,
		store:      opts.Store,
		logger:     opts.Logger,
	}
	if r.cfg == (evals.Config{}) {
		r.cfg = evals.DefaultConfig()
	}
	if r.inferencer == nil {
		r.inferencer = scope.Heuristic{}
	}
	if r.scorer == nil {
		r.scorer = evidence.RatioScorer{}
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Evaluate runs feasibility and grounding always, and edit-scope when a
// previous version exists. The evaluators run in parallel and are all
// awaited before aggregation: a feasibility failure never suppresses the
// grounding result.
func (r *Runner) Evaluate(ctx context.Context, req Request) Report {
	start := time.Now()

	ev := req.Evidence
	var retrievalErr error
	if req.Provider != nil {
		ev, retrievalErr = req.Provider.Retrieve(ctx)
		if retrievalErr != nil {
			r.logger.Warn("evidence retrieval failed",
				zap.String("version", req.Itinerary.VersionID),
				zap.Error(retrievalErr))
		}
	}

	var (
		wg          sync.WaitGroup
		feasibility evals.Verdict
		grounding   evals.Verdict
		editScope   *evals.Verdict
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		feasibility = safeVerdict("feasibility", func() evals.Verdict {
			return evals.Feasibility(req.Itinerary, r.cfg)
		})
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if retrievalErr != nil {
			grounding = evals.Verdict{
				Evaluator: "grounding",
				Status:    evals.StatusUncertain,
				Violations: []evals.Violation{{
					Kind:    evals.KindEvidenceGap,
					Message: fmt.Sprintf("evidence retrieval failed: %v", retrievalErr),
				}},
			}
			return
		}
		grounding = safeVerdict("grounding", func() evals.Verdict {
			return evals.Grounding(req.Itinerary, ev, r.scorer, r.cfg)
		})
	}()

	if req.Previous != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := safeVerdict("edit_scope", func() evals.Verdict {
				return evals.EditScope(ctx, *req.Previous, req.Itinerary, req.Instruction, r.inferencer, r.scorer, r.cfg)
			})
			editScope = &v
		}()
	}

	wg.Wait()

	report := Report{
		ID:          uuid.NewString(),
		VersionID:   versionID(req.Itinerary),
		CreatedAt:   time.Now().UTC(),
		Overall:     evals.Aggregate(&feasibility, editScope, &grounding),
		Feasibility: feasibility,
		EditScope:   editScope,
		Grounding:   grounding,
		ElapsedMS:   time.Since(start).Milliseconds(),
	}

	r.logger.Info("itinerary evaluated",
		zap.String("version", report.VersionID),
		zap.String("overall", string(report.Overall)),
		zap.Int64("elapsed_ms", report.ElapsedMS))

	if r.store != nil {
		r.persisting.Add(1)
		go func() {
			defer r.persisting.Done()
			if err := r.store.Save(report); err != nil {
				r.logger.Warn("persist evaluation report",
					zap.String("version", report.VersionID),
					zap.Error(err))
			}
		}()
	}

	return report
}

// Flush waits for outstanding report writes; call before shutdown.
func (r *Runner) Flush() {
	r.persisting.Wait()
}

// safeVerdict converts an evaluator panic into an uncertain verdict so
// no fault propagates to the caller.
func safeVerdict(name string, fn func() evals.Verdict) (v evals.Verdict) {
	defer func() {
		if rec := recover(); rec != nil {
			v = evals.Verdict{
				Evaluator: name,
				Status:    evals.StatusUncertain,
				Violations: []evals.Violation{{
					Kind:    evals.KindInsufficientData,
					Message: fmt.Sprintf("%s evaluator aborted: %v", name, rec),
				}},
			}
		}
	}()
	return fn()
}

func versionID(it itinerary.Itinerary) string {
	if it.VersionID != "" {
		return it.VersionID
	}
	return "unversioned"
}
