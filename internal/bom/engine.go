package bom

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/order"
	"sink-bom-backend/internal/resolve"
	"sink-bom-backend/internal/validate"
)

// ErrNoCatalog is returned when no snapshot has been installed yet.
var ErrNoCatalog = errors.New("catalog not loaded")

// ErrUnknownBuild is returned when a build number is not part of the order.
var ErrUnknownBuild = errors.New("unknown build number")

// Resolution outcomes reported to the Recorder.
const (
	OutcomeOK      = "ok"
	OutcomeFaulted = "faulted"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// InvalidConfigurationError carries the validation result of a rejected configuration.
type InvalidConfigurationError struct {
	Validation validate.Result
}

func (e *InvalidConfigurationError) Error() string {
	if len(e.Validation.Errors) == 1 {
		return "invalid configuration: " + e.Validation.Errors[0].Message
	}
	return fmt.Sprintf("invalid configuration: %d errors", len(e.Validation.Errors))
}

// Result is the BOM of one build.
type Result struct {
	BuildNumber    string          `json:"buildNumber"`
	Hierarchical   []Node          `json:"hierarchical"`
	Flattened      []FlatItem      `json:"flattened"`
	TotalItems     int             `json:"totalItems"`
	TopLevelItems  int             `json:"topLevelItems"`
	CategoryCounts map[string]int  `json:"categoryCounts"`
	ByCategory     []CategoryGroup `json:"byCategory"`
	Aggregated     []AggregateLine `json:"aggregated"`
	Summary        Summary         `json:"summary"`
	Facts          resolve.Facts   `json:"facts"`
	Warnings       []Warning       `json:"warnings"`
	Faults         []Fault         `json:"faults"`
}

// OrderResult is the outcome of resolving a whole order, one Result per build number.
type OrderResult struct {
	ResolutionID   string          `json:"resolutionId"`
	CatalogVersion string          `json:"catalogVersion"`
	Validation     validate.Result `json:"validation"`
	Builds         []Result        `json:"builds"`
}

// BuildFacts pairs a build number with its QC facts.
type BuildFacts struct {
	BuildNumber string        `json:"buildNumber"`
	Facts       resolve.Facts `json:"facts"`
}

// Recorder receives resolution telemetry.
type Recorder interface {
	ObserveResolution(outcome string, elapsed time.Duration)
	IncWarning(code string)
	IncFault(code string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveResolution(string, time.Duration) {}
func (nopRecorder) IncWarning(string)                       {}
func (nopRecorder) IncFault(string)                         {}

// Engine runs validation, resolution, expansion, flattening and classification against
// the current catalog snapshot.
type Engine struct {
	holder     *catalog.Holder
	classifier *Classifier
	maxDepth   int
	logger     *zap.Logger
	recorder   Recorder
}

// NewEngine creates an engine. A nil classifier uses the default policy; a nil recorder
// discards telemetry.
func NewEngine(holder *catalog.Holder, classifier *Classifier, maxDepth int, logger *zap.Logger, recorder Recorder) *Engine {
	if classifier == nil {
		classifier = NewClassifier(DefaultClassifierOptions())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Engine{holder: holder, classifier: classifier, maxDepth: maxDepth, logger: logger, recorder: recorder}
}

// Validate checks cfg against the current catalog.
func (e *Engine) Validate(cfg *order.Configuration) (validate.Result, error) {
	snap := e.holder.Current()
	if snap == nil {
		return validate.Result{}, ErrNoCatalog
	}
	return validate.Validate(snap, cfg), nil
}

// Resolve produces the BOM of every build in the order.
func (e *Engine) Resolve(cfg *order.Configuration) (*OrderResult, error) {
	return e.run(cfg, "")
}

// ResolveBuild produces the BOM of a single build. The whole order is still validated.
func (e *Engine) ResolveBuild(cfg *order.Configuration, buildNumber string) (*OrderResult, error) {
	return e.run(cfg, buildNumber)
}

// Facts derives the QC facts of every build without expanding any BOM tree.
func (e *Engine) Facts(cfg *order.Configuration) ([]BuildFacts, error) {
	snap := e.holder.Current()
	if snap == nil {
		return nil, ErrNoCatalog
	}
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	reqs, err := resolve.Resolve(cfg)
	if err != nil {
		return nil, err
	}
	out := make([]BuildFacts, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, BuildFacts{BuildNumber: req.BuildNumber, Facts: resolve.DeriveFacts(req, snap)})
	}
	return out, nil
}

func (e *Engine) run(cfg *order.Configuration, only string) (*OrderResult, error) {
	start := time.Now()
	snap := e.holder.Current()
	if snap == nil {
		e.recorder.ObserveResolution(OutcomeError, time.Since(start))
		return nil, ErrNoCatalog
	}

	id := uuid.NewString()
	log := e.logger.With(zap.String("resolution_id", id), zap.String("catalog_version", snap.Version()))

	v := validate.Validate(snap, cfg)
	if !v.IsValid {
		e.recorder.ObserveResolution(OutcomeInvalid, time.Since(start))
		log.Info("configuration rejected", zap.Int("errors", len(v.Errors)))
		return nil, &InvalidConfigurationError{Validation: v}
	}

	var reqs []resolve.BuildRequest
	if only != "" {
		if !contains(cfg.SinkSelection.BuildNumbers, only) {
			e.recorder.ObserveResolution(OutcomeError, time.Since(start))
			return nil, fmt.Errorf("build %q: %w", only, ErrUnknownBuild)
		}
		req, err := resolve.ResolveBuild(cfg, only)
		if err != nil {
			e.recorder.ObserveResolution(OutcomeError, time.Since(start))
			return nil, err
		}
		reqs = []resolve.BuildRequest{req}
	} else {
		var err error
		reqs, err = resolve.Resolve(cfg)
		if err != nil {
			e.recorder.ObserveResolution(OutcomeError, time.Since(start))
			return nil, err
		}
	}

	builder := NewBuilder(snap, e.maxDepth)
	out := &OrderResult{ResolutionID: id, CatalogVersion: snap.Version(), Validation: v, Builds: make([]Result, 0, len(reqs))}
	outcome := OutcomeOK
	for _, req := range reqs {
		res := e.buildResult(builder, snap, req)
		if len(res.Faults) > 0 {
			outcome = OutcomeFaulted
			log.Warn("structural faults in build", zap.String("build", req.BuildNumber), zap.Int("faults", len(res.Faults)))
		}
		out.Builds = append(out.Builds, res)
	}

	elapsed := time.Since(start)
	e.recorder.ObserveResolution(outcome, elapsed)
	log.Info("order resolved", zap.Int("builds", len(out.Builds)), zap.Duration("elapsed", elapsed))
	return out, nil
}

func (e *Engine) buildResult(builder *Builder, basins resolve.BasinCatalog, req resolve.BuildRequest) Result {
	tree := builder.Build(req.Items)
	flat := e.classifier.Annotate(Flatten(tree.Nodes))

	for _, w := range tree.Warnings {
		e.recorder.IncWarning(string(w.Code))
	}
	for _, f := range tree.Faults {
		e.recorder.IncFault(string(f.Code))
	}

	return Result{
		BuildNumber:    req.BuildNumber,
		Hierarchical:   tree.Nodes,
		Flattened:      flat,
		TotalItems:     len(flat),
		TopLevelItems:  TopLevel(flat),
		CategoryCounts: CategoryCounts(flat),
		ByCategory:     GroupByCategory(flat),
		Aggregated:     Aggregate(flat),
		Summary:        Summarize(flat),
		Facts:          resolve.DeriveFacts(req, basins),
		Warnings:       tree.Warnings,
		Faults:         tree.Faults,
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
