package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/graphbio/meshchem/internal/app/builder/chemicals"
	"github.com/graphbio/meshchem/internal/app/builder/descriptors"
	"github.com/graphbio/meshchem/internal/dataset"
	"github.com/graphbio/meshchem/internal/domain"
)

// State tracks build progress. Built is terminal; a loaded snapshot enters
// it directly without passing through the earlier states.
type State int

const (
	StateUnbuilt State = iota
	StateParsing
	StateResolving
	StateFiltering
	StateEnriching
	StateBuilt
)

func (s State) String() string {
	switch s {
	case StateUnbuilt:
		return "unbuilt"
	case StateParsing:
		return "parsing"
	case StateResolving:
		return "resolving"
	case StateFiltering:
		return "filtering"
	case StateEnriching:
		return "enriching"
	case StateBuilt:
		return "built"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrAlreadyRun marks a second Run on the same pipeline. Build a new one
// per snapshot.
var ErrAlreadyRun = errors.New("pipeline already run")

// Config carries everything one build needs.
type Config struct {
	DescriptorsPath string
	ChemicalsPath   string

	Settings domain.Settings
	Version  domain.Version

	// Lookup enables structure enrichment; nil skips the phase entirely.
	Lookup       StructureLookup
	Workers      int
	Retries      int
	RetryBackoff time.Duration
}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Entities int
	Edges    int
	Dropped  int
	Duration time.Duration
	Err      error
}

// Pipeline drives one build: parse both dumps, resolve the hierarchy and
// the chemical mappings, filter to the requested subtrees, enrich, and
// assemble the final snapshot. Intermediate state is never observable; the
// only outputs are the Dataset and the per-phase results.
type Pipeline struct {
	log     *slog.Logger
	cfg     Config
	state   State
	results map[string]PhaseResult
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, cfg Config) *Pipeline {
	return &Pipeline{
		log:     log,
		cfg:     cfg,
		results: make(map[string]PhaseResult),
	}
}

// State returns the current build state.
func (p *Pipeline) State() State { return p.state }

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult { return p.results }

// Run executes the build and returns the assembled snapshot. Parse- and
// resolution-level problems are absorbed into drop counts; only I/O
// failures and invalid final structure abort the build.
func (p *Pipeline) Run(ctx context.Context) (*dataset.Dataset, error) {
	if p.state != StateUnbuilt {
		return nil, ErrAlreadyRun
	}

	// Parsing.
	p.enter(StateParsing)
	var (
		descriptorSet []domain.Descriptor
		chemicalSet   []domain.Chemical
	)
	err := p.phase("parse", func() (PhaseResult, error) {
		var dStats descriptors.Stats
		var cStats chemicals.Stats
		var err error

		descriptorSet, dStats, err = descriptors.Parse(p.cfg.DescriptorsPath)
		if err != nil {
			return PhaseResult{}, err
		}
		chemicalSet, cStats, err = chemicals.Parse(p.cfg.ChemicalsPath)
		if err != nil {
			return PhaseResult{}, err
		}
		return PhaseResult{
			Entities: len(descriptorSet) + len(chemicalSet),
			Dropped:  dStats.Malformed + dStats.Nameless + cStats.Malformed + cStats.Nameless,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse dumps: %w", err)
	}

	// Resolving. Both resolvers need the complete entity universe, so they
	// run only after parsing finished.
	p.enter(StateResolving)
	var dagEdges, chemicalEdges []domain.Edge
	err = p.phase("resolve", func() (PhaseResult, error) {
		var hStats HierarchyStats
		var mStats MappingStats
		dagEdges, hStats = BuildHierarchy(descriptorSet)
		chemicalEdges, mStats = ResolveMappings(chemicalSet, descriptorSet)
		return PhaseResult{
			Edges:   hStats.Edges + mStats.Edges,
			Dropped: hStats.Unresolved + hStats.Conflicts + mStats.Unresolved,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolve references: %w", err)
	}

	meta := dataset.NewMetadata(p.cfg.Settings, p.cfg.Version)
	full, err := dataset.New(descriptorSet, chemicalSet, chemicalEdges, dagEdges, meta)
	if err != nil {
		return nil, fmt.Errorf("assemble snapshot: %w", err)
	}

	// Filtering.
	p.enter(StateFiltering)
	var scoped *dataset.Dataset
	err = p.phase("filter", func() (PhaseResult, error) {
		var err error
		scoped, err = full.Filter(p.cfg.Settings)
		if err != nil {
			return PhaseResult{}, err
		}
		counts := scoped.Metadata().Counts
		return PhaseResult{
			Entities: counts.Descriptors + counts.Chemicals,
			Edges:    counts.ChemicalEdges + counts.DAGEdges,
			Dropped:  len(descriptorSet) + len(chemicalSet) - counts.Descriptors - counts.Chemicals,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("filter snapshot: %w", err)
	}

	// Enriching. Best-effort: cancellation mid-phase yields a
	// structure-poor but topologically complete snapshot.
	if p.enrichmentEnabled() {
		p.enter(StateEnriching)
		scoped, err = p.runEnrichment(ctx, scoped)
		if err != nil {
			return nil, fmt.Errorf("enrich snapshot: %w", err)
		}
	}

	p.enter(StateBuilt)
	p.log.Info("build completed",
		slog.Int("descriptors", scoped.Metadata().Counts.Descriptors),
		slog.Int("chemicals", scoped.Metadata().Counts.Chemicals),
		slog.Int("hierarchy_edges", scoped.Metadata().Counts.DAGEdges),
		slog.Int("mapping_edges", scoped.Metadata().Counts.ChemicalEdges),
	)
	return scoped, nil
}

func (p *Pipeline) enrichmentEnabled() bool {
	if p.cfg.Lookup == nil {
		return false
	}
	return p.cfg.Settings.IncludeSMILES || p.cfg.Settings.IncludeInChI
}

// runEnrichment looks up structures for the scoped entities and rebuilds
// the snapshot with the merged results.
func (p *Pipeline) runEnrichment(ctx context.Context, scoped *dataset.Dataset) (*dataset.Dataset, error) {
	descriptorSet := scoped.Descriptors()
	chemicalSet := scoped.Chemicals()

	var enriched *dataset.Dataset
	err := p.phase("enrich", func() (PhaseResult, error) {
		e := NewEnricher(p.cfg.Lookup, p.cfg.Workers, p.cfg.Retries, p.cfg.RetryBackoff)

		dStats, err := e.EnrichDescriptors(ctx, descriptorSet)
		aborted := err != nil && errors.Is(err, ctx.Err())
		var cStats EnrichStats
		if !aborted {
			cStats, err = e.EnrichChemicals(ctx, chemicalSet)
			aborted = err != nil && errors.Is(err, ctx.Err())
		}
		if err != nil && !aborted {
			return PhaseResult{}, err
		}
		if aborted {
			p.log.Warn("enrichment aborted, snapshot keeps partial structure data",
				slog.String("error", err.Error()))
		}

		applyStructureFlags(descriptorSet, chemicalSet, p.cfg.Settings)

		enriched, err = dataset.New(descriptorSet, chemicalSet,
			scoped.ChemicalEdges(), scoped.DAGEdges(), scoped.Metadata())
		if err != nil {
			return PhaseResult{}, err
		}
		return PhaseResult{
			Entities: int(dStats.Enriched + cStats.Enriched),
			Dropped:  int(dStats.Failed + dStats.Missing + cStats.Failed + cStats.Missing),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return enriched, nil
}

// applyStructureFlags clears the structure facets the settings exclude.
// Compound and substance identifiers always survive, they are keys, not
// structure data.
func applyStructureFlags(descriptorSet []domain.Descriptor, chemicalSet []domain.Chemical, s domain.Settings) {
	for i := range descriptorSet {
		trimStructure(&descriptorSet[i].Structure, s)
	}
	for i := range chemicalSet {
		trimStructure(&chemicalSet[i].Structure, s)
	}
}

func trimStructure(st *domain.Structure, s domain.Settings) {
	if !s.IncludeSMILES {
		st.SMILES = nil
	}
	if !s.IncludeInChI {
		st.InChI = nil
		st.InChIKey = nil
	}
}

func (p *Pipeline) enter(s State) {
	p.state = s
}

// phase runs fn with timing and start/complete logging.
func (p *Pipeline) phase(name string, fn func() (PhaseResult, error)) error {
	start := time.Now()
	p.log.Info("starting phase", slog.String("phase", name))

	result, err := fn()
	result.Duration = time.Since(start)
	result.Err = err
	p.results[name] = result

	if err != nil {
		p.log.Warn("phase failed",
			slog.String("phase", name),
			slog.String("error", err.Error()),
			slog.Duration("duration", result.Duration),
		)
		return err
	}
	p.log.Info("phase completed",
		slog.String("phase", name),
		slog.Int("entities", result.Entities),
		slog.Int("edges", result.Edges),
		slog.Int("dropped", result.Dropped),
		slog.Duration("duration", result.Duration),
	)
	return nil
}
