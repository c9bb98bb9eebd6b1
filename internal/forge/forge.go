// Package forge turns a logic program into synthetic binary datasets. The
// program's stable models, once every proposition is forced to be decided,
// serve as row templates; rows are drawn from a distribution over them.
package forge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"aspforge/internal/logging"
	"aspforge/internal/solver"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	// ErrNoTemplates is returned when a distribution or dataset is requested
	// but the program has no stable models.
	ErrNoTemplates = errors.New("no templates available")

	// ErrInvalidParams is returned for out-of-range generation parameters.
	ErrInvalidParams = errors.New("invalid generation parameters")

	// ErrNotReady is returned by Generate before RunInference has completed.
	ErrNotReady = errors.New("inference has not run")
)

var paramsValidate *validator.Validate

func init() {
	paramsValidate = validator.New()
}

// GenerationParams controls one dataset generation request.
type GenerationParams struct {
	NRows   int  `yaml:"rows" validate:"gte=0"`
	Uniform bool `yaml:"uniform"`
	NHidden int  `yaml:"hidden" validate:"gte=0"`
}

// DefaultParams returns 100 rows, a uniform distribution and no hidden
// propositions.
func DefaultParams() GenerationParams {
	return GenerationParams{NRows: 100, Uniform: true, NHidden: 0}
}

// Validate checks the parameters against a vocabulary of vocabSize names.
func (p GenerationParams) Validate(vocabSize int) error {
	if err := paramsValidate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if p.NHidden > vocabSize {
		return fmt.Errorf("%w: cannot hide %d of %d propositions", ErrInvalidParams, p.NHidden, vocabSize)
	}
	return nil
}

// Result is the outcome of one generation request.
type Result struct {
	RequestID    string
	Params       GenerationParams
	Distribution Distribution
	Hidden       []string
	Dataset      *Dataset
}

// Option configures a Forge.
type Option func(*Forge)

// WithRand sets the random source for distributions, hidden sets and rows.
func WithRand(rng *rand.Rand) Option {
	return func(f *Forge) { f.rng = rng }
}

// WithReport sends the human-readable report to w.
func WithReport(w io.Writer) Option {
	return func(f *Forge) { f.report = w }
}

// NewRand returns a PCG-backed source. A zero seed is replaced by the
// current time.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Forge holds one program, its forged form and, after inference, its
// templates. It is not safe for concurrent use.
type Forge struct {
	solver solver.Solver
	rng    *rand.Rand
	report io.Writer

	source    string
	forged    string
	vocab     []string
	grounding *solver.Grounding
	templates []Template
	inferred  bool

	diag strings.Builder
}

// New grounds source to find its vocabulary, forges it and grounds the
// forged program. When either grounding fails the error wraps
// solver.ErrSyntax and no Forge is returned.
func New(ctx context.Context, source string, s solver.Solver, opts ...Option) (*Forge, error) {
	f := &Forge{
		solver: s,
		source: source,
		report: io.Discard,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = NewRand(0)
	}

	g, err := s.Ground(ctx, source, &f.diag)
	if err != nil {
		logging.Get(logging.CategorySolver).Error("Grounding failed: %v", err)
		return nil, fmt.Errorf("failed to ground program: %w", err)
	}
	f.vocab = ExtractVocabulary(g.Signatures)
	logging.ForgeDebug("Vocabulary: %d propositions", len(f.vocab))

	f.forged = ForgeSource(f.vocab, source)
	fg, err := s.Ground(ctx, f.forged, &f.diag)
	if err != nil {
		logging.Get(logging.CategorySolver).Error("Grounding forged program failed: %v", err)
		return nil, fmt.Errorf("failed to ground forged program: %w", err)
	}
	if forgedVocab := ExtractVocabulary(fg.Signatures); !slices.Equal(forgedVocab, f.vocab) {
		logging.Get(logging.CategoryForge).Warn("Vocabulary changed by forging: %v -> %v", f.vocab, forgedVocab)
	}
	f.grounding = fg

	return f, nil
}

// RunInference enumerates every stable model of the forged program and keeps
// them as templates, replacing any previous list.
func (f *Forge) RunInference(ctx context.Context) error {
	var templates []Template
	start := time.Now()
	err := f.solver.Solve(ctx, f.grounding, func(m solver.Model) error {
		templates = append(templates, NewTemplate(m))
		return nil
	}, &f.diag)
	if err != nil {
		return fmt.Errorf("failed to enumerate models: %w", err)
	}

	f.templates = templates
	f.inferred = true
	logging.Solver("Enumerated %d models in %v", len(templates), time.Since(start))
	return nil
}

// Generate builds a distribution over the templates, selects the hidden
// propositions and samples the dataset tables. The report receives the
// generation summary.
func (f *Forge) Generate(params GenerationParams) (*Result, error) {
	if !f.inferred {
		return nil, ErrNotReady
	}
	if err := params.Validate(len(f.vocab)); err != nil {
		return nil, err
	}

	res := &Result{RequestID: uuid.New().String(), Params: params}
	log := logging.Get(logging.CategoryDataset).With("request_id", res.RequestID)

	fmt.Fprintln(f.report, banner("FORGE DATASET"))
	fmt.Fprintf(f.report, "n. templates: %d\n", len(f.templates))

	dist, err := BuildDistribution(f.templates, params.Uniform, f.rng)
	if err != nil {
		log.Warn("No distribution: %v", err)
		return nil, err
	}
	res.Distribution = dist
	printDistribution(f.report, dist, params.Uniform)
	logging.ForgeDebug("Template probabilities: %.4f", dist.Probabilities())

	hidden, err := SelectHidden(f.vocab, params.NHidden, f.rng)
	if err != nil {
		return nil, err
	}
	res.Hidden = hidden
	printHidden(f.report, hidden)
	fmt.Fprintf(f.report, "n. objects: %d\n", params.NRows)

	ds, err := Synthesize(f.vocab, dist, params.NRows, hidden, f.rng)
	if err != nil {
		return nil, err
	}
	res.Dataset = ds

	log.Info("Generated %d rows from %d templates (uniform=%t, hidden=%d)",
		params.NRows, len(f.templates), params.Uniform, len(hidden))
	return res, nil
}

// ForgeDataset runs Generate and writes the resulting CSV files into dir. It
// returns the result and the paths written.
func (f *Forge) ForgeDataset(params GenerationParams, dir string) (*Result, []string, error) {
	res, err := f.Generate(params)
	if err != nil {
		return nil, nil, err
	}

	fmt.Fprintln(f.report, closer)
	fmt.Fprintln(f.report, "generate a complete dataset as CSV table...")
	paths, err := res.Dataset.WriteFiles(dir)
	for i, p := range paths {
		if i > 0 {
			fmt.Fprintln(f.report, "generate another dataset with hidden rows as CSV table...")
		}
		fmt.Fprintf(f.report, "%s saved\n", filepath.Base(p))
		if i == 0 {
			fmt.Fprintln(f.report, separator)
		}
	}
	if err != nil {
		logging.Get(logging.CategoryDataset).With("request_id", res.RequestID).Error("Write failed: %v", err)
		return res, paths, err
	}
	fmt.Fprintln(f.report, closer)

	logging.Dataset("Saved %s", strings.Join(paths, ", "))
	return res, paths, nil
}

// Source returns the program text as given.
func (f *Forge) Source() string { return f.source }

// ForgedSource returns the program text with the forging header.
func (f *Forge) ForgedSource() string { return f.forged }

// Vocabulary returns the sorted proposition names.
func (f *Forge) Vocabulary() []string {
	return append([]string(nil), f.vocab...)
}

// Templates returns the models found by the last RunInference.
func (f *Forge) Templates() []Template {
	return append([]Template(nil), f.templates...)
}

// Diagnostics returns everything the solver reported so far.
func (f *Forge) Diagnostics() string { return f.diag.String() }
