// Package aspforge is the public face of the dataset synthesizer. It
// re-exports the types and constructors that programs embedding aspforge
// need, so they do not have to reach into internal packages.
//
// Typical use:
//
//	f, err := aspforge.New(ctx, src, aspforge.NewBuiltinSolver())
//	if err != nil { ... }
//	if err := f.RunInference(ctx); err != nil { ... }
//	res, err := f.Generate(aspforge.DefaultParams())
package aspforge

import (
	"aspforge/internal/asp"
	"aspforge/internal/forge"
	"aspforge/internal/solver"
)

// Re-export the orchestration types
type Forge = forge.Forge
type Option = forge.Option
type GenerationParams = forge.GenerationParams
type Result = forge.Result
type Template = forge.Template
type Distribution = forge.Distribution
type Interval = forge.Interval
type Dataset = forge.Dataset
type Table = forge.Table

var New = forge.New
var DefaultParams = forge.DefaultParams
var WithRand = forge.WithRand
var WithReport = forge.WithReport
var NewRand = forge.NewRand

// Building blocks, for callers that want to run the steps themselves
var ExtractVocabulary = forge.ExtractVocabulary
var ForgeSource = forge.ForgeSource
var BuildDistribution = forge.BuildDistribution
var SelectHidden = forge.SelectHidden
var Synthesize = forge.Synthesize

// Errors
var (
	ErrNoTemplates   = forge.ErrNoTemplates
	ErrInvalidParams = forge.ErrInvalidParams
	ErrNotReady      = forge.ErrNotReady
	ErrSyntax        = solver.ErrSyntax
)

type SyntaxError = solver.SyntaxError

// Solvers
type Solver = solver.Solver
type Model = solver.Model
type Grounding = solver.Grounding
type Builtin = solver.Builtin
type Clingo = solver.Clingo

var NewBuiltinSolver = solver.NewBuiltin
var NewClingoSolver = solver.NewClingo
var Capture = solver.Capture

// Program syntax
type Program = asp.Program

var ParseProgram = asp.Parse
var FromMangle = asp.FromMangle

// Output file names
const (
	CompleteFile = forge.CompleteFile
	PartialFile  = forge.PartialFile
)
