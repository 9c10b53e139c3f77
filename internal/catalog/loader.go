package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/dayscore/internal/ir"
)

//go:embed schema.cue
var schemaSource string

// Document is a complete catalog: every habit definition plus the scoring
// config. It is the unit that `config load` imports.
type Document struct {
	Habits []ir.HabitDefinition `json:"habits" yaml:"habits"`
	Config ir.ScoringConfig     `json:"config" yaml:"config"`
}

// Default returns the built-in catalog and config.
func Default() *Document {
	return &Document{Habits: DefaultHabits(), Config: DefaultConfig()}
}

// Error codes reported by LoadError.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Path not found
	ErrCodeLoadFailed  = "E003" // CUE load failed
	ErrCodeSchema      = "E004" // Document does not match the schema
	ErrCodeInvalid     = "E005" // Cross-habit or config rule broken
	ErrCodeBadFormat   = "E006" // Unsupported file extension
	ErrCodeDecodeField = "E007" // YAML decode error
)

// LoadError represents an error that occurred while loading a catalog.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads a catalog from a .cue file, a directory of .cue files, or a
// .yaml/.yml file, and validates it.
func Load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog: %v", err)}
	}

	if info.IsDir() {
		return LoadCUE(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return LoadCUE(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	}
	return nil, &LoadError{Code: ErrCodeBadFormat, Message: fmt.Sprintf("unsupported catalog format %q (want .cue, .yaml or .yml)", filepath.Ext(path))}
}

// LoadCUE loads a CUE catalog from a file or a directory.
func LoadCUE(path string) (*Document, error) {
	ctx := cuecontext.New()

	cfg := &load.Config{Dir: path}
	args := []string{"."}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		cfg.Dir = filepath.Dir(path)
		args = []string{"./" + filepath.Base(path)}
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	return decodeCUE(ctx, value)
}

// ParseCUE compiles an in-memory CUE catalog. filename is used in positions.
func ParseCUE(filename string, src []byte) (*Document, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(src, cue.Filename(filename))
	return decodeCUE(ctx, value)
}

func decodeCUE(ctx *cue.Context, value cue.Value) (*Document, error) {
	if err := value.Err(); err != nil {
		return nil, schemaError(err)
	}

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("compiling catalog schema: %v", err)}
	}

	unified := schema.LookupPath(cue.ParsePath("#Catalog")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, schemaError(err)
	}

	var doc Document
	if err := unified.Decode(&doc); err != nil {
		return nil, schemaError(err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// schemaError extracts position info from CUE errors.
func schemaError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: ErrCodeSchema, Message: err.Error()}
	}

	first := errs[0]
	le := &LoadError{Code: ErrCodeSchema, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// Validate applies the rules the schema cannot express: unique names, at
// most one active tiered vice, at least one active good habit, exactly one
// zero-valued option per dropdown, and config tier ordering.
func (d *Document) Validate() error {
	errs := ir.ValidateCatalog(d.Habits)
	errs = append(errs, d.Config.Validate()...)
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return &LoadError{Code: ErrCodeInvalid, Message: strings.Join(msgs, "; ")}
}
