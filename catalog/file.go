package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/mensura/core"
)

// CurrentVersion is the catalog document version written by Encode.
const CurrentVersion = 1

// Sentinel errors for catalog documents.
var (
	// ErrDecode indicates malformed YAML or unknown fields.
	ErrDecode = errors.New("catalog: cannot decode document")

	// ErrInvalid indicates a document that decodes but fails validation.
	ErrInvalid = errors.New("catalog: invalid document")
)

// File is the on-disk catalog document.
//
//	version: 1
//	rules:
//	  - {src: meter, dest: kilometer, factor: 0.001}
type File struct {
	Version int        `yaml:"version" validate:"required,eq=1"`
	Rules   []RuleSpec `yaml:"rules" validate:"required,min=1,dive"`
}

// RuleSpec is one rule as written in a catalog document.
type RuleSpec struct {
	Src    string  `yaml:"src" validate:"required"`
	Dest   string  `yaml:"dest" validate:"required"`
	Factor float64 `yaml:"factor" validate:"gt=0"`
}

// Rule converts the document entry to a core.Rule.
func (s RuleSpec) Rule() core.Rule {
	return core.Rule{Src: s.Src, Dest: s.Dest, Factor: s.Factor}
}

// documentValidate is shared; validator caches struct metadata internally.
var documentValidate = validator.New()

// Decode reads a catalog document from r and returns its rules in order.
//
// Unknown fields are rejected. Every rule must name both units and carry a
// finite factor greater than zero.
func Decode(r io.Reader) ([]core.Rule, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc File
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrDecode)
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if err := documentValidate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	rules := make([]core.Rule, 0, len(doc.Rules))
	for i, rs := range doc.Rules {
		rule := rs.Rule()
		// Catches +Inf, which passes gt=0.
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("%w: rule %d: %v", ErrInvalid, i, err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// Load reads and decodes the catalog file at path.
func Load(path string) ([]core.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	rules, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rules, nil
}

// Encode writes rules to w as a catalog document.
func Encode(w io.Writer, rules []core.Rule) error {
	doc := File{Version: CurrentVersion, Rules: make([]RuleSpec, 0, len(rules))}
	for _, r := range rules {
		doc.Rules = append(doc.Rules, RuleSpec{Src: r.Src, Dest: r.Dest, Factor: r.Factor})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("catalog: encode: %w", err)
	}

	return enc.Close()
}
