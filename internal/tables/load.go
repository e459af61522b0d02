package tables

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aeroindex/aeroindex/schema"
	"gopkg.in/yaml.v3"
)

// Default file names of the three table documents.
const (
	DefaultScoresFile = "scores.yaml"
	DefaultIFRFile    = "adjusted_ifr.yaml"
	DefaultVFRFile    = "adjusted_vfr.yaml"
)

// Paths names the three table documents on disk.
type Paths struct {
	Scores string
	IFR    string
	VFR    string
}

// DefaultPaths returns the conventional file names relative to the working directory.
func DefaultPaths() Paths {
	return Paths{Scores: DefaultScoresFile, IFR: DefaultIFRFile, VFR: DefaultVFRFile}
}

// LoadYAML reads the three table documents from disk.
// Missing or malformed files yield a *ConfigurationError naming the file.
func LoadYAML(p Paths) (*Store, error) {
	scores, err := readFile(p.Scores)
	if err != nil {
		return nil, err
	}
	ifr, err := readFile(p.IFR)
	if err != nil {
		return nil, err
	}
	vfr, err := readFile(p.VFR)
	if err != nil {
		return nil, err
	}
	return decodeAll(p, scores, ifr, vfr)
}

// DecodeYAML builds a Store from three in-memory YAML documents.
func DecodeYAML(scores, ifr, vfr io.Reader) (*Store, error) {
	p := Paths{Scores: "label scores", IFR: "IFR adjustments", VFR: "VFR adjustments"}
	var docs [3][]byte
	for i, r := range []io.Reader{scores, ifr, vfr} {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, &ConfigurationError{Source: []string{p.Scores, p.IFR, p.VFR}[i], Err: err}
		}
		docs[i] = b
	}
	return decodeAll(p, docs[0], docs[1], docs[2])
}

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Source: path, Err: err}
	}
	return b, nil
}

func decodeAll(p Paths, scores, ifr, vfr []byte) (*Store, error) {
	categories, err := decodeLabelScores(scores)
	if err != nil {
		return nil, &ConfigurationError{Source: p.Scores, Err: err}
	}
	ifrTable, err := decodeAdjustments(ifr)
	if err != nil {
		return nil, &ConfigurationError{Source: p.IFR, Err: err}
	}
	vfrTable, err := decodeAdjustments(vfr)
	if err != nil {
		return nil, &ConfigurationError{Source: p.VFR, Err: err}
	}
	return New(categories, ifrTable, vfrTable), nil
}

// decodeLabelScores walks the document node by node so category and option order survive.
func decodeLabelScores(data []byte) ([]schema.Category, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of categories", root.Line)
	}

	// A repeated key keeps its first position and takes the last value.
	categories := make([]schema.Category, 0, len(root.Content)/2)
	seen := make(map[string]int, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if val.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: category %q must map option labels to scores", val.Line, key.Value)
		}
		cat := schema.Category{Name: schema.CleanCategory(key.Value)}
		labels := make(map[string]int, len(val.Content)/2)
		for j := 0; j+1 < len(val.Content); j += 2 {
			label, score := val.Content[j], val.Content[j+1]
			var n int
			if err := score.Decode(&n); err != nil {
				return nil, fmt.Errorf("line %d: score of %q in %q: %w", score.Line, label.Value, key.Value, err)
			}
			if at, ok := labels[label.Value]; ok {
				cat.Options[at].Score = n
				continue
			}
			labels[label.Value] = len(cat.Options)
			cat.Options = append(cat.Options, schema.Option{Label: label.Value, Score: n})
		}
		if at, ok := seen[cat.Name]; ok {
			categories[at] = cat
			continue
		}
		seen[cat.Name] = len(categories)
		categories = append(categories, cat)
	}
	return categories, nil
}

// adjustmentRecord accepts only the {value, percentage} mapping shape.
type adjustmentRecord struct {
	schema.Adjustment
}

func (r *adjustmentRecord) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: adjustment must be a mapping with value and percentage", n.Line)
	}
	var raw struct {
		Value      *float64 `yaml:"value"`
		Percentage float64  `yaml:"percentage"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	if raw.Value == nil {
		return fmt.Errorf("line %d: adjustment has no value", n.Line)
	}
	r.Value = *raw.Value
	r.Percentage = raw.Percentage
	return nil
}

func decodeAdjustments(data []byte) (schema.AdjustmentTable, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty document")
	}
	var raw map[string]map[string]map[int]adjustmentRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	table := make(schema.AdjustmentTable, len(raw))
	for group, cats := range raw {
		cc := make(map[string]map[int]schema.Adjustment, len(cats))
		for cat, rules := range cats {
			rr := make(map[int]schema.Adjustment, len(rules))
			for score, rec := range rules {
				rr[score] = rec.Adjustment
			}
			cc[schema.CleanCategory(cat)] = rr
		}
		table[schema.ServiceGroup(group)] = cc
	}
	return table, nil
}

// EncodeYAML writes the tables of a Store back out in the document shapes LoadYAML reads.
func EncodeYAML(s *Store, scores, ifr, vfr io.Writer) error {
	var root yaml.Node
	root.Kind = yaml.MappingNode
	for _, c := range s.Categories() {
		opts := &yaml.Node{Kind: yaml.MappingNode}
		for _, o := range c.Options {
			opts.Content = append(opts.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: o.Label},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(o.Score)})
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: c.Name}, opts)
	}
	if err := encode(scores, &root); err != nil {
		return err
	}
	if err := encode(ifr, s.Table(schema.IFR)); err != nil {
		return err
	}
	return encode(vfr, s.Table(schema.VFR))
}

func encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
