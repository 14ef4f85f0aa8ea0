package rsync

import (
	"sort"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Source is where a record's files come from: either a bare path
// expression or an object carrying its own overrides.
type Source interface {
	// Expression returns the source path expression, possibly a glob
	Expression() string
	// Overrides returns the per-record options; zero for simple sources
	Overrides() Options
}

// SimpleSource is a bare source path expression
type SimpleSource struct {
	Path string
}

func (s SimpleSource) Expression() string { return s.Path }
func (s SimpleSource) Overrides() Options { return Options{} }

// ExtendedSource is a source given as an object with its own options
type ExtendedSource struct {
	Path    string
	Options Options
}

func (s ExtendedSource) Expression() string { return s.Path }
func (s ExtendedSource) Overrides() Options { return s.Options }

// Record maps one destination expression to its source
type Record struct {
	Destination string
	Source      Source
}

// extendedSpec is the object form of a source
type extendedSpec struct {
	Options `mapstructure:",squash"`
	Path    *string `mapstructure:"path"`
}

// ParseRecords converts the data of a sync task into records. It accepts
// a YAML mapping node, which keeps document order, or a plain map, whose
// records are returned sorted by destination.
func ParseRecords(data interface{}) ([]Record, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case *yaml.Node:
		return parseNode(v)
	case map[string]interface{}:
		return parseMap(v)
	default:
		return nil, errors.Newf(errors.ErrConfigParse, "sync data must be a mapping of destinations to sources, got %T", data)
	}
}

func parseNode(node *yaml.Node) ([]Record, error) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.ErrConfigParse, "sync data at line %d must be a mapping of destinations to sources", node.Line)
	}

	records := make([]Record, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var raw interface{}
		if err := value.Decode(&raw); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid source for %q at line %d", key.Value, value.Line)
		}
		rec, err := parseRecord(key.Value, raw)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseMap(m map[string]interface{}) ([]Record, error) {
	destinations := make([]string, 0, len(m))
	for dest := range m {
		destinations = append(destinations, dest)
	}
	sort.Strings(destinations)

	records := make([]Record, 0, len(m))
	for _, dest := range destinations {
		rec, err := parseRecord(dest, m[dest])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(destination string, raw interface{}) (Record, error) {
	switch v := raw.(type) {
	case string:
		return Record{Destination: destination, Source: SimpleSource{Path: v}}, nil
	case map[string]interface{}:
		var spec extendedSpec
		if err := decode(v, &spec); err != nil {
			return Record{}, errors.Wrapf(err, errors.ErrConfigParse, "invalid source for %q", destination)
		}
		if spec.Path == nil || *spec.Path == "" {
			return Record{}, errors.Newf(errors.ErrConfigParse, "source for %q is missing required field path", destination).
				WithDetail("destination", destination)
		}
		return Record{
			Destination: destination,
			Source:      ExtendedSource{Path: *spec.Path, Options: spec.Options},
		}, nil
	default:
		return Record{}, errors.Newf(errors.ErrConfigParse, "source for %q must be a path or an object, got %T", destination, raw).
			WithDetail("destination", destination)
	}
}
