package config

import (
	"os"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultsDirective is the task that sets per-directive defaults
const DefaultsDirective = "defaults"

// Task is one directive entry of a document, in document order
type Task struct {
	Directive string
	Data      *yaml.Node
}

// ParseDocument decodes a dotbot-style document: a sequence of mappings,
// each mapping directive names to their data. An empty document yields no
// tasks.
func ParseDocument(data []byte) ([]Task, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid directive document")
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	if doc.Kind == yaml.ScalarNode && doc.Tag == "!!null" {
		return nil, nil
	}
	if doc.Kind != yaml.SequenceNode {
		return nil, errors.Newf(errors.ErrConfigParse, "directive document must be a list of tasks (line %d)", doc.Line)
	}

	var tasks []Task
	for _, item := range doc.Content {
		if item.Kind != yaml.MappingNode {
			return nil, errors.Newf(errors.ErrConfigParse, "task at line %d must be a mapping", item.Line)
		}
		for i := 0; i+1 < len(item.Content); i += 2 {
			tasks = append(tasks, Task{
				Directive: item.Content[i].Value,
				Data:      item.Content[i+1],
			})
		}
	}
	return tasks, nil
}

// LoadDocument reads and parses a directive document from disk
func LoadDocument(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read %s", path)
	}
	return ParseDocument(data)
}

// DecodeDefaults decodes the data of a defaults task into per-directive maps
func DecodeDefaults(node *yaml.Node) (map[string]map[string]interface{}, error) {
	out := map[string]map[string]interface{}{}
	if node == nil || node.Tag == "!!null" {
		return out, nil
	}
	if err := node.Decode(&out); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid defaults at line %d", node.Line)
	}
	return out, nil
}
