package catalog

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/persuade/internal/errors"
	"github.com/Iron-Ham/persuade/internal/preference"
)

type yamlFile struct {
	Items  []yamlItem  `yaml:"items"`
	Agents []yamlAgent `yaml:"agents,omitempty"`
}

type yamlItem struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Ratings     map[string]string `yaml:"ratings"`
}

type yamlAgent struct {
	Name     string   `yaml:"name"`
	Criteria []string `yaml:"criteria"`
}

// ReadYAML decodes a catalog document with items and optional agents.
// Errors carry the line of the offending node.
func ReadYAML(r io.Reader, source string) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewCatalogError("failed to read", err).WithPath(source)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.NewCatalogError("invalid YAML", err).WithPath(source)
	}
	if len(root.Content) == 0 {
		return nil, errors.NewCatalogError("document is empty", errors.ErrEmptyCatalog).WithPath(source)
	}
	doc := root.Content[0]

	var file yamlFile
	if err := doc.Decode(&file); err != nil {
		return nil, errors.NewCatalogError("invalid catalog document", err).WithPath(source)
	}
	itemNodes := sequence(doc, "items")
	agentNodes := sequence(doc, "agents")

	items := make([]*preference.Item, 0, len(file.Items))
	for i, yi := range file.Items {
		line := lineOf(itemNodes, i, doc.Line)
		ratings := make(map[preference.Criterion]preference.Value, len(yi.Ratings))
		for key, raw := range yi.Ratings {
			c, err := preference.ParseCriterion(key)
			if err != nil {
				return nil, errors.NewCatalogError("bad criterion", err).WithPath(source).WithLine(line)
			}
			v, err := preference.ParseValue(raw)
			if err != nil {
				return nil, errors.NewCatalogError("bad value", err).WithPath(source).WithLine(line)
			}
			ratings[c] = v
		}
		desc := yi.Description
		if desc == "" {
			desc = preference.DefaultDescription
		}
		item, err := preference.NewItem(strings.TrimSpace(yi.Name), desc, ratings)
		if err != nil {
			return nil, errors.NewCatalogError("invalid item", err).WithPath(source).WithLine(line)
		}
		items = append(items, item)
	}

	cat, err := preference.NewCatalog(items...)
	if err != nil {
		return nil, errors.NewCatalogError("invalid catalog", err).WithPath(source)
	}
	ds := newDataset(cat, source)

	for i, ya := range file.Agents {
		line := lineOf(agentNodes, i, doc.Line)
		if ya.Name == "" {
			return nil, errors.NewCatalogError("agent without a name", errors.ErrInvalidInput).WithPath(source).WithLine(line)
		}
		if ds.HasProfile(ya.Name) {
			return nil, errors.NewCatalogError("agent listed twice", errors.ErrDuplicateAgent).WithPath(source).WithLine(line)
		}
		p, err := preference.ParseProfile(ya.Criteria)
		if err != nil {
			return nil, errors.NewCatalogError("invalid criteria order", err).WithPath(source).WithLine(line)
		}
		ds.SetProfile(ya.Name, p)
	}
	return ds, nil
}

// WriteYAML encodes ds in the format ReadYAML accepts.
func WriteYAML(w io.Writer, ds *Dataset) error {
	file := yamlFile{}
	for _, item := range ds.Catalog.Items() {
		ratings := make(map[string]string, preference.NumCriteria)
		for _, c := range preference.Criteria() {
			ratings[c.String()] = item.Value(c).String()
		}
		file.Items = append(file.Items, yamlItem{
			Name:        item.Name(),
			Description: item.Description(),
			Ratings:     ratings,
		})
	}
	for _, name := range ds.Agents {
		order := ds.Profiles[name].Order()
		criteria := make([]string, len(order))
		for i, c := range order {
			criteria[i] = c.String()
		}
		file.Agents = append(file.Agents, yamlAgent{Name: name, Criteria: criteria})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return errors.Wrap(err, "encode catalog")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "encode catalog")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// SaveYAML writes ds to path, creating parent directories.
func SaveYAML(path string, ds *Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewCatalogError("failed to create directory", err).WithPath(path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.NewCatalogError("failed to create file", err).WithPath(path)
	}
	if err := WriteYAML(f, ds); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// sequence returns the items of the sequence stored under key in a mapping.
func sequence(mapping *yaml.Node, key string) []*yaml.Node {
	if mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key && mapping.Content[i+1].Kind == yaml.SequenceNode {
			return mapping.Content[i+1].Content
		}
	}
	return nil
}

func lineOf(nodes []*yaml.Node, i, fallback int) int {
	if i < len(nodes) {
		return nodes[i].Line
	}
	return fallback
}
