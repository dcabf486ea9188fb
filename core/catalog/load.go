package catalog

import (
	"bytes"
	"embed"
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"calcengine/internal/errors"
	"calcengine/internal/logging"
)

//go:embed builtin
var builtinFS embed.FS

// Supported reports whether a file name has a definition file extension
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml", ".hcl":
		return true
	default:
		return false
	}
}

// Parse decodes a definition file, choosing the format by extension
func Parse(data []byte, filename string) (Document, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".hcl":
		return ParseHCL(data, filename)
	default:
		return Document{}, errors.NotSupported("definition file format: " + filename)
	}
}

// ParseYAML decodes a YAML document. Unknown keys are rejected.
func ParseYAML(data []byte) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return Document{}, nil
		}
		return Document{}, errors.Wrap(errors.TypeConfig, "invalid YAML definition", err)
	}
	return doc, nil
}

// ParseJSON decodes a JSON document. The input is compacted first so it is
// read as YAML flow content, which keeps formula order.
func ParseJSON(data []byte) (Document, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return Document{}, errors.Wrap(errors.TypeConfig, "invalid JSON definition", err)
	}
	return ParseYAML(compact.Bytes())
}

// AddFile parses one file and adds it
func (c *Catalog) AddFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(errors.TypeConfig, "failed to read definition file", err).
			WithContext("path", filename)
	}
	return c.addData(data, filename)
}

func (c *Catalog) addData(data []byte, filename string) error {
	doc, err := Parse(data, filename)
	if err != nil {
		return errors.Wrapf(errors.TypeConfig, err, "%s", filename)
	}
	if err := c.Add(doc, filename); err != nil {
		return err
	}
	logging.Debug("loaded definitions",
		zap.String("source", filename),
		zap.Int("calculators", len(doc.Calculators)),
		zap.Int("inputs", len(doc.InputDefinitions)),
	)
	return nil
}

// AddDir adds every definition file under dir, in lexical path order
func (c *Catalog) AddDir(dir string) error {
	return c.AddFS(os.DirFS(dir), dir)
}

// AddFS adds every definition file of fsys. Sources are reported relative
// to prefix.
func (c *Catalog) AddFS(fsys fs.FS, prefix string) error {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && Supported(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.TypeConfig, "failed to walk definitions", err).WithContext("path", prefix)
	}
	sort.Strings(files)

	for _, f := range files {
		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return errors.Wrap(errors.TypeConfig, "failed to read definition file", err).WithContext("path", f)
		}
		if err := c.addData(data, path.Join(prefix, f)); err != nil {
			return err
		}
	}
	return nil
}

// AddPath adds a file or every definition file in a directory
func (c *Catalog) AddPath(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return errors.Wrap(errors.TypeConfig, "definition path not found", err).WithContext("path", p)
	}
	if info.IsDir() {
		return c.AddDir(p)
	}
	return c.AddFile(p)
}

// Builtin returns a catalog of the bundled calculators
func Builtin() (*Catalog, error) {
	c := New()
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		return nil, errors.Internal("builtin definitions missing", err)
	}
	if err := c.AddFS(sub, "builtin"); err != nil {
		return nil, err
	}
	return c, nil
}

// Load builds a catalog from the bundled calculators, when includeBuiltin
// is set, followed by each path in order
func Load(includeBuiltin bool, paths ...string) (*Catalog, error) {
	c := New()
	if includeBuiltin {
		var err error
		if c, err = Builtin(); err != nil {
			return nil, err
		}
	}
	for _, p := range paths {
		if err := c.AddPath(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}
