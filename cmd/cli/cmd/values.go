package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"calcengine/internal/errors"
)

// inputFlags collects calculator values from -i key=value pairs and an
// optional JSON or YAML file. Pairs override the file.
type inputFlags struct {
	pairs []string
	file  string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.pairs, "input", "i", nil, "input value as key=value (repeatable)")
	cmd.Flags().StringVar(&f.file, "input-file", "", "JSON or YAML file of input values")
}

func (f *inputFlags) values() (map[string]interface{}, error) {
	values := make(map[string]interface{})
	if f.file != "" {
		loaded, err := readValuesFile(f.file)
		if err != nil {
			return nil, err
		}
		for k, v := range loaded {
			values[k] = v
		}
	}

	parsed, err := parseAssignments(f.pairs)
	if err != nil {
		return nil, err
	}
	for k, v := range parsed {
		values[k] = v
	}
	return values, nil
}

// parseAssignments turns key=value pairs into values. true and false
// become booleans; everything else stays text and is normalized later.
func parseAssignments(pairs []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Validationf("invalid input %q, expected key=value", p)
		}
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true":
			out[key] = true
		case "false":
			out[key] = false
		default:
			out[key] = value
		}
	}
	return out, nil
}

func readValuesFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "failed to read input file", err).WithContext("path", path)
	}
	values := make(map[string]interface{})
	if err := decodeFile(data, path, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// decodeFile decodes JSON by extension and YAML otherwise
func decodeFile(data []byte, path string, v interface{}) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(v); err != nil {
			return errors.Wrap(errors.TypeParsing, "invalid JSON", err).WithContext("path", path)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.TypeParsing, "invalid YAML", err).WithContext("path", path)
	}
	return nil
}
