package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperr "github.com/matzehuels/modgraph/pkg/errors"
	"github.com/matzehuels/modgraph/pkg/graph"
)

// Format identifies the encoding of an input document.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Input is a construction request: a table of operation sequences and the
// rows to build the graph from.
type Input struct {
	Groups     []int      `json:"groups,omitempty" toml:"groups" yaml:"groups,omitempty"`
	Operations [][]string `json:"operations" toml:"operations" yaml:"operations"`
}

// Selected returns the requested groups, or every row index when none were
// given.
func (in *Input) Selected() []int {
	if len(in.Groups) > 0 {
		return in.Groups
	}
	return graph.AllGroups(len(in.Operations))
}

// Validate checks the selected rows. See [apperr.ValidateInput].
func (in *Input) Validate() error {
	return apperr.ValidateInput(in.Selected(), in.Operations)
}

// Build validates the input and constructs its graph.
func (in *Input) Build() (*graph.Graph, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return graph.Build(in.Selected(), in.Operations), nil
}

// FormatFromPath maps a file extension to a [Format].
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", apperr.New(apperr.ErrCodeInvalidFormat, "unsupported input extension %q (want .json, .toml, .yaml or .yml)", filepath.Ext(path))
}

// ParseFormat parses a format name such as "json" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", apperr.New(apperr.ErrCodeInvalidFormat, "unknown input format %q", s)
}

// ReadInput decodes an input document in the given format. It does not
// validate the result; call [Input.Validate] or [Input.Build].
func ReadInput(r io.Reader, format Format) (*Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var in Input
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&in)
	case FormatTOML:
		_, err = toml.Decode(string(data), &in)
	case FormatYAML:
		err = yaml.Unmarshal(data, &in)
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidFormat, "unknown input format %q", format)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode %s input", format)
	}
	return &in, nil
}

// ImportInput reads the input document at path, choosing the decoder by
// extension.
func ImportInput(path string) (*Input, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.Wrap(apperr.ErrCodeNotFound, err, "input %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadInput(f, format)
}
