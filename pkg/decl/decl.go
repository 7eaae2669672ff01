// SPDX-License-Identifier: MPL-2.0

package decl

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/invowk/modgraph/pkg/cueutil"
)

const (
	// FormatCUE is CUE, validated against the #Declaration schema.
	FormatCUE Format = "cue"
	// FormatJSON is JSON, validated against the same schema as CUE.
	FormatJSON Format = "json"
	// FormatHCL uses `module "<name>" { ... }` blocks.
	FormatHCL Format = "hcl"
	// FormatYAML is YAML with the same field names as CUE.
	FormatYAML Format = "yaml"
	// FormatTOML uses [[modules]] tables with the same field names as CUE.
	FormatTOML Format = "toml"
)

var (
	//go:embed decl_schema.cue
	declSchema string

	// ErrUnsupportedFormat is the sentinel error wrapped by UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported declaration format")

	// ErrEmptyExportTargets is returned for an export whose `to` list is
	// present but empty. Omit `to` to export to every module.
	ErrEmptyExportTargets = errors.New("export target list is empty")
)

type (
	// Format identifies a declaration file syntax.
	Format string

	// UnsupportedFormatError is returned for files whose extension maps to no Format.
	UnsupportedFormatError struct {
		Path string
	}

	// File is a parsed set of module declarations, possibly merged from
	// several source files.
	File struct {
		Modules []Module `json:"modules,omitempty" yaml:"modules" toml:"modules"`
		// Sources lists the files the declarations were read from, in load order.
		Sources []string `json:"-" yaml:"-" toml:"-"`
	}

	// Module declares one module, its exports and its read edges.
	Module struct {
		Name      string   `json:"name" yaml:"name" toml:"name"`
		Version   string   `json:"version,omitempty" yaml:"version" toml:"version"`
		Location  string   `json:"location,omitempty" yaml:"location" toml:"location"`
		Automatic bool     `json:"automatic,omitempty" yaml:"automatic" toml:"automatic"`
		Packages  []string `json:"packages,omitempty" yaml:"packages" toml:"packages"`
		Exports   []Export `json:"exports,omitempty" yaml:"exports" toml:"exports"`
		Reads     []string `json:"reads,omitempty" yaml:"reads" toml:"reads"`
		ReadsAll  bool     `json:"reads_all,omitempty" yaml:"reads_all" toml:"reads_all"`
		// Source is the file the module was declared in.
		Source string `json:"-" yaml:"-" toml:"-"`
	}

	// Export declares one exported package. A nil To exports it to every
	// module; a present but empty To is rejected by Apply.
	Export struct {
		Package string   `json:"package" yaml:"package" toml:"package"`
		To      []string `json:"to,omitempty" yaml:"to" toml:"to"`
	}

	hclFile struct {
		Modules []hclModule `hcl:"module,block"`
	}

	hclModule struct {
		Name      string      `hcl:"name,label"`
		Version   string      `hcl:"version,optional"`
		Location  string      `hcl:"location,optional"`
		Automatic bool        `hcl:"automatic,optional"`
		Packages  []string    `hcl:"packages,optional"`
		Exports   []hclExport `hcl:"export,block"`
		Reads     []string    `hcl:"reads,optional"`
		ReadsAll  bool        `hcl:"reads_all,optional"`
	}

	hclExport struct {
		Package string   `hcl:"package,label"`
		To      []string `hcl:"to,optional"`
	}
)

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported declaration format %q (want .cue, .json, .hcl, .yaml, .yml or .toml)", e.Path, filepath.Ext(e.Path))
}

// Unwrap returns ErrUnsupportedFormat so callers can use errors.Is.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// FormatOf maps a file name to its declaration Format by extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", &UnsupportedFormatError{Path: path}
	}
}

// Parse decodes data as the declaration format implied by path's extension.
func Parse(path string, data []byte) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	var f *File
	switch format {
	case FormatCUE, FormatJSON:
		f, err = parseCUE(path, data)
	case FormatHCL:
		f, err = parseHCL(path, data)
	case FormatYAML:
		f, err = parseYAML(path, data)
	case FormatTOML:
		f, err = parseTOML(path, data)
	}
	if err != nil {
		return nil, err
	}

	for i := range f.Modules {
		f.Modules[i].Source = path
	}
	f.Sources = []string{path}
	return f, nil
}

// Merge appends the modules and sources of other to f.
func (f *File) Merge(other *File) {
	f.Modules = append(f.Modules, other.Modules...)
	f.Sources = append(f.Sources, other.Sources...)
}

func parseCUE(path string, data []byte) (*File, error) {
	res, err := cueutil.Decode[File](declSchema, data, "#Declaration", cueutil.WithFilename(path))
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

func parseHCL(path string, data []byte) (*File, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL declaration %s: %w", path, diags)
	}

	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL declaration %s: %w", path, diags)
	}

	f := &File{Modules: make([]Module, 0, len(raw.Modules))}
	for _, m := range raw.Modules {
		mod := Module{
			Name:      m.Name,
			Version:   m.Version,
			Location:  m.Location,
			Automatic: m.Automatic,
			Packages:  m.Packages,
			Reads:     m.Reads,
			ReadsAll:  m.ReadsAll,
		}
		for _, e := range m.Exports {
			mod.Exports = append(mod.Exports, Export(e))
		}
		f.Modules = append(f.Modules, mod)
	}
	return f, nil
}

func parseYAML(path string, data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML declaration %s: %w", path, err)
	}
	return &f, nil
}

func parseTOML(path string, data []byte) (*File, error) {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse TOML declaration %s: %w", path, err)
	}
	return &f, nil
}
