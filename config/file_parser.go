package config

import (
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

// ConfigFileType names a supported init config encoding.
type ConfigFileType string

const (
	FileTypeYAML ConfigFileType = "yaml"
	FileTypeTOML ConfigFileType = "toml"
	FileTypeJSON ConfigFileType = "json"
)

func (c ConfigFileType) String() string {
	return string(c)
}

func (c ConfigFileType) Valid() error {
	switch c {
	case FileTypeJSON, FileTypeYAML, FileTypeTOML:
		return nil
	}
	return errors.New("invalid config file type", errors.CategoryValidation).
		WithTextCode("INVALID_FILE_TYPE").
		WithMetadata(map[string]any{
			"file_type":   string(c),
			"valid_types": []string{string(FileTypeJSON), string(FileTypeYAML), string(FileTypeTOML)},
		})
}

// Parser returns the koanf parser for the type. It is also used to marshal
// merged summaries. Unknown types fall back to JSON.
func (c ConfigFileType) Parser() koanf.Parser {
	switch c {
	case FileTypeTOML:
		return toml.Parser()
	case FileTypeYAML:
		return yaml.Parser()
	}
	return json.Parser()
}

// Marshal encodes v with the type's parser.
func (c ConfigFileType) Marshal(v map[string]any) ([]byte, error) {
	if err := c.Valid(); err != nil {
		return nil, err
	}
	return c.Parser().Marshal(v)
}

// InferConfigFileType guesses the encoding from the file extension.
func InferConfigFileType(path string, fallback ...ConfigFileType) ConfigFileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FileTypeTOML
	case ".json":
		return FileTypeJSON
	case ".yaml", ".yml":
		return FileTypeYAML
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return FileTypeJSON
}
