package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"rtable/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	ColumnResizeConfig struct {
		MinWidth float64 `yaml:"min_width" validate:"gt=0,lt=50"`
	}

	EditorConfig struct {
		MultiCellSelection bool               `yaml:"multi_cell_selection"`
		DefaultRows        int                `yaml:"default_rows" validate:"min=1,max=1000"`
		DefaultColumns     int                `yaml:"default_columns" validate:"min=1,max=100"`
		HeadingRows        int                `yaml:"heading_rows" validate:"gte=0,ltefield=DefaultRows"`
		HeadingColumns     int                `yaml:"heading_columns" validate:"gte=0,ltefield=DefaultColumns"`
		ColumnResize       ColumnResizeConfig `yaml:"column_resize"`
	}

	InputConfig struct {
		// Encoding forces character set of HTML input, empty means detect
		Encoding string `yaml:"encoding"`
	}

	OutputConfig struct {
		Format common.OutputFmt `yaml:"format" validate:"gte=0"`
		Indent int              `yaml:"indent" validate:"gte=-1,lte=8"`
		Title  string           `yaml:"title"`
		// FileNameTransliterate makes output file names ASCII slugs
		FileNameTransliterate bool `yaml:"file_name_transliterate"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Editor    EditorConfig   `yaml:"editor"`
		Input     InputConfig    `yaml:"input"`
		Output    OutputConfig   `yaml:"output"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
