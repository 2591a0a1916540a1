package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"cssobf/hasher"
	"cssobf/obfuscate"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	ObfuscationConfig struct {
		Seed   SecretString `yaml:"seed"`
		Hasher hasher.Kind  `yaml:"hasher" validate:"gte=0"`
		Prefix string       `yaml:"prefix" validate:"omitempty,max=32"`
	}

	MarkupConfig struct {
		SkipAttribute string   `yaml:"skip_attribute"`
		Extensions    []string `yaml:"extensions" validate:"dive,required,startswith=."`
	}

	StylesheetsConfig struct {
		Extensions    []string `yaml:"extensions" validate:"dive,required,startswith=."`
		InputEncoding string   `yaml:"input_encoding"`
	}

	Config struct {
		Version     int               `yaml:"version" validate:"eq=1"`
		Obfuscation ObfuscationConfig `yaml:"obfuscation"`
		Markup      MarkupConfig      `yaml:"markup"`
		Stylesheets StylesheetsConfig `yaml:"stylesheets"`
		Logging     LoggingConfig     `yaml:"logging"`
		Reporting   ReporterConfig    `yaml:"reporting"`
	}
)

// Options converts configuration section into obfuscator settings. Actual
// checks are done by obfuscate.Config.Validate when the obfuscator is
// created, so an empty seed here may still be supplied from the command line.
func (conf *ObfuscationConfig) Options() obfuscate.Config {
	return obfuscate.Config{
		Seed:   string(conf.Seed),
		Hasher: conf.Hasher,
		Prefix: conf.Prefix,
	}
}

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
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration expands embedded configuration template, puts values from
// the file at the given path (if any) on top of it and validates the result.
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

// SeedFieldName must match yaml field name of the seed.
const SeedFieldName = "seed"

// Prepare generates configuration file from template and returns it as a byte
// slice. Seed expression is kept as is, so actual secret never gets into the
// output.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, gencfg.WithDoNotExpandField(SeedFieldName))
}

// Dump marshals cfg hiding secrets.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
