package main

import (
	"bytes"
	"io"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm2c/errors"
)

const (
	defaultOutput   = "a.c"
	defaultLogLevel = "info"

	logFormatConsole = "console"
	logFormatJSON    = "json"

	envConfigPath = "WASM2C_CONFIG"
)

var errNoInput = errors.InvalidInput(errors.PhaseConfig, "--input option not specified")

// Config is the consolidated command configuration.
type Config struct {
	Input            string
	Output           string
	LogLevel         string
	LogFormat        string
	Workers          int
	MemoryLimitPages uint32
	Strict           bool
	Verify           bool
	Interactive      bool
}

// configLayer is one configuration source. Nil fields are unset and leave
// the value of earlier layers alone.
type configLayer struct {
	Input            *string `yaml:"input" envconfig:"WASM2C_INPUT"`
	Output           *string `yaml:"output" envconfig:"WASM2C_OUTPUT"`
	LogLevel         *string `yaml:"log_level" envconfig:"WASM2C_LOG_LEVEL"`
	LogFormat        *string `yaml:"log_format" envconfig:"WASM2C_LOG_FORMAT"`
	Workers          *int    `yaml:"workers" envconfig:"WASM2C_WORKERS"`
	MemoryLimitPages *uint32 `yaml:"memory_limit_pages" envconfig:"WASM2C_MEMORY_LIMIT_PAGES"`
	Strict           *bool   `yaml:"strict" envconfig:"WASM2C_STRICT"`
	Verify           *bool   `yaml:"verify" envconfig:"WASM2C_VERIFY"`
	Interactive      *bool   `yaml:"interactive" envconfig:"WASM2C_INTERACTIVE"`
}

func configFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringP("input", "i", "", "input WebAssembly binary `file`")
	flags.StringP("output", "o", defaultOutput, "output C `file`")
	flags.StringP("config", "c", "", "YAML config `file`")
	flags.String("log-level", defaultLogLevel, "log level: debug, info, warn or error")
	flags.String("log-format", logFormatConsole, "log format: console or json")
	flags.Int("workers", 0, "functions emitted in parallel, 0 for GOMAXPROCS")
	flags.Uint32("memory-limit-pages", 0, "memory limit used by --verify, in 64KiB pages")
	flags.Bool("strict", false, "fail when any construct is emitted as a placeholder")
	flags.Bool("verify", false, "compile the input with wazero before decompiling")
	flags.Bool("interactive", false, "browse the decompiled functions instead of writing a file")
	return flags
}

func defaultConfig() Config {
	return Config{
		Output:    defaultOutput,
		LogLevel:  defaultLogLevel,
		LogFormat: logFormatConsole,
	}
}

// Apply overrides c with every set field of l.
func (c Config) Apply(l configLayer) Config {
	if l.Input != nil {
		c.Input = *l.Input
	}
	if l.Output != nil {
		c.Output = *l.Output
	}
	if l.LogLevel != nil {
		c.LogLevel = *l.LogLevel
	}
	if l.LogFormat != nil {
		c.LogFormat = *l.LogFormat
	}
	if l.Workers != nil {
		c.Workers = *l.Workers
	}
	if l.MemoryLimitPages != nil {
		c.MemoryLimitPages = *l.MemoryLimitPages
	}
	if l.Strict != nil {
		c.Strict = *l.Strict
	}
	if l.Verify != nil {
		c.Verify = *l.Verify
	}
	if l.Interactive != nil {
		c.Interactive = *l.Interactive
	}
	return c
}

// readFileConfig decodes a YAML config file. Unknown keys are an error.
func readFileConfig(fs afero.Fs, path string) (configLayer, error) {
	var layer configLayer
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return layer, errors.IO(errors.PhaseConfig, path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&layer); err != nil && err != io.EOF {
		return layer, errors.New(errors.PhaseConfig, errors.KindInvalidData).
			Path(path).
			Cause(err).
			Detail("malformed config file").
			Build()
	}
	return layer, nil
}

// readEnvConfig reads the WASM2C_* variables.
func readEnvConfig(env map[string]string) (configLayer, error) {
	var layer configLayer
	err := envconfig.Process("", &layer, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	if err != nil {
		return layer, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "malformed environment")
	}
	return layer, nil
}

// flagConfig returns the flags the user set explicitly.
func flagConfig(flags *pflag.FlagSet) configLayer {
	var layer configLayer
	if flags.Changed("input") {
		v, _ := flags.GetString("input")
		layer.Input = &v
	}
	if flags.Changed("output") {
		v, _ := flags.GetString("output")
		layer.Output = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		layer.LogLevel = &v
	}
	if flags.Changed("log-format") {
		v, _ := flags.GetString("log-format")
		layer.LogFormat = &v
	}
	if flags.Changed("workers") {
		v, _ := flags.GetInt("workers")
		layer.Workers = &v
	}
	if flags.Changed("memory-limit-pages") {
		v, _ := flags.GetUint32("memory-limit-pages")
		layer.MemoryLimitPages = &v
	}
	if flags.Changed("strict") {
		v, _ := flags.GetBool("strict")
		layer.Strict = &v
	}
	if flags.Changed("verify") {
		v, _ := flags.GetBool("verify")
		layer.Verify = &v
	}
	if flags.Changed("interactive") {
		v, _ := flags.GetBool("interactive")
		layer.Interactive = &v
	}
	return layer
}

// getConsolidatedConfig combines defaults, the config file, the environment
// and the command line flags, later sources taking precedence.
func getConsolidatedConfig(gs *globalState, flags *pflag.FlagSet) (Config, error) {
	cfg := defaultConfig()

	path, _ := flags.GetString("config")
	if !flags.Changed("config") {
		path = gs.env[envConfigPath]
	}
	if path != "" {
		fileConf, err := readFileConfig(gs.fs, path)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.Apply(fileConf)
	}

	envConf, err := readEnvConfig(gs.env)
	if err != nil {
		return cfg, err
	}
	cfg = cfg.Apply(envConf).Apply(flagConfig(flags))

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Input == "" {
		return errNoInput
	}
	if c.Output == "" && !c.Interactive {
		return errors.InvalidInput(errors.PhaseConfig, "output path is empty")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.LogLevel).
			Detail("unknown log level %q", c.LogLevel).
			Build()
	}
	if c.LogFormat != logFormatConsole && c.LogFormat != logFormatJSON {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.LogFormat).
			Detail("unknown log format %q", c.LogFormat).
			Build()
	}
	if c.Workers < 0 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.Workers).
			Detail("workers must not be negative").
			Build()
	}
	return nil
}
