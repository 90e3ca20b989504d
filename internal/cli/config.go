package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/toyz/apispec/internal/errors"
)

// Config holds the merged configuration for the apispec commands.
// Values are layered: DefaultConfig, then the YAML file, then flags.
type Config struct {
	// Directories is the list of directories to scan for annotated Go files.
	// Entries ending in "/..." are scanned recursively.
	Directories []string `yaml:"directories" validate:"required,min=1,dive,required"`

	// ModuleName overrides the module path read from go.mod
	ModuleName string `yaml:"module"`

	// Format is the output encoding of the describe command
	Format string `yaml:"format" validate:"oneof=json yaml"`

	// Output is the destination file, "-" for stdout
	Output string `yaml:"output" validate:"required"`

	// All includes types without a description or API method
	All bool `yaml:"all"`

	Server ServerConfig `yaml:"server"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `yaml:"verbose" validate:"excluded_with=Quiet"`

	// Quiet only shows errors
	Quiet bool `yaml:"quiet"`
}

// ServerConfig configures the description server
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	Engine          string        `yaml:"engine" validate:"oneof=echo gin fiber"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when nothing else is given
func DefaultConfig() Config {
	return Config{
		Directories: []string{"./..."},
		Format:      "json",
		Output:      "-",
		Server: ServerConfig{
			Addr:            ":8080",
			Engine:          "echo",
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

var validate = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New()
	// Report YAML keys so messages match what users write in the config file.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadConfigFile overlays the YAML file at path onto cfg.
// Keys absent from the file keep their current value; unknown keys are errors.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return errors.WrapConfigurationError(path, "read", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.WrapConfigurationError(path, "parse", err).
			WithSuggestion("Check the YAML syntax and the key names")
	}
	return nil
}

// Validate checks the merged configuration
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.Wrap(errors.ConfigurationErrorCode, "invalid configuration", err)
	}

	all := errors.NewMultipleErrors()
	for _, fe := range fieldErrs {
		all.Add(errors.Newf(errors.ConfigurationErrorCode, "invalid configuration value for '%s': %s", configKey(fe), describeRule(fe)).
			WithContext("field", configKey(fe)).
			WithContext("value", fe.Value()))
	}
	return all.ErrorOrNil()
}

// configKey turns "Config.server.engine" into "server.engine"
func configKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "min":
		return fmt.Sprintf("at least %s entries are required", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got '%v'", fe.Param(), fe.Value())
	case "excluded_with":
		return fmt.Sprintf("cannot be combined with %s", strings.ToLower(fe.Param()))
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed '%s' check", fe.Tag())
	}
}
