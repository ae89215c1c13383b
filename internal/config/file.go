package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
)

// File is the content of a config file. Keys left out of the file stay nil
// and do not override anything.
type File struct {
	Algorithm       *string  `toml:"algorithm" yaml:"algorithm"`
	Verbosity       *int     `toml:"verbosity" yaml:"verbosity"`
	RefreshInterval *float64 `toml:"refresh_interval" yaml:"refresh_interval"`
	Format          *string  `toml:"format" yaml:"format"`
	Tag             *bool    `toml:"tag" yaml:"tag"`
	Glob            *bool    `toml:"glob" yaml:"glob"`
	Warn            *bool    `toml:"warn" yaml:"warn"`
	Strict          *bool    `toml:"strict" yaml:"strict"`
	IgnoreMissing   *bool    `toml:"ignore_missing" yaml:"ignore_missing"`
	Summary         *string  `toml:"summary" yaml:"summary"`
	LogLevel        *string  `toml:"log_level" yaml:"log_level"`
}

// Load reads a config file. The decoder is chosen by extension: .toml, or
// .yaml/.yml. Unknown keys are an error.
func Load(path string) (*File, error) {
	const errCtx = "loading config"

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", errCtx, path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return nil, fmt.Errorf("%s: %s: unknown keys %s", errCtx, path, strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		if err := yaml.UnmarshalWithOptions(data, &f, yaml.DisallowUnknownField()); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", errCtx, path, err)
		}
	default:
		return nil, fmt.Errorf("%s: %s: unsupported config file type %q", errCtx, path, ext)
	}
	return &f, nil
}

// Settings maps flag names to the string values the file sets.
func (f *File) Settings() map[string]string {
	out := make(map[string]string)
	str := func(name string, v *string) {
		if v != nil {
			out[name] = *v
		}
	}
	boolean := func(name string, v *bool) {
		if v != nil {
			out[name] = strconv.FormatBool(*v)
		}
	}

	str("algorithm", f.Algorithm)
	if f.Verbosity != nil {
		out["verbosity"] = strconv.Itoa(*f.Verbosity)
	}
	if f.RefreshInterval != nil {
		out["refresh-interval"] = strconv.FormatFloat(*f.RefreshInterval, 'f', -1, 64)
	}
	str("format", f.Format)
	boolean("tag", f.Tag)
	boolean("glob", f.Glob)
	boolean("warn", f.Warn)
	boolean("strict", f.Strict)
	boolean("ignore-missing", f.IgnoreMissing)
	str("summary", f.Summary)
	str("log-level", f.LogLevel)
	return out
}

// Apply sets every flag of fs the file configures and that was not set on
// the command line or from the environment.
func (f *File) Apply(fs *pflag.FlagSet) error {
	settings := f.Settings()

	names := make([]string, 0, len(settings))
	for name := range settings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fl := fs.Lookup(name)
		if fl == nil {
			return fmt.Errorf("config key for unknown flag %q", name)
		}
		if fl.Changed {
			continue
		}
		if err := fs.Set(name, settings[name]); err != nil {
			return fmt.Errorf("invalid config value %q for %s: %w", settings[name], name, err)
		}
	}
	return nil
}
