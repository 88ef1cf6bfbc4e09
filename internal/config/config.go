// Package config holds the tgherkin command line configuration. Values are
// layered: defaults, then the config file, then TGHERKIN_* environment
// variables, then flags. A layer only overrides the fields it sets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mstoykov/envconfig"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"
)

// Filename is the config file looked up in the working directory.
const Filename = ".tgherkin.toml"

var formats = []string{"yaml", "json"}

type Config struct {
	Language null.String `toml:"language" envconfig:"TGHERKIN_LANGUAGE"`
	Strict   null.Bool   `toml:"strict" envconfig:"TGHERKIN_STRICT"`
	// Keywords is the path of an extra language pack, YAML or TOML.
	Keywords null.String `toml:"keywords" envconfig:"TGHERKIN_KEYWORDS"`
	Format   null.String `toml:"format" envconfig:"TGHERKIN_FORMAT"`
	LogLevel null.String `toml:"log_level" envconfig:"TGHERKIN_LOG_LEVEL"`
	NoColor  null.Bool   `toml:"no_color" envconfig:"TGHERKIN_NO_COLOR"`
}

func Default() Config {
	return Config{
		Language: null.NewString("en", false),
		Strict:   null.NewBool(false, false),
		Format:   null.NewString("yaml", false),
		LogLevel: null.NewString("info", false),
		NoColor:  null.NewBool(false, false),
	}
}

// Apply returns c overridden by every valid field of cfg.
func (c Config) Apply(cfg Config) Config {
	if cfg.Language.Valid {
		c.Language = cfg.Language
	}
	if cfg.Strict.Valid {
		c.Strict = cfg.Strict
	}
	if cfg.Keywords.Valid {
		c.Keywords = cfg.Keywords
	}
	if cfg.Format.Valid {
		c.Format = cfg.Format
	}
	if cfg.LogLevel.Valid {
		c.LogLevel = cfg.LogLevel
	}
	if cfg.NoColor.Valid {
		c.NoColor = cfg.NoColor
	}
	return c
}

// Validate rejects values no command can use.
func (c Config) Validate() error {
	if c.Format.Valid {
		ok := false
		for _, f := range formats {
			if c.Format.String == f {
				ok = true
			}
		}
		if !ok {
			return fmt.Errorf("invalid format %q, use one of %s", c.Format.String, strings.Join(formats, ", "))
		}
	}
	return nil
}

// FromFile reads path. A missing file is an empty layer, not an error.
func FromFile(afs afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(afs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var conf Config
	md, err := toml.Decode(string(data), &conf)
	if err != nil {
		return Config{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("decoding %s: unknown key %q", path, undecoded[0].String())
	}
	return conf, nil
}

// FromEnv reads the TGHERKIN_* variables through lookup, usually
// os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var conf Config
	if err := envconfig.Process("", &conf, lookup); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	return conf, nil
}

// FromFlags picks up only the flags the user changed.
func FromFlags(flags *pflag.FlagSet) Config {
	return Config{
		Language: getNullString(flags, "language"),
		Strict:   getNullBool(flags, "strict"),
		Keywords: getNullString(flags, "keywords"),
		Format:   getNullString(flags, "format"),
		LogLevel: getNullString(flags, "log-level"),
		NoColor:  getNullBool(flags, "no-color"),
	}
}

// FlagSet declares the flags FromFlags reads.
func FlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringP("language", "l", "en", "default keyword language")
	flags.Bool("strict", false, "treat error diagnostics as failure")
	flags.String("keywords", "", "extra language pack `file` (.yaml or .toml)")
	flags.StringP("format", "f", "yaml", "output format for parse: yaml or json")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Bool("no-color", false, "disable colored output")
	return flags
}

// Consolidate layers defaults, the config file, the environment and flags.
func Consolidate(afs afero.Fs, path string, flags *pflag.FlagSet, lookup func(string) (string, bool)) (Config, error) {
	fileConf, err := FromFile(afs, path)
	if err != nil {
		return Config{}, err
	}
	envConf, err := FromEnv(lookup)
	if err != nil {
		return Config{}, err
	}
	conf := Default().Apply(fileConf).Apply(envConf)
	if flags != nil {
		conf = conf.Apply(FromFlags(flags))
	}
	return conf, conf.Validate()
}

// fileConfig is what init writes: plain values, so that every key shows up.
type fileConfig struct {
	Language string `toml:"language"`
	Strict   bool   `toml:"strict"`
	Keywords string `toml:"keywords"`
	Format   string `toml:"format"`
	LogLevel string `toml:"log_level"`
	NoColor  bool   `toml:"no_color"`
}

// Write stores c in path. It fails if the file already exists.
func Write(afs afero.Fs, path string, c Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(fileConfig{
		Language: c.Language.String,
		Strict:   c.Strict.Bool,
		Keywords: c.Keywords.String,
		Format:   c.Format.String,
		LogLevel: c.LogLevel.String,
		NoColor:  c.NoColor.Bool,
	}); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	f, err := afs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func getNullString(flags *pflag.FlagSet, key string) null.String {
	v, err := flags.GetString(key)
	if err != nil {
		panic(err)
	}
	return null.NewString(v, flags.Changed(key))
}

func getNullBool(flags *pflag.FlagSet, key string) null.Bool {
	v, err := flags.GetBool(key)
	if err != nil {
		panic(err)
	}
	return null.NewBool(v, flags.Changed(key))
}
