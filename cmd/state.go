package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/chriserin/tgherkin/gherkin"
	"github.com/chriserin/tgherkin/gherkin/grammar"
	"github.com/chriserin/tgherkin/internal/config"
)

// state is what every command needs: where files live, how to log, the
// consolidated configuration and the keyword tables it selects.
type state struct {
	ctx      context.Context
	fs       afero.Fs
	logger   *logrus.Logger
	conf     config.Config
	dialects *grammar.Registry
}

func newState(fs afero.Fs, flags *pflag.FlagSet, lookup func(string) (string, bool), stderr io.Writer) (*state, error) {
	conf, err := config.Consolidate(fs, config.Filename, flags, lookup)
	if err != nil {
		return nil, err
	}

	logger := &logrus.Logger{
		Out:       stderr,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}
	level, err := logrus.ParseLevel(conf.LogLevel.String)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	dialects := grammar.Builtin()
	if path := conf.Keywords.String; conf.Keywords.Valid && path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		d, err := grammar.DecodeDialect(path, data)
		if err != nil {
			return nil, err
		}
		if dialects, err = dialects.With(d); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		logger.WithField("file", path).Debugf("loaded language %q", d.Code)
	}

	return &state{ctx: context.Background(), fs: fs, logger: logger, conf: conf, dialects: dialects}, nil
}

func (s *state) options(filename string) gherkin.Options {
	return gherkin.Options{
		Filename: filename,
		Language: s.conf.Language.String,
		Dialects: s.dialects,
		Strict:   s.conf.Strict.Bool,
	}
}
