/*
Copyright 2025 The Kubermatic Kubernetes Platform contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package log

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Format is the output format of the logger. It implements pflag.Value.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

var AvailableFormats = sets.New(FormatJSON, FormatConsole)

func (f *Format) Type() string {
	return "string"
}

func (f *Format) String() string {
	return string(*f)
}

func (f *Format) Set(s string) error {
	candidate := Format(strings.ToLower(s))
	if !AvailableFormats.Has(candidate) {
		return fmt.Errorf("invalid format %q, must be one of %v", s, sets.List(AvailableFormats))
	}

	*f = candidate
	return nil
}

type Options struct {
	// Debug enables more verbose logging.
	Debug bool
	// Format selects the encoder, either json or console.
	Format Format
}

func NewDefaultOptions() Options {
	return Options{
		Debug:  false,
		Format: FormatJSON,
	}
}

func (o *Options) AddPFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Debug, "log-debug", o.Debug, "Enables more verbose logging")
	fs.Var(&o.Format, "log-format", fmt.Sprintf("Log format, one of %v", sets.List(AvailableFormats)))
}

func (o *Options) Validate() error {
	if !AvailableFormats.Has(o.Format) {
		return errors.New("invalid --log-format specified")
	}

	return nil
}

// New returns a production-grade zap logger. Timestamps are always ISO8601
// so that both formats can be correlated with cluster events.
func New(debug bool, format Format) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:             level,
		Development:       debug,
		DisableStacktrace: !debug,
		Encoding:          string(format),
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}

	if format == FormatConsole {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		// the config above is static and cannot fail to build
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}

	return logger
}

func NewFromOptions(o Options) *zap.Logger {
	return New(o.Debug, o.Format)
}

// NewDefault returns a logger that writes JSON at info level.
func NewDefault() *zap.Logger {
	return NewFromOptions(NewDefaultOptions())
}
