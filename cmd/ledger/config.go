// (c) 2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"

	"github.com/luxfi/ledger/ledger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrMissingInputPath is returned by BuildConfig when no input path was
// given by flag or positional argument; main prints a Usage line for it.
var ErrMissingInputPath = errors.New("missing input path")

// Flag/viper keys, PascalCase exported constants ending in "Key".
const (
	InputPathKey      = "input"
	SkipMalformedKey  = "skip-malformed"
	LogWarningsKey    = "log-warnings"
	MaxTxHistoryKey   = "max-tx-history"
	LogLevelKey       = "log-level"
	MetricsEnabledKey = "metrics"
)

// BuildFlagSet declares cmd/ledger's flags.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("ledger", pflag.ContinueOnError)
	fs.String(InputPathKey, "", "path to the input CSV of transactions (required, or pass as the sole positional argument)")
	fs.Bool(SkipMalformedKey, true, "drop malformed input rows instead of failing the batch")
	fs.Bool(LogWarningsKey, true, "log a warning for every skipped or rejected event")
	fs.Int(MaxTxHistoryKey, 0, "maximum number of transactions retained for dispute lookup; 0 means unbounded")
	fs.String(LogLevelKey, "info", "log level name (trace, debug, info, warn, error, crit); validated only, output stays at info and above")
	fs.Bool(MetricsEnabledKey, false, "register prometheus collectors for the engine")
	return fs
}

// BuildViper binds fs and argv into a resolved viper instance.
func BuildViper(fs *pflag.FlagSet, argv []string) (*viper.Viper, error) {
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		v.Set(InputPathKey, fs.Arg(0))
	}
	return v, nil
}

// BuildConfig resolves v into a ledger.ProcessorConfig plus the input path.
func BuildConfig(v *viper.Viper) (ledger.ProcessorConfig, string, error) {
	path := v.GetString(InputPathKey)
	if path == "" {
		return ledger.ProcessorConfig{}, "", ErrMissingInputPath
	}
	cfg := ledger.NewConfig(
		ledger.WithSkipMalformed(v.GetBool(SkipMalformedKey)),
		ledger.WithLogWarnings(v.GetBool(LogWarningsKey)),
		ledger.WithMaxTxHistory(v.GetInt(MaxTxHistoryKey)),
		ledger.WithLogLevel(v.GetString(LogLevelKey)),
		ledger.WithMetrics(v.GetBool(MetricsEnabledKey)),
	)
	return cfg, path, nil
}
