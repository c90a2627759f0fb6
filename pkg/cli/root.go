// Package cli implements the valuation command line: compute, sensitivity
// and variants.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"startup_valuation/pkg/core/config"
	"startup_valuation/pkg/core/logger"
	"startup_valuation/pkg/core/valuation"
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitInvalidInput   = 2
	ExitDivisionByZero = 3
	ExitSerialization  = 4
)

// loadConfig is swapped in tests.
var loadConfig = config.Load

type app struct {
	stdout io.Writer
	stderr io.Writer

	logLevel string
	cfg      config.Config
	log      zerolog.Logger
}

// Execute runs the command line with args and returns the process exit
// code. Errors are reported on stderr as "error: <kind>: <message>".
func Execute(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, log: logger.Nop()}

	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return ExitOK
	}
	if kind := valuation.KindOf(err); kind != "" {
		fmt.Fprintf(stderr, "error: %s: %v\n", kind, err)
	} else {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return ExitCode(err)
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, valuation.ErrInvalidInput):
		return ExitInvalidInput
	case errors.Is(err, valuation.ErrDivisionByZero):
		return ExitDivisionByZero
	case errors.Is(err, valuation.ErrSerialization):
		return ExitSerialization
	}
	return ExitFailure
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "valuation",
		Short:         "Startup valuation: DCF, ESOP anti-dilution and direct discounting",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
			}
			a.cfg = cfg
			a.log = logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Out: a.stderr}).
				With().Str("run_id", uuid.NewString()).Logger()
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("parse_flags", "", err)
	})
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug|info|warn|error (default from config)")

	cmd.AddCommand(a.computeCmd(), a.sensitivityCmd(), a.variantsCmd())
	return cmd
}

// usageError classifies a bad command line as invalid input.
func usageError(op, field string, err error) error {
	return &valuation.Error{Op: op, Kind: valuation.KindInvalidInput, Field: field, Err: err}
}
