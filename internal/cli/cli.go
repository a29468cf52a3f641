// Package cli wires the clientline commands: the interactive picker when run
// bare, and convert for scripted use.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nconklindev/clientline/internal/config"
	"github.com/nconklindev/clientline/internal/converter"
	"github.com/nconklindev/clientline/internal/logging"
	"github.com/nconklindev/clientline/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitEmpty = 2
)

type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type rootOptions struct {
	configPath string
}

// NewRootCmd builds the command tree.
func NewRootCmd(info BuildInfo) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "clientline",
		Short:         "Convert client spreadsheets into JSON lines",
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			return runUI(cfg)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("clientline %s\ncommit: %s\nbuilt: %s\n", info.Version, info.Commit, info.Date))
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file (default $"+config.EnvConfigPath+")")

	cmd.AddCommand(newConvertCmd(&opts))
	return cmd
}

func runUI(cfg *config.Config) error {
	logger := logging.Nop()
	if cfg.Logging.File != "" {
		l, err := logging.New(cfg.Logging.Mode, cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			return err
		}
		logger = l
	}
	defer logger.Sync()

	p := tea.NewProgram(ui.InitialModel(cfg, logger), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

type convertOptions struct {
	output  string
	sheet   string
	workers int
}

func newConvertCmd(root *rootOptions) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a CSV or XLSX client file without the interactive UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Convert.Workers = opts.workers
			}
			if cmd.Flags().Changed("sheet") {
				cfg.Convert.Sheet = opts.sheet
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runConvert(cmd.Context(), cmd.OutOrStdout(), args[0], opts.output, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (default: input path with a .jsonl extension)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "XLSX sheet to read (default: first sheet)")
	cmd.Flags().IntVar(&opts.workers, "workers", 1, "number of goroutines building records")
	return cmd
}

func runConvert(ctx context.Context, out io.Writer, input, output string, cfg *config.Config) error {
	logger, err := logging.New(cfg.Logging.Mode, cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer logger.Sync()

	result, err := converter.Run(ctx, converter.Job{
		InputFile:  input,
		OutputFile: output,
		OutputExt:  cfg.Convert.OutputExt,
		Sheet:      cfg.Convert.Sheet,
		Workers:    cfg.Convert.Workers,
		Rules:      cfg.Mapping.Rules(),
		Logger:     logger,
	})
	if err != nil {
		if errors.Is(err, converter.ErrEmptyBatch) {
			return fmt.Errorf("%w in %s", err, input)
		}
		return err
	}

	fmt.Fprintf(out, "wrote %d records to %s\n", result.RecordsWritten, result.OutputFile)
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute(info BuildInfo, args []string) int {
	cmd := NewRootCmd(info)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, converter.ErrEmptyBatch) {
			return ExitEmpty
		}
		return ExitError
	}
	return ExitOK
}
