package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/camt2csv/internal/config"
	"github.com/cleared-dev/camt2csv/internal/convert"
	"github.com/cleared-dev/camt2csv/internal/logging"
)

type convertFlags struct {
	configPath string
	output     string
	dir        string
	format     string
	scope      string
	quoting    string
	encoding   string
	delimiter  string
	unmappable string
	verbose    bool
}

func newConvertCommand() *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert [statement.xml ...]",
		Short: "Convert CAMT.053 statements to CSV, XLSX or PDF",
		Long: `Convert CAMT.053 statements. Each input is written next to itself as
<input>.csv (or .xlsx, .pdf). Without inputs the command does nothing.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			inputs := args
			if flags.dir != "" {
				found, err := convert.Scan(flags.dir)
				if err != nil {
					return err
				}
				inputs = append(inputs, found...)
			}
			if flags.output != "" && len(inputs) > 1 {
				return errors.New("--output can only be used with a single input")
			}

			log := logging.New(flags.verbose)
			return runConvert(cmd.OutOrStdout(), log, cfg, inputs, flags.output)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "config file (default ./"+config.FileName+" if present)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path (single input only)")
	cmd.Flags().StringVar(&flags.dir, "dir", "", "also convert every .xml file in this directory")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: csv, xlsx or pdf")
	cmd.Flags().StringVar(&flags.scope, "scope", "", "row scope: document or statement")
	cmd.Flags().StringVar(&flags.quoting, "quoting", "", "free-text quoting: legacy or rfc4180")
	cmd.Flags().StringVar(&flags.encoding, "encoding", "", "CSV encoding: windows-1252 or utf-8")
	cmd.Flags().StringVar(&flags.delimiter, "delimiter", "", "CSV field delimiter")
	cmd.Flags().StringVar(&flags.unmappable, "unmappable", "", "characters the encoding cannot hold: error or replace")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	return cmd
}

// loadConfig reads the config file, applies flag overrides, and validates.
func loadConfig(cmd *cobra.Command, flags convertFlags) (*config.Config, error) {
	cfg := config.Default()
	switch {
	case flags.configPath != "":
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		loaded, err := config.Load(config.FileName)
		if err == nil {
			cfg = loaded
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	overrides := []struct {
		name  string
		value string
		dst   *string
	}{
		{"format", flags.format, &cfg.Format},
		{"scope", flags.scope, &cfg.Scope},
		{"quoting", flags.quoting, &cfg.CSV.Quoting},
		{"encoding", flags.encoding, &cfg.CSV.Encoding},
		{"delimiter", flags.delimiter, &cfg.CSV.Delimiter},
		{"unmappable", flags.unmappable, &cfg.CSV.Unmappable},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.name) {
			*o.dst = o.value
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runConvert(out io.Writer, log zerolog.Logger, cfg *config.Config, inputs []string, output string) error {
	for _, in := range inputs {
		outPath := output
		if outPath == "" {
			outPath = convert.OutputPath(in, cfg.Format)
		}

		runLog := logging.WithRun(log).With().Str("input", in).Str("output", outPath).Logger()
		runLog.Debug().Str("scope", cfg.Scope).Str("format", cfg.Format).Msg("converting")

		sum, err := convert.New(cfg, runLog).ConvertFile(in, outPath)
		if err != nil {
			runLog.Error().Err(err).Msg("conversion failed")
			return fmt.Errorf("converting %s: %w", in, err)
		}

		runLog.Info().Object("summary", sum).Msg("converted")
		fmt.Fprintf(out, "Wrote %s (%d rows)\n", outPath, sum.Rows)
	}
	return nil
}
