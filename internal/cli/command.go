// internal/cli/command.go
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"hairpinscan/internal/cliutil"
	"hairpinscan/internal/config"
	"hairpinscan/internal/writers"
)

const longHelp = `hairpinscan reads RNAfold-style records (a ">" header, the nucleotide sequence and the dot-bracket structure with its free energy) and reports, per transcript, the first stem-loop that satisfies the configured shape constraints.

Each structure is split greedily into candidate spans. A candidate needs a hairpin loop of at least --loop-min unpaired bases; unpaired runs longer than --bulge-max on either side cut the stem, surplus brackets are dropped and dangling unpaired bases are stripped. In count mode the remaining stem needs --threshold paired symbols; in length mode the candidate needs --threshold symbols in total.

Presets: "classic" (count mode, threshold 30, first 126 nt) and "extended" (length mode, threshold 40, loop at most 12, MFE column). Settings are read from flags, then HAIRPINSCAN_* environment variables, then --config, then the preset.`

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"preset":             config.KeyPreset,
	"threshold":          config.KeyThreshold,
	"mode":               config.KeyMode,
	"loop-min":           config.KeyLoopMin,
	"loop-max":           config.KeyLoopMax,
	"bulge-max":          config.KeyBulgeMax,
	"max-prefix":         config.KeyMaxPrefix,
	"remap":              config.KeyRemap,
	"mfe":                config.KeyMFEColumn,
	"id-key":             config.KeyIDKey,
	"threads":            config.KeyThreads,
	"out":                config.KeyOut,
	"format":             config.KeyFormat,
	"no-header":          config.KeyNoHeader,
	"one-based":          config.KeyOneBased,
	"log-file":           config.KeyLogFile,
	"log-level":          config.KeyLogLevel,
	"log-format":         config.KeyLogFormat,
	"quiet":              config.KeyQuiet,
	"no-match-exit-code": config.KeyNoMatchExitCode,
}

// NewCommand builds the root command. Config flags are bound into v; run is
// called with the parsed Options once the positionals are expanded. With no
// positionals (and no --version, --examples or --print-config) the help text
// is printed.
func NewCommand(v *viper.Viper, run func(cmd *cobra.Command, opt Options) error) *cobra.Command {
	var opt Options
	cmd := &cobra.Command{
		Use:           "hairpinscan [flags] <rnafold-output>... | -",
		Short:         "Find stem-loop hairpins in RNAfold dot-bracket output",
		Long:          wordwrap.WrapString(longHelp, 78),
		Example:       examples,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opt.Version || opt.Examples || opt.PrintConfig {
				return run(cmd, opt)
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			inputs, err := cliutil.ExpandPositionals(args)
			if err != nil {
				return Usagef("%v", err)
			}
			opt.Inputs = inputs
			return run(cmd, opt)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return Usagef("%v", err) })

	f := cmd.Flags()
	f.SortFlags = false
	f.StringVarP(&opt.ConfigFile, "config", "c", "", "config file (yaml, toml or json)")
	f.String("preset", config.PresetClassic, "scan preset: "+strings.Join(config.PresetNames(), " | "))

	// Scan
	f.Int("threshold", 30, "minimum paired symbols (count mode) or length (length mode) [preset]")
	f.String("mode", "count", "acceptance mode: count | length [preset]")
	f.Int("loop-min", 3, "minimum hairpin loop length [preset]")
	f.Int("loop-max", 0, "maximum hairpin loop length, 0 = none [preset]")
	f.Int("bulge-max", 2, "longest unpaired run kept inside a stem [preset]")
	f.Int("max-prefix", 126, "scan only the first N symbols, 0 = all [preset]")
	f.String("remap", "span", "position mapping: span | locate [preset]")
	f.String("id-key", "geneID", "header key holding the transcript id, empty = first token [preset]")

	// Output
	f.StringP("out", "o", "-", "output file, - = stdout")
	f.StringP("format", "f", "", "output format: "+strings.Join(writers.Formats(), " | ")+" (default: from --out extension)")
	f.Bool("mfe", false, "add the MFE column [preset]")
	f.Bool("no-header", false, "suppress the header row")
	f.Bool("one-based", false, "report 1-based positions")
	f.Int("no-match-exit-code", 0, "exit code when no transcript has a hairpin")

	// Run
	f.IntP("threads", "t", 1, "worker threads, 0 = all CPUs")
	f.String("log-file", "", "write the per-candidate trace to this file")
	f.String("log-level", "", "log level (default: debug with --log-file, else warn)")
	f.String("log-format", "text", "log format: text | json")
	f.BoolP("quiet", "q", false, "no diagnostics on stderr")
	f.BoolVar(&opt.PrintConfig, "print-config", false, "print the resolved settings as YAML and exit")
	f.BoolVar(&opt.Examples, "examples", false, "print usage examples and exit")
	f.BoolVarP(&opt.Version, "version", "v", false, "print version and exit")

	f.VisitAll(func(fl *pflag.Flag) {
		if key, ok := flagKeys[fl.Name]; ok {
			_ = v.BindPFlag(key, fl)
		}
	})
	return cmd
}

const examples = `  hairpinscan transcripts.fold > hairpins.tsv
  RNAfold < seqs.fa | hairpinscan -
  hairpinscan --preset extended -o hairpins.csv 'runs/*.fold.gz'
  hairpinscan --threads 0 --log-file scan.log --one-based batch.fold`

// PrintExamples writes the quickstart block.
func PrintExamples(out io.Writer) error {
	_, err := fmt.Fprintf(out, "hairpinscan quickstart\n\n%s\n\nTip: run with --help for all flags.\n", examples)
	return err
}
