// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"hairpinscan/internal/appcore"
	"hairpinscan/internal/cli"
	"hairpinscan/internal/config"
	"hairpinscan/internal/version"
	"hairpinscan/internal/writers"
)

// RunContext parses argv, resolves the configuration and runs the scan.
// It returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	v := config.New()
	code := appcore.ExitOK
	cmd := cli.NewCommand(v, func(cmd *cobra.Command, opt cli.Options) error {
		switch {
		case opt.Version:
			_, err := fmt.Fprintf(outw, "hairpinscan version %s\n", version.Version)
			return err
		case opt.Examples:
			return cli.PrintExamples(outw)
		}
		cfg, err := config.Load(v, opt.ConfigFile)
		if err != nil {
			return cli.Usagef("%v", err)
		}
		if opt.PrintConfig {
			return config.WriteYAML(outw, cfg)
		}
		// Results bypass outw so help text and rows never interleave.
		if err := outw.Flush(); err != nil {
			return err
		}
		code = appcore.Run(cmd.Context(), stdout, stderr, appcore.Options{Config: cfg, Inputs: opt.Inputs})
		return nil
	})
	if argv == nil {
		argv = []string{} // nil makes cobra read os.Args
	}
	cmd.SetArgs(argv)
	cmd.SetOut(outw)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(parent); err != nil {
		if writers.IsBrokenPipe(err) {
			return appcore.ExitOK
		}
		_, _ = fmt.Fprintln(stderr, "error:", err)
		if errors.Is(err, cli.ErrUsage) {
			_, _ = fmt.Fprintln(stderr, "Run 'hairpinscan --help' for usage.")
			return appcore.ExitUsage
		}
		return appcore.ExitIO
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return code
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return appcore.ExitIO
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
