package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hairpinscan/internal/config"
)

func execute(t *testing.T, args ...string) (Options, bool, string, error) {
	t.Helper()
	v := config.New()
	var (
		got    Options
		called bool
	)
	cmd := NewCommand(v, func(_ *cobra.Command, opt Options) error {
		got, called = opt, true
		return nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return got, called, out.String(), err
}

func TestCommand_BindsFlagsIntoViper(t *testing.T) {
	v := config.New()
	cmd := NewCommand(v, func(*cobra.Command, Options) error { return nil })
	cmd.SetArgs([]string{"--preset", "extended", "--loop-min=5", "-t", "4", "--mfe=false", "--one-based", "in.fold"})
	require.NoError(t, cmd.Execute())

	c, err := config.Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, config.PresetExtended, c.Preset)
	assert.Equal(t, 5, c.Hairpin.LoopMin)
	assert.Equal(t, 40, c.Hairpin.Threshold, "unset flags leave the preset value")
	assert.Equal(t, 4, c.Threads)
	assert.False(t, c.MFEColumn, "explicit flag beats the preset")
	assert.True(t, c.OneBased)
}

func TestCommand_Positionals(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.fold", "b.fold"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
	opt, called, _, err := execute(t, "-c", "cfg.yaml", filepath.Join(dir, "*.fold"), "-")
	require.NoError(t, err)
	require.True(t, called)
	assert.Equal(t, "cfg.yaml", opt.ConfigFile)
	assert.Equal(t, []string{filepath.Join(dir, "a.fold"), filepath.Join(dir, "b.fold"), "-"}, opt.Inputs)
}

func TestCommand_NoArgsPrintsHelp(t *testing.T) {
	_, called, out, err := execute(t)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "--bulge-max")
}

func TestCommand_InfoFlagsNeedNoInput(t *testing.T) {
	opt, called, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.True(t, called)
	assert.True(t, opt.Version)

	opt, called, _, err = execute(t, "--examples")
	require.NoError(t, err)
	assert.True(t, called)
	assert.True(t, opt.Examples)

	opt, called, _, err = execute(t, "--print-config")
	require.NoError(t, err)
	assert.True(t, called)
	assert.True(t, opt.PrintConfig)
	assert.Empty(t, opt.Inputs)
}

func TestCommand_UsageErrors(t *testing.T) {
	_, called, _, err := execute(t, "--no-such-flag", "in.fold")
	assert.ErrorIs(t, err, ErrUsage)
	assert.False(t, called)

	_, called, _, err = execute(t, "--threshold", "many", "in.fold")
	assert.ErrorIs(t, err, ErrUsage)
	assert.False(t, called)

	_, _, _, err = execute(t, filepath.Join(t.TempDir(), "*.none"))
	assert.ErrorIs(t, err, ErrUsage)
}

func TestCommand_LongHelpWrapped(t *testing.T) {
	cmd := NewCommand(config.New(), func(*cobra.Command, Options) error { return nil })
	for _, line := range bytes.Split([]byte(cmd.Long), []byte("\n")) {
		assert.LessOrEqual(t, len(line), 78, string(line))
	}
}

func TestPrintExamples(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, PrintExamples(&b))
	assert.Contains(t, b.String(), "--preset extended")
}
