// Package config merges presets, an optional config file, HAIRPINSCAN_*
// environment variables and command-line flags into one Config.
// Precedence, highest first: flags, env, file, preset.
package config

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"hairpinscan/internal/engine"
	"hairpinscan/internal/hairpin"
	"hairpinscan/internal/output"
	"hairpinscan/internal/writers"
)

// EnvPrefix is prepended (with "_") to every environment key.
const EnvPrefix = "HAIRPINSCAN"

// Keys.
const (
	KeyPreset    = "preset"
	KeyThreshold = "threshold"
	KeyMode      = "mode"
	KeyLoopMin   = "loop_min"
	KeyLoopMax   = "loop_max"
	KeyBulgeMax  = "bulge_max"
	KeyMaxPrefix = "max_prefix"
	KeyRemap     = "remap"
	KeyMFEColumn = "mfe_column"
	KeyIDKey     = "id_key"

	KeyThreads         = "threads"
	KeyOut             = "out"
	KeyFormat          = "format"
	KeyNoHeader        = "no_header"
	KeyOneBased        = "one_based"
	KeyLogFile         = "log_file"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyQuiet           = "quiet"
	KeyNoMatchExitCode = "no_match_exit_code"
)

// Preset names.
const (
	PresetClassic  = "classic"
	PresetExtended = "extended"
)

// Presets hold the scan defaults of each named variant.
var Presets = map[string]map[string]any{
	PresetClassic: {
		KeyThreshold: 30,
		KeyMode:      "count",
		KeyLoopMin:   3,
		KeyLoopMax:   0,
		KeyBulgeMax:  2,
		KeyMaxPrefix: 126,
		KeyRemap:     "span",
		KeyMFEColumn: false,
		KeyIDKey:     "geneID",
	},
	PresetExtended: {
		KeyThreshold: 40,
		KeyMode:      "length",
		KeyLoopMin:   3,
		KeyLoopMax:   12,
		KeyBulgeMax:  2,
		KeyMaxPrefix: 0,
		KeyRemap:     "locate",
		KeyMFEColumn: true,
		KeyIDKey:     "geneID",
	},
}

// PresetNames returns the known presets, sorted.
func PresetNames() []string {
	out := make([]string, 0, len(Presets))
	for k := range Presets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Config is the fully resolved run configuration.
type Config struct {
	Preset    string
	Hairpin   hairpin.Config
	MaxPrefix int
	Remap     engine.RemapMode
	MFEColumn bool
	IDKey     string

	Threads  int // 0 = all CPUs
	Out      string
	Format   string
	NoHeader bool
	OneBased bool

	LogFile   string
	LogLevel  logrus.Level
	LogFormat string // "text" | "json"
	Quiet     bool

	NoMatchExitCode int
}

// Engine returns the engine settings.
func (c Config) Engine() engine.Config {
	return engine.Config{Hairpin: c.Hairpin, MaxPrefix: c.MaxPrefix, Remap: c.Remap}
}

// OutputOptions returns the row rendering settings.
func (c Config) OutputOptions() output.Options {
	return output.Options{Header: !c.NoHeader, OneBased: c.OneBased, MFE: c.MFEColumn}
}

// New returns a viper instance with the env binding and the non-preset
// defaults in place.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyPreset, PresetClassic)
	v.SetDefault(KeyThreads, 1)
	v.SetDefault(KeyOut, "-")
	v.SetDefault(KeyFormat, "")
	v.SetDefault(KeyNoHeader, false)
	v.SetDefault(KeyOneBased, false)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyQuiet, false)
	v.SetDefault(KeyNoMatchExitCode, 0)
	return v
}

// Load reads file (when non-empty) into v, applies the selected preset as
// defaults and resolves everything into a validated Config.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	name := strings.ToLower(strings.TrimSpace(v.GetString(KeyPreset)))
	preset, ok := Presets[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown preset %q (want one of %s)", name, strings.Join(PresetNames(), ", "))
	}
	for k, val := range preset {
		v.SetDefault(k, val)
	}
	return resolve(v, name)
}

func resolve(v *viper.Viper, preset string) (Config, error) {
	mode, err := hairpin.ParseMode(v.GetString(KeyMode))
	if err != nil {
		return Config{}, err
	}
	remap, err := engine.ParseRemap(v.GetString(KeyRemap))
	if err != nil {
		return Config{}, err
	}

	c := Config{
		Preset: preset,
		Hairpin: hairpin.Config{
			LoopMin:   v.GetInt(KeyLoopMin),
			LoopMax:   v.GetInt(KeyLoopMax),
			BulgeMax:  v.GetInt(KeyBulgeMax),
			Threshold: v.GetInt(KeyThreshold),
			Mode:      mode,
		},
		MaxPrefix:       v.GetInt(KeyMaxPrefix),
		Remap:           remap,
		MFEColumn:       v.GetBool(KeyMFEColumn),
		IDKey:           v.GetString(KeyIDKey),
		Threads:         v.GetInt(KeyThreads),
		Out:             v.GetString(KeyOut),
		Format:          strings.ToLower(v.GetString(KeyFormat)),
		NoHeader:        v.GetBool(KeyNoHeader),
		OneBased:        v.GetBool(KeyOneBased),
		LogFile:         v.GetString(KeyLogFile),
		LogFormat:       strings.ToLower(v.GetString(KeyLogFormat)),
		Quiet:           v.GetBool(KeyQuiet),
		NoMatchExitCode: v.GetInt(KeyNoMatchExitCode),
	}
	if err := c.Hairpin.Validate(); err != nil {
		return Config{}, err
	}

	if c.Out == "" {
		c.Out = "-"
	}
	if c.Format == "" {
		c.Format = output.InferFormat(c.Out)
	}
	if !writers.Supported(c.Format) {
		return Config{}, fmt.Errorf("unknown format %q (want one of %s)", c.Format, strings.Join(writers.Formats(), ", "))
	}

	// The trace goes to the log file at debug; stderr only gets warnings.
	level := v.GetString(KeyLogLevel)
	switch {
	case level != "":
	case c.LogFile != "":
		level = "debug"
	default:
		level = "warn"
	}
	if c.LogLevel, err = logrus.ParseLevel(level); err != nil {
		return Config{}, fmt.Errorf("invalid log level: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return Config{}, fmt.Errorf("invalid log format %q (want text or json)", c.LogFormat)
	}

	switch {
	case c.Threads < 0:
		return Config{}, fmt.Errorf("threads must be >= 0 (got %d)", c.Threads)
	case c.MaxPrefix < 0:
		return Config{}, fmt.Errorf("max_prefix must be >= 0 (got %d)", c.MaxPrefix)
	case c.NoMatchExitCode < 0 || c.NoMatchExitCode > 255:
		return Config{}, fmt.Errorf("no_match_exit_code must be in 0..255 (got %d)", c.NoMatchExitCode)
	}
	return c, nil
}

// Settings returns c keyed by config key, in the shape Load reads back.
func (c Config) Settings() map[string]any {
	return map[string]any{
		KeyPreset:          c.Preset,
		KeyThreshold:       c.Hairpin.Threshold,
		KeyMode:            c.Hairpin.Mode.String(),
		KeyLoopMin:         c.Hairpin.LoopMin,
		KeyLoopMax:         c.Hairpin.LoopMax,
		KeyBulgeMax:        c.Hairpin.BulgeMax,
		KeyMaxPrefix:       c.MaxPrefix,
		KeyRemap:           c.Remap.String(),
		KeyMFEColumn:       c.MFEColumn,
		KeyIDKey:           c.IDKey,
		KeyThreads:         c.Threads,
		KeyOut:             c.Out,
		KeyFormat:          c.Format,
		KeyNoHeader:        c.NoHeader,
		KeyOneBased:        c.OneBased,
		KeyLogFile:         c.LogFile,
		KeyLogLevel:        c.LogLevel.String(),
		KeyLogFormat:       c.LogFormat,
		KeyQuiet:           c.Quiet,
		KeyNoMatchExitCode: c.NoMatchExitCode,
	}
}

// WriteYAML writes the resolved settings as a config file.
func WriteYAML(w io.Writer, c Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c.Settings()); err != nil {
		return err
	}
	return enc.Close()
}
