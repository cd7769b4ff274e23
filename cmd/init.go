package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"routegen.dev/pkg/routegen/internal/domain"
	m "routegen.dev/pkg/routegen/internal/model"
)

const forceFlagName = "force"

const configFileHeader = `# routegen configuration. Values can be overridden with ROUTEGEN_* environment
# variables (dots become underscores) or command flags.
`

var forceFlag bool

// configDocument is the layout of routegen.yaml.
type configDocument struct {
	Version     int            `yaml:"version"`
	ManifestDir string         `yaml:"manifest_dir,omitempty"`
	Output      string         `yaml:"output,omitempty"`
	Debug       bool           `yaml:"debug"`
	Scan        scanDocument   `yaml:"scan"`
	Emit        emitDocument   `yaml:"emit"`
	Watch       watchDocument  `yaml:"watch"`
	Log         loggerDocument `yaml:"log"`
}

type scanDocument struct {
	Patterns            []string `yaml:"patterns"`
	Parallel            int      `yaml:"parallel"`
	MaxFileSize         int64    `yaml:"max_file_size"`
	Strict              bool     `yaml:"strict"`
	DoubleModuleSegment bool     `yaml:"double_module_segment"`
	GeneratorCrate      string   `yaml:"generator_crate"`
}

type emitDocument struct {
	Framework       string `yaml:"framework"`
	MarkerNamespace string `yaml:"marker_namespace"`
}

type watchDocument struct {
	Debounce string `yaml:"debounce"`
}

type loggerDocument struct {
	Filename   string `yaml:"filename"`
	Level      int    `yaml:"level"`
	Verbose    bool   `yaml:"verbose"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// effectiveConfig collects the current settings from defaults, the
// environment and flags.
func effectiveConfig() configDocument {
	return configDocument{
		Version:     currentConfigVersion,
		ManifestDir: viper.GetString(manifestDirConfigKey),
		Output:      viper.GetString(outputConfigKey),
		Debug:       viper.GetBool(debugConfigKey),
		Scan: scanDocument{
			Patterns:            viper.GetStringSlice(patternsConfigKey),
			Parallel:            viper.GetInt(parallelConfigKey),
			MaxFileSize:         viper.GetInt64(maxFileSizeConfigKey),
			Strict:              viper.GetBool(strictConfigKey),
			DoubleModuleSegment: viper.GetBool(doubleSegmentConfigKey),
			GeneratorCrate:      viper.GetString(generatorCrateConfigKey),
		},
		Emit: emitDocument{
			Framework:       viper.GetString(frameworkConfigKey),
			MarkerNamespace: viper.GetString(markerNamespaceConfigKey),
		},
		Watch: watchDocument{
			Debounce: viper.GetDuration(watchDebounceConfigKey).String(),
		},
		Log: loggerDocument{
			Filename:   viper.GetString(logFilenameKey),
			Level:      viper.GetInt(logLevelKey),
			Verbose:    viper.GetBool(logVerboseKey),
			MaxSize:    viper.GetInt(logMaxSizeKey),
			MaxBackups: viper.GetInt(logMaxBackupsKey),
			MaxAge:     viper.GetInt(logMaxAgeKey),
			Compress:   viper.GetBool(logCompressKey),
		},
	}
}

// validate rejects settings that would make every later run fail.
func (d configDocument) validate() error {
	var errs []error

	if _, err := domain.BuildScanRules(d.Scan.Patterns, domain.RuleOptions{
		GeneratorCrate: d.Scan.GeneratorCrate,
		MaxFileSize:    d.Scan.MaxFileSize,
	}); err != nil {
		errs = append(errs, fmt.Errorf("scan.patterns: %w", err))
	}

	if d.Scan.Parallel < 1 {
		errs = append(errs, fmt.Errorf("scan.parallel must be at least 1, got %d", d.Scan.Parallel))
	}

	if d.Emit.Framework == "" {
		errs = append(errs, errors.New("emit.framework must not be empty"))
	}

	return errors.Join(errs...)
}

func (d configDocument) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(configFileHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(d); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a routegen.yaml with the current settings",
		Long: `Create a routegen.yaml in the current working directory populated with the
effective settings (defaults, environment and flags) so it can be edited by hand.
Settings that no generation could run with are rejected before anything is written.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			targetPath := m.Path(filepath.Join(configFolderPath, configFileName))

			if !forceFlag {
				if _, err := fsAdapter.FileInfo(ctx, targetPath); err == nil {
					return fmt.Errorf("failed to write config file: %s already exists (use --%s to overwrite)", targetPath, forceFlagName)
				} else if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("failed to write config file: %w", err)
				}
			}

			doc := effectiveConfig()
			if err := doc.validate(); err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}

			content, err := doc.encode()
			if err != nil {
				return fmt.Errorf("failed to encode config file: %w", err)
			}

			if err := fsAdapter.WriteFile(ctx, targetPath, content, 0o644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Printf("Wrote %s\n", targetPath)

			return nil
		},
	}

	cmd.Flags().BoolVar(&forceFlag, forceFlagName, false, "overwrite an existing routegen.yaml")

	return cmd
}

func init() {
	rootCmd.AddCommand(initCmd)
}
