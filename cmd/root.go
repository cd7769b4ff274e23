// Package cmd provides the root command and CLI setup for routegen.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"routegen.dev/pkg/routegen/internal/adapter"
	"routegen.dev/pkg/routegen/internal/controller"
	"routegen.dev/pkg/routegen/internal/domain"
	m "routegen.dev/pkg/routegen/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var manifestAdapter adapter.ManifestAdapter
var rustFileAdapter adapter.RustFileAdapter
var manifestReader domain.ManifestReader
var treeScanner domain.TreeScanner
var extractor domain.DeclarationExtractor
var emitter domain.CodeEmitter
var workflow domain.Workflow
var ui controller.UI

var manifestDirFlag string
var verboseFlag bool
var logFileFlag string

func init() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	configureRootFlags(rootCmd)

	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	manifestAdapter = adapter.NewTOMLManifestAdapter(fsAdapter)

	cached, err := adapter.NewCachedRustFileAdapter(adapter.NewTreeSitterRustAdapter(), adapter.DefaultParseCacheSize)
	cobra.CheckErr(err)

	rustFileAdapter = cached
	manifestReader = domain.NewManifestReader(fsAdapter, manifestAdapter)
	treeScanner = domain.NewTreeScanner(fsAdapter)
	extractor = domain.NewDeclarationExtractor(fsAdapter, rustFileAdapter)
	emitter = domain.NewCodeEmitter()
	workflow = domain.NewWorkflow(
		fsAdapter,
		ui,
		manifestReader,
		treeScanner,
		extractor,
		emitter,
	)
}

const patternsHelp = `Patterns are doublestar globs relative to each crate root (default: src/**/*.rs).
Prefix a pattern with ! to exclude matching files:
  - src/**/*.rs            every Rust file under src
  - src/handler/**         only the handler tree
  - '!src/**/tests.rs'     skip test modules`

const rootLongDescription = `routegen discovers actix-web handler functions in a Cargo workspace and
generates the Rust code that registers them, one scope per module.

Run it from a build script (CARGO_MANIFEST_DIR is picked up automatically)
or point it at a workspace with --manifest-dir.

` + patternsHelp

const generateLongDescription = `Scan the workspace for route handlers and emit the registration code to
stdout, or to the file named by --out.

` + patternsHelp

const listLongDescription = `List every discovered route with its handler, without emitting code.

` + patternsHelp

const watchLongDescription = `Regenerate the --out file whenever a Rust source or Cargo manifest changes.

` + patternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routegen",
		Short: "Route registration generator for actix-web workspaces",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

// newRootCmd builds a fresh root command with its persistent flags, so
// subcommands can be exercised in isolation.
func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&manifestDirFlag, manifestDirFlagName, viper.GetString(manifestDirConfigKey), "directory holding the root Cargo.toml (default: $CARGO_MANIFEST_DIR)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(manifestDirFlagName), manifestDirConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "path of the rotating log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// generateArgs assembles the workflow arguments from configuration and the
// positional patterns. Patterns given on the command line replace the
// configured ones.
func generateArgs(cmd *cobra.Command, patterns []string) domain.GenerateArgs {
	if len(patterns) == 0 {
		patterns = viper.GetStringSlice(patternsConfigKey)
	}

	double := viper.GetBool(doubleSegmentConfigKey)
	if flag := cmd.Flags().Lookup(noDoubleFlagName); flag != nil && flag.Changed {
		double = flag.Value.String() != "true"
	}

	threads := viper.GetInt(parallelConfigKey)
	if threads < 1 {
		threads = 1
	}

	return domain.GenerateArgs{
		ManifestDir:    m.Path(viper.GetString(manifestDirConfigKey)),
		Patterns:       patterns,
		Threads:        uint(threads),
		Strict:         viper.GetBool(strictConfigKey),
		Debug:          viper.GetBool(debugConfigKey),
		MaxFileSize:    viper.GetInt64(maxFileSizeConfigKey),
		GeneratorCrate: viper.GetString(generatorCrateConfigKey),
		Extract: domain.ExtractOptions{
			DoubleModuleSegment: double,
			MarkerNamespace:     viper.GetString(markerNamespaceConfigKey),
		},
		Emit: domain.EmitOptions{
			Framework: viper.GetString(frameworkConfigKey),
		},
	}
}
