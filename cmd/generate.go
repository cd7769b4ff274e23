package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "routegen.dev/pkg/routegen/internal/model"
)

// ErrStaleOutput is returned by generate --check when the output file differs
// from freshly generated code.
var ErrStaleOutput = errors.New("generated routes are out of date")

var outFlag string
var checkFlag bool
var strictFlag bool
var debugFlag bool
var parallelFlag int
var maxFileSizeFlag int64
var noDoubleFlag bool

// generateCmd represents the generate command.
var generateCmd = newGenerateCmd()

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [patterns...]",
		Short: "Generate route registration code",
		Long:  generateLongDescription,
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindScanFlags(cmd)
			bindFlagToConfig(cmd.Flags().Lookup(outFlagName), outputConfigKey)
			bindFlagToConfig(cmd.Flags().Lookup(debugFlagName), debugConfigKey)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			genArgs := generateArgs(cmd, args)
			output := m.Path(viper.GetString(outputConfigKey))

			if checkFlag && output == "" {
				return fmt.Errorf("--%s requires --%s", checkFlagName, outFlagName)
			}

			cmd.SilenceUsage = true

			if checkFlag {
				diff, err := workflow.Check(ctx, genArgs, output)
				if err != nil {
					return err
				}

				if diff != "" {
					return fmt.Errorf("%w: %s", ErrStaleOutput, output)
				}

				return nil
			}

			genArgs.Output = output

			result, err := workflow.Generate(ctx, genArgs)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), result.Code)
				return err
			}

			return nil
		},
	}

	configureScanFlags(cmd)

	cmd.Flags().StringVarP(&outFlag, outFlagName, "o", viper.GetString(outputConfigKey), "file receiving the generated code (default: stdout)")
	cmd.Flags().BoolVar(&checkFlag, checkFlagName, false, "fail and print a diff when --out is out of date instead of writing it")
	cmd.Flags().BoolVar(&debugFlag, debugFlagName, viper.GetBool(debugConfigKey), "print the generated code to stderr")

	return cmd
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

// configureScanFlags registers the discovery flags shared by generate, list and watch.
func configureScanFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&strictFlag, strictFlagName, viper.GetBool(strictConfigKey), "treat every unreadable or unparsable file and duplicate handler as fatal")
	cmd.Flags().IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of files parsed in parallel")
	cmd.Flags().Int64Var(&maxFileSizeFlag, maxFileSizeFlagName, viper.GetInt64(maxFileSizeConfigKey), "skip source files larger than this many bytes")
	cmd.Flags().BoolVar(&noDoubleFlag, noDoubleFlagName, false, "collapse a module declared inside a file of the same name into one segment")
}

// bindScanFlags binds the shared discovery flags of the running command.
// Binding happens at run time because several commands own flags with the
// same key.
func bindScanFlags(cmd *cobra.Command) {
	bindFlagToConfig(cmd.Flags().Lookup(strictFlagName), strictConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(maxFileSizeFlagName), maxFileSizeConfigKey)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
