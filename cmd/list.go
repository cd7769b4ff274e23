package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"routegen.dev/pkg/routegen/internal/controller"
	m "routegen.dev/pkg/routegen/internal/model"
)

const (
	formatTable = "table"
	formatYAML  = "yaml"
)

var formatFlag string
var noTUIFlag bool

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [patterns...]",
		Short: "List discovered routes",
		Long:  listLongDescription,
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindScanFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if formatFlag != formatTable && formatFlag != formatYAML {
				return fmt.Errorf("unsupported --%s %q (want %s or %s)", formatFlagName, formatFlag, formatTable, formatYAML)
			}

			cmd.SilenceUsage = true
			ctx := commandContext(cmd)

			routes, err := workflow.Routes(ctx, generateArgs(cmd, args))
			if err != nil {
				return err
			}

			if formatFlag == formatYAML {
				return writeRoutesYAML(cmd, routes)
			}

			listUI := controller.NewUI(cmd, !noTUIFlag && controller.IsTTY(os.Stdout))
			if err := listUI.Start(ctx, controller.WithListMode()); err != nil {
				return err
			}
			defer listUI.Close(ctx)

			if err := listUI.DisplayRoutes(ctx, routes); err != nil {
				return err
			}

			listUI.Wait(ctx)

			return nil
		},
	}

	configureScanFlags(cmd)

	cmd.Flags().StringVarP(&formatFlag, formatFlagName, "f", formatTable, "output format: table or yaml")
	cmd.Flags().BoolVar(&noTUIFlag, noTUIFlagName, false, "print a plain table even on a terminal")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func writeRoutesYAML(cmd *cobra.Command, routes []m.RouteSummary) error {
	if routes == nil {
		routes = []m.RouteSummary{}
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)

	if err := enc.Encode(routes); err != nil {
		return fmt.Errorf("encode routes: %w", err)
	}

	return enc.Close()
}
