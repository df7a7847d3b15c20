package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fjglira/storeflow/internal/runner"
	"github.com/fjglira/storeflow/internal/suite"
)

var (
	listKinds bool
	listOps   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the scenarios that run would execute",
	Long: `Lists every scenario found in the input directories with its source
location. With --kinds or --ops it prints the built-in catalog instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		catalog := runner.Catalog{}

		if listKinds {
			for _, kind := range catalog.Kinds() {
				steps, _ := catalog.Steps(kind)
				names := make([]string, len(steps))
				for i, st := range steps {
					names[i] = st.String()
				}
				fmt.Fprintf(out, "%s: %s\n", kind, strings.Join(names, ", "))
			}
			return nil
		}
		if listOps {
			for _, op := range catalog.Ops() {
				fmt.Fprintln(out, op)
			}
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		scenarios, err := suite.FromConfig(cfg, log).Load(cfg.Input.Directories)
		if err != nil {
			return err
		}
		scenarios = runFilter().Apply(scenarios)

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"ID", "Kind", "Steps", "Source"})
		table.SetAutoFormatHeaders(false)
		table.SetBorder(false)
		table.SetColumnSeparator("")
		table.SetAutoWrapText(false)
		for _, sc := range scenarios {
			kind := sc.Kind
			if kind == "" {
				kind = "-"
			}
			table.Append([]string{sc.ID, kind, strconv.Itoa(len(sc.Steps)), sc.Source})
		}
		table.Render()
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listKinds, "kinds", false, "list the predefined scenario kinds")
	listCmd.Flags().BoolVar(&listOps, "ops", false, "list the available operations")
	addFilterFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}
