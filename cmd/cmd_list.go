// cmd_list.go - List Command
// Hauptfunktionen: ListHandler
package cmd

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/7blacky7/aeforge/api"
	"github.com/7blacky7/aeforge/building"
	"github.com/7blacky7/aeforge/server"
)

// ListHandler - Listet alle Varianten in kanonischer Reihenfolge.
// Mit --remote wird der laufende Server gefragt.
func ListHandler(cmd *cobra.Command, args []string) error {
	var variants []api.VariantInfo

	if remote, _ := cmd.Flags().GetBool("remote"); remote {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return err
		}

		resp, err := client.Variants(cmd.Context())
		if err != nil {
			return err
		}
		variants = resp.Variants
	} else {
		for _, v := range building.Variants() {
			variants = append(variants, server.DescribeVariant(v))
		}
	}

	var data [][]string
	for _, v := range variants {
		if len(args) == 0 || strings.HasPrefix(v.ModelType, strings.ToLower(args[0])) {
			data = append(data, []string{
				v.ModelType,
				v.Network,
				v.Bottleneck,
				formatParams(v.Params),
				fmt.Sprint(v.Noise),
			})
		}
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"MODEL TYPE", "NETWORK", "BOTTLENECK", "PARAMS", "NOISE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}

// formatParams - Hyperparameter als "key=value" Liste, "-" wenn leer
func formatParams(p api.BottleneckParams) string {
	var parts []string
	if p.Beta != 0 {
		parts = append(parts, fmt.Sprintf("beta=%g", p.Beta))
	}
	if p.Sparsity != 0 {
		parts = append(parts, fmt.Sprintf("sparsity=%g", p.Sparsity))
	}
	if p.LatentDim != 0 {
		parts = append(parts, fmt.Sprintf("latent_dim=%d", p.LatentDim))
	}
	if p.NumCategories != 0 {
		parts = append(parts, fmt.Sprintf("num_categories=%d", p.NumCategories))
	}

	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// newListCmd - Erstellt den list Command
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [PREFIX]",
		Aliases: []string{"ls"},
		Short:   "List autoencoder variants",
		Args:    cobra.MaximumNArgs(1),
		RunE:    ListHandler,
	}
	cmd.Flags().Bool("remote", false, "Ask the running server instead of the local table")
	return cmd
}
