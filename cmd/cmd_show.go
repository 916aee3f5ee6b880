// cmd_show.go - Show Command
// Hauptfunktionen: ShowHandler, showInfo
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/7blacky7/aeforge/api"
	"github.com/7blacky7/aeforge/building"
	"github.com/7blacky7/aeforge/server"
	"github.com/7blacky7/aeforge/types/modeltype"
)

// ShowHandler - Baut eine Variante und zeigt Netzwerke, Bottleneck und Pipeline
func ShowHandler(cmd *cobra.Command, args []string) error {
	latentDim, err := cmd.Flags().GetInt("latent-dim")
	if err != nil {
		return err
	}

	shapeFlag, err := cmd.Flags().GetString("input-shape")
	if err != nil {
		return err
	}

	shape, err := building.ParseInputShape(shapeFlag)
	if err != nil {
		return err
	}

	var resp api.BuildResponse
	if remote, _ := cmd.Flags().GetBool("remote"); remote {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return err
		}

		r, err := client.Build(cmd.Context(), &api.BuildRequest{
			ModelType:  args[0],
			LatentDim:  latentDim,
			InputShape: shape[:],
		})
		if err != nil {
			return err
		}
		resp = *r
	} else {
		a, err := building.Build(modeltype.Parse(args[0]), latentDim, shape, dataOptions(cmd)...)
		if err != nil {
			return err
		}
		resp = server.Describe(a)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	showInfo(&resp, cmd.OutOrStdout())
	return nil
}

// showInfo - Gibt die Build-Beschreibung als Tabellen aus
func showInfo(resp *api.BuildResponse, w io.Writer) {
	tableRender := func(header string, rows func() [][]string) {
		fmt.Fprintln(w, " ", header)
		table := tablewriter.NewWriter(w)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetAutoWrapText(false)
		table.SetBorder(false)
		table.SetNoWhiteSpace(true)
		table.SetTablePadding("    ")

		for _, row := range rows() {
			table.Append(append([]string{""}, row...))
		}

		table.Render()
		fmt.Fprintln(w)
	}

	tableRender("Variant", func() [][]string {
		return [][]string{
			{"model type", resp.Variant.ModelType},
			{"network", resp.Variant.Network},
			{"bottleneck", resp.Variant.Bottleneck},
			{"params", formatParams(resp.Variant.Params)},
			{"variational", fmt.Sprint(resp.Variant.Variational)},
		}
	})

	tableRender("Networks", func() [][]string {
		return [][]string{
			{"latent dim", fmt.Sprint(resp.LatentDim)},
			{"input shape", joinInts(resp.InputShape, ",")},
			{"encoder", joinInts(resp.EncoderWidths, " -> ")},
			{"decoder", joinInts(resp.DecoderWidths, " -> ")},
		}
	})

	tableRender("Data", func() [][]string {
		return [][]string{
			{"data dir", resp.DataModule.DataDir},
			{"noise", fmt.Sprint(resp.DataModule.ApplyNoise)},
			{"batch size", fmt.Sprint(resp.DataModule.BatchSize)},
			{"workers", fmt.Sprint(resp.DataModule.NumWorkers)},
			{"dims", joinInts(resp.DataModule.Dims, "x")},
		}
	})

	fmt.Fprintln(w, "  build", resp.ID)
}

func joinInts(v []int, sep string) string {
	s := make([]string, len(v))
	for i, n := range v {
		s[i] = fmt.Sprint(n)
	}
	return strings.Join(s, sep)
}

// newShowCmd - Erstellt den show Command
func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show MODEL_TYPE",
		Short: "Build a variant and show its components",
		Args:  cobra.ExactArgs(1),
		RunE:  ShowHandler,
	}
	cmd.Flags().Int("latent-dim", 32, "Requested latent dimension")
	cmd.Flags().String("input-shape", building.MNISTShape.String(), "Input shape as C,H,W")
	cmd.Flags().Bool("json", false, "Print the description as JSON")
	cmd.Flags().Bool("remote", false, "Build on the running server")
	cmd.Flags().String("data-dir", "", "Dataset directory (default $AEFORGE_DATA)")
	return cmd
}
