// cmd_data.go - Prepare und Eval Commands
// Hauptfunktionen: PrepareHandler, EvalHandler
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/7blacky7/aeforge/building"
	"github.com/7blacky7/aeforge/data"
	"github.com/7blacky7/aeforge/model"
	"github.com/7blacky7/aeforge/types/modeltype"
)

// dataOptions - Build-Optionen aus den gemeinsamen Flags
func dataOptions(cmd *cobra.Command) []building.Option {
	var opts []building.Option
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		opts = append(opts, building.WithDataDir(dir))
	}
	return opts
}

// PrepareHandler - Laedt die MNIST-Archive ins Datenverzeichnis
func PrepareHandler(cmd *cobra.Command, _ []string) error {
	dm, err := building.BuildDataModule(modeltype.Vanilla, dataOptions(cmd)...)
	if err != nil {
		return err
	}

	if err := dm.Prepare(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "MNIST ready in %s\n", data.RawDir(dm.DataDir()))
	return nil
}

// EvalHandler - Wertet einen ungelernten Autoencoder auf einem Split aus
func EvalHandler(cmd *cobra.Command, args []string) error {
	latentDim, err := cmd.Flags().GetInt("latent-dim")
	if err != nil {
		return err
	}

	batches, err := cmd.Flags().GetInt("batches")
	if err != nil {
		return err
	}

	splitFlag, err := cmd.Flags().GetString("split")
	if err != nil {
		return err
	}

	a, err := building.Build(modeltype.Parse(args[0]), latentDim, building.MNISTShape, dataOptions(cmd)...)
	if err != nil {
		return err
	}

	dm := a.DataModule
	if err := dm.Prepare(cmd.Context()); err != nil {
		return err
	}

	var loader *data.Loader
	switch splitFlag {
	case "train", "val":
		if err := dm.Setup(data.StageFit); err != nil {
			return err
		}
		if splitFlag == "train" {
			loader, err = dm.TrainLoader()
		} else {
			loader, err = dm.ValLoader()
		}
	case "test":
		if err := dm.Setup(data.StageTest); err != nil {
			return err
		}
		loader, err = dm.TestLoader()
	default:
		return fmt.Errorf("unknown split %q, expected train, val or test", splitFlag)
	}
	if err != nil {
		return err
	}

	report, err := model.Evaluate(cmd.Context(), model.FromArtifacts(a), loader, batches)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "model type     %s\n", a.ModelType())
	fmt.Fprintf(out, "split          %s\n", splitFlag)
	fmt.Fprintf(out, "batches        %d\n", report.Batches)
	fmt.Fprintf(out, "samples        %d\n", report.Samples)
	fmt.Fprintf(out, "recon loss     %.6f\n", report.ReconLoss)
	fmt.Fprintf(out, "reg loss       %.6f\n", report.RegLoss)
	fmt.Fprintf(out, "total loss     %.6f\n", report.Loss())
	return nil
}

// newPrepareCmd - Erstellt den prepare Command
func newPrepareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Download the MNIST archives",
		Args:  cobra.ExactArgs(0),
		RunE:  PrepareHandler,
	}
	cmd.Flags().String("data-dir", "", "Dataset directory (default $AEFORGE_DATA)")
	return cmd
}

// newEvalCmd - Erstellt den eval Command
func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval MODEL_TYPE",
		Short: "Evaluate an untrained autoencoder on MNIST",
		Args:  cobra.ExactArgs(1),
		RunE:  EvalHandler,
	}
	cmd.Flags().Int("latent-dim", 32, "Requested latent dimension")
	cmd.Flags().Int("batches", 10, "Number of batches to evaluate (0 = all)")
	cmd.Flags().String("split", "test", "Split to evaluate: train, val or test")
	cmd.Flags().String("data-dir", "", "Dataset directory (default $AEFORGE_DATA)")
	return cmd
}
