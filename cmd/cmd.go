// Package cmd - CLI Hauptmodul
// Enthaelt: NewCLI, appendEnvDocs, versionHandler
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/7blacky7/aeforge/api"
	"github.com/7blacky7/aeforge/envconfig"
	"github.com/7blacky7/aeforge/logutil"
	"github.com/7blacky7/aeforge/version"
)

// appendEnvDocs - Fuegt Environment-Variablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "aeforge",
		Short:         "Autoencoder variant harness",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))
		},
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				versionHandler(cmd, args)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	listCmd := newListCmd()
	showCmd := newShowCmd()
	prepareCmd := newPrepareCmd()
	evalCmd := newEvalCmd()
	serveCmd := newServeCmd()

	envVars := envconfig.AsMap()

	dataEnvs := []envconfig.EnvVar{
		envVars["AEFORGE_DEBUG"],
		envVars["AEFORGE_DATA"],
		envVars["AEFORGE_MNIST_MIRROR"],
		envVars["AEFORGE_DOWNLOAD_TIMEOUT"],
		envVars["AEFORGE_OFFLINE"],
	}

	for _, cmd := range []*cobra.Command{listCmd, showCmd, prepareCmd, evalCmd, serveCmd} {
		switch cmd {
		case prepareCmd:
			appendEnvDocs(cmd, dataEnvs)
		case evalCmd:
			appendEnvDocs(cmd, append(dataEnvs,
				envVars["AEFORGE_BATCH_SIZE"],
				envVars["AEFORGE_NUM_WORKERS"],
			))
		case serveCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["AEFORGE_DEBUG"],
				envVars["AEFORGE_HOST"],
				envVars["AEFORGE_ORIGINS"],
				envVars["AEFORGE_DATA"],
				envVars["AEFORGE_BATCH_SIZE"],
				envVars["AEFORGE_NUM_WORKERS"],
			})
		default:
			appendEnvDocs(cmd, []envconfig.EnvVar{envVars["AEFORGE_HOST"]})
		}
	}

	rootCmd.AddCommand(
		serveCmd,
		listCmd,
		showCmd,
		prepareCmd,
		evalCmd,
	)

	return rootCmd
}

// versionHandler - Zeigt Client- und Server-Version
func versionHandler(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return
	}

	serverVersion, err := client.Version(cmd.Context())
	if err != nil {
		fmt.Fprintln(out, "Warning: could not connect to a running aeforge instance")
	}

	if serverVersion != "" {
		fmt.Fprintf(out, "aeforge version is %s\n", serverVersion)
	}

	if serverVersion != version.Version {
		fmt.Fprintf(out, "Warning: client version is %s\n", version.Version)
	}
}
