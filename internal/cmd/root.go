// Package cmd implements the palace CLI.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paladinnu/paladinspalace/internal/config"
	"github.com/Paladinnu/paladinspalace/internal/observability"
)

var (
	cfgFile string
	verbose bool

	// Version info set by the main package via ldflags.
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by the main package before Execute.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var rootCmd = &cobra.Command{
	Use:   "palace",
	Short: "Private marketplace core service",
	Long: `Paladin's Palace marketplace core: listing search and publishing,
audit trail, and rate limiting, served over HTTP or driven from the CLI.

Use the subcommands to perform specific operations.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() {
		observability.InitCLILogger(verbose)
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./palace.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}
