package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cityfix/cityfix-go/cmd/admin"
	"github.com/cityfix/cityfix-go/cmd/serve"
	"github.com/cityfix/cityfix-go/cmd/stats"
	"github.com/cityfix/cityfix-go/cmd/submit"
	"github.com/cityfix/cityfix-go/cmd/track"
	"github.com/cityfix/cityfix-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cityfix",
		Short: "CityFix-Go civic issue reporting CLI",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	subcommands := []*cobra.Command{
		serve.Command(settings),
		submit.Command(settings),
		track.Command(settings),
		stats.Command(settings),
		admin.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Main.Debug, "debug", "d", viper.GetBool("main.debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Main.DataDir, "datadir", viper.GetString("main.datadir"), "Directory for durable report data")
	rootCmd.PersistentFlags().StringVar(&settings.Store.Backend, "store", viper.GetString("store.backend"), "Store backend: jsonfile or sqlite")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
