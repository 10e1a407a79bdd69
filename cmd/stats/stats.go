// Package stats implements the statistics subcommand.
package stats

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cityfix/cityfix-go/internal/app"
	"github.com/cityfix/cityfix-go/internal/conf"
)

// Command creates the stats command, which prints aggregate report counts.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show report statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(settings)
		},
	}
}

func runStats(settings *conf.Settings) error {
	application, err := app.New(settings)
	if err != nil {
		return err
	}
	defer application.Close()

	s := application.Store.GetStatistics()

	fmt.Printf("Total reports:  %d\n", s.Total)
	fmt.Printf("Pending:        %d\n", s.Pending)
	fmt.Printf("In progress:    %d\n", s.InProgress)
	fmt.Printf("Resolved:       %d (%d%%)\n", s.Resolved, s.ResolvedPercentage)
	return nil
}
