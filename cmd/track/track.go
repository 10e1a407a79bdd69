// Package track implements the report lookup subcommand.
package track

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cityfix/cityfix-go/internal/app"
	"github.com/cityfix/cityfix-go/internal/conf"
)

// Command creates the track command, which looks up a report by its
// tracking code.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "track <code>",
		Short: "Look up a report by tracking code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(settings, args[0])
		},
	}
}

func runTrack(settings *conf.Settings, code string) error {
	application, err := app.New(settings)
	if err != nil {
		return err
	}
	defer application.Close()

	r, err := application.Store.FindByQueryNumber(code)
	if err != nil {
		return err
	}

	fmt.Printf("Tracking code: %s\n", r.QueryNumber)
	fmt.Printf("Title:         %s\n", r.Title)
	fmt.Printf("Status:        %s\n", r.Status)
	fmt.Printf("Location:      %s\n", r.LocationText)
	fmt.Printf("Submitted:     %s\n", r.Timestamp.Format("2006-01-02 15:04:05"))
	if r.AdminNotes != "" {
		fmt.Printf("Notes:         %s\n", r.AdminNotes)
	}
	return nil
}
