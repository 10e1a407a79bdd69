// Package submit implements the report submission subcommand.
package submit

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cityfix/cityfix-go/internal/app"
	"github.com/cityfix/cityfix-go/internal/conf"
	"github.com/cityfix/cityfix-go/internal/datastore"
	"github.com/cityfix/cityfix-go/internal/geocode"
	"github.com/cityfix/cityfix-go/internal/imagenorm"
	"github.com/cityfix/cityfix-go/internal/report"
)

// Command creates the submit command, which files a new report from the
// command line.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		title       string
		description string
		location    string
		photoPath   string
		lat, lon    float64
		hasCoords   bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new issue report",
		RunE: func(cmd *cobra.Command, args []string) error {
			hasCoords = cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon")
			return runSubmit(settings, title, description, location, photoPath, lat, lon, hasCoords)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Issue title (one of the known issue types)")
	cmd.Flags().StringVarP(&description, "description", "m", "", "Description of the issue")
	cmd.Flags().StringVarP(&location, "location", "l", "", "Location text (resolved from coordinates when empty)")
	cmd.Flags().StringVar(&photoPath, "photo", "", "Path to a photo of the issue")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude of the issue")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude of the issue")

	return cmd
}

func runSubmit(settings *conf.Settings, title, description, location, photoPath string, lat, lon float64, hasCoords bool) error {
	application, err := app.New(settings)
	if err != nil {
		return err
	}
	defer application.Close()

	reporterID, err := datastore.EnsureReporterID(application.DS)
	if err != nil {
		return err
	}

	draft := report.Draft{
		Title:        title,
		Description:  description,
		LocationText: location,
		ReporterID:   reporterID,
	}

	if hasCoords {
		draft.Coordinates = &report.Coordinates{Latitude: lat, Longitude: lon}
		if draft.LocationText == "" {
			if application.Geocoder != nil {
				draft.LocationText = application.Geocoder.ResolveLocation(context.Background(), lat, lon)
			} else {
				draft.LocationText = geocode.FallbackCoordinates(lat, lon)
			}
		}
	}

	if photoPath != "" {
		img, err := imagenorm.NormalizeFile(photoPath)
		if err != nil {
			return err
		}
		draft.PhotoURL = img.DataURL()
	}

	created, err := application.Store.Create(draft)
	if err != nil {
		return err
	}

	fmt.Printf("Report submitted.\n")
	fmt.Printf("  Tracking code: %s\n", created.QueryNumber)
	fmt.Printf("  Status:        %s\n", created.Status)
	fmt.Printf("  Location:      %s\n", created.LocationText)
	return nil
}
