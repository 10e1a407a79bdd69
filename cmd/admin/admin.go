// Package admin implements administrative subcommands for managing
// report statuses.
package admin

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cityfix/cityfix-go/internal/app"
	"github.com/cityfix/cityfix-go/internal/conf"
	"github.com/cityfix/cityfix-go/internal/errors"
	"github.com/cityfix/cityfix-go/internal/imagenorm"
	"github.com/cityfix/cityfix-go/internal/report"
)

// Command creates the admin command group.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative report management",
	}

	cmd.AddCommand(loginCommand(settings))
	cmd.AddCommand(logoutCommand(settings))
	cmd.AddCommand(updateCommand(settings))

	return cmd
}

func loginCommand(settings *conf.Settings) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start an admin session",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(settings)
			if err != nil {
				return err
			}
			defer application.Close()

			if err := application.Gate.Login(password); err != nil {
				return err
			}
			fmt.Println("Admin session started.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password")
	if err := cmd.MarkFlagRequired("password"); err != nil {
		panic(err)
	}

	return cmd
}

func logoutCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the admin session",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(settings)
			if err != nil {
				return err
			}
			defer application.Close()

			if err := application.Gate.Logout(); err != nil {
				return err
			}
			fmt.Println("Admin session ended.")
			return nil
		},
	}
}

func updateCommand(settings *conf.Settings) *cobra.Command {
	var (
		status    string
		notes     string
		imagePath string
	)

	cmd := &cobra.Command{
		Use:   "update <report-id>",
		Short: "Update a report's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(settings, args[0], status, notes, imagePath)
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "New status (Pending, In Progress, Resolved)")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Admin notes to attach")
	cmd.Flags().StringVar(&imagePath, "resolution-image", "", "Path to a photo of the resolved issue")
	if err := cmd.MarkFlagRequired("status"); err != nil {
		panic(err)
	}

	return cmd
}

func runUpdate(settings *conf.Settings, id, status, notes, imagePath string) error {
	application, err := app.New(settings)
	if err != nil {
		return err
	}
	defer application.Close()

	if !application.Gate.Active() {
		return errors.Newf("admin session required, run 'cityfix admin login' first").
			Category(errors.CategoryValidation).
			Component("admin").
			Build()
	}

	resolutionImage := ""
	if imagePath != "" {
		img, err := imagenorm.NormalizeFile(imagePath)
		if err != nil {
			return err
		}
		resolutionImage = img.DataURL()
	}

	updated, err := application.Store.UpdateStatus(id, report.Status(status), notes, resolutionImage)
	if err != nil {
		return err
	}

	fmt.Printf("Report %s updated.\n", updated.QueryNumber)
	fmt.Printf("  Status: %s\n", updated.Status)
	if updated.AdminNotes != "" {
		fmt.Printf("  Notes:  %s\n", updated.AdminNotes)
	}
	return nil
}
