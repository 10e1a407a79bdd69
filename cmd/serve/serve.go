// Package serve implements the HTTP server subcommand.
package serve

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cityfix/cityfix-go/internal/api"
	"github.com/cityfix/cityfix-go/internal/app"
	"github.com/cityfix/cityfix-go/internal/conf"
	"github.com/cityfix/cityfix-go/internal/errors"
	"github.com/cityfix/cityfix-go/internal/geocode"
	"github.com/cityfix/cityfix-go/internal/logging"
)

// Command creates the serve command, which runs the HTTP API.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the CityFix HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	cmd.Flags().IntVarP(&settings.Server.Port, "port", "p", viper.GetInt("server.port"), "Port to listen on")
	cmd.Flags().StringVar(&settings.Server.Host, "host", viper.GetString("server.host"), "Host to bind to")

	return cmd
}

func runServer(settings *conf.Settings) error {
	application, err := app.New(settings)
	if err != nil {
		return err
	}
	defer application.Close()
	defer geocode.Close()

	opts := []api.Option{api.WithMetrics(application.Metrics)}
	if application.Geocoder != nil {
		opts = append(opts, api.WithGeocoder(application.Geocoder))
	}
	controller := api.New(settings, application.Store, application.DS, application.Gate, opts...)

	errCh := make(chan error, 1)
	go func() {
		if err := controller.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logging.Logger().Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return controller.Echo.Shutdown(ctx)
}
