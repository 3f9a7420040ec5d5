package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"tarif-engine/internal/calendar"
	"tarif-engine/internal/console"
	"tarif-engine/internal/export"
	"tarif-engine/internal/models"
	"tarif-engine/internal/mqtt"

	"github.com/spf13/cobra"
)

func (app *App) offersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "offers",
		Short: "Liste les structures tarifaires disponibles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.console.PrintOffers(app.registry.Metadata())
			return nil
		},
	}
}

func addCalculationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("data", "d", "", "Consumption file (.csv or .json)")
	cmd.Flags().StringP("offer", "o", "", "Tariff code (default: offer.code)")
	cmd.Flags().String("start", "", "Period start date YYYY-MM-DD (default: first point)")
	cmd.Flags().String("end", "", "Period end date YYYY-MM-DD (default: last point)")
	_ = cmd.MarkFlagRequired("data")
}

func calculationFlags(cmd *cobra.Command) calculationRequest {
	dataFile, _ := cmd.Flags().GetString("data")
	offer, _ := cmd.Flags().GetString("offer")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	return calculationRequest{dataFile: dataFile, offer: offer, start: start, end: end}
}

func (app *App) calculateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calcule le coût d'une courbe de charge",
		Args:  cobra.NoArgs,
		RunE:  app.runCalculate,
	}
	addCalculationFlags(cmd)
	cmd.Flags().StringSlice("export", nil, "Export formats: csv, json, pdf (default: export.formats when --export-dir is set)")
	cmd.Flags().String("export-dir", "", "Export directory (default: export.dir)")
	cmd.Flags().StringP("name", "n", "", "Base name of the exported files (default: offer code)")
	cmd.Flags().Bool("publish", false, "Publish the result on MQTT")
	return cmd
}

func (app *App) runCalculate(cmd *cobra.Command, args []string) error {
	store, err := app.loadCalendar()
	if err != nil {
		return err
	}

	result, err := app.calculate(calculationFlags(cmd), store)
	if err != nil {
		return err
	}
	app.console.PrintResult(result)

	formats, _ := cmd.Flags().GetStringSlice("export")
	dir, _ := cmd.Flags().GetString("export-dir")
	name, _ := cmd.Flags().GetString("name")
	if len(formats) == 0 && cmd.Flags().Changed("export-dir") {
		formats = app.config.Export.Formats
	}
	if err := app.export(result, formats, dir, name); err != nil {
		return err
	}

	if publish, _ := cmd.Flags().GetBool("publish"); publish {
		client, err := mqtt.NewClient(app.config, store, app.loc, app.logger)
		if err != nil {
			return err
		}
		if err := client.Connect(); err != nil {
			return err
		}
		defer client.Disconnect()

		if err := client.PublishResult(result); err != nil {
			return err
		}
		app.console.LogSuccess("Résultat publié sur %s", client.StateTopic(result.OfferType))
	}
	return nil
}

func (app *App) export(result models.CalculationResult, formats []string, dir, name string) error {
	if len(formats) == 0 {
		return nil
	}
	parsed, err := export.ParseFormats(strings.Join(formats, ","))
	if err != nil {
		return err
	}

	if dir == "" {
		dir = app.config.Export.Dir
	}
	if name == "" {
		name = strings.ToLower(result.OfferType)
	}

	exporter := export.NewExporter(dir)
	for _, format := range parsed {
		path, err := exporter.Export(result, format, name)
		if err != nil {
			return err
		}
		app.console.LogSuccess("Export %s: %s", strings.ToUpper(format), path)
	}
	return nil
}

func (app *App) classifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <YYYY-MM-DD HH:MM>",
		Short: "Indique la période tarifaire d'un instant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := console.ParseDateTime(strings.Join(args, " "), app.loc)
			if err != nil {
				return err
			}
			resolved, err := app.resolvedSchedule()
			if err != nil {
				return err
			}
			store, err := app.loadCalendar()
			if err != nil {
				return err
			}
			app.console.PrintClassification(console.Classify(t, resolved, store))
			return nil
		},
	}
}

func (app *App) shellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Console interactive de classification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := app.resolvedSchedule()
			if err != nil {
				return err
			}
			store, err := app.loadCalendar()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return console.NewShell(app.console, resolved, store, app.loc).Run(ctx)
		},
	}
}

func (app *App) listenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Suit le calendrier TEMPO/EJP sur MQTT et republie le résultat à chaque changement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.listen(ctx, calculationFlags(cmd))
		},
	}
	addCalculationFlags(cmd)
	return cmd
}

// resultPublisher sous-ensemble du client MQTT utilisé par listen
type resultPublisher interface {
	PublishResult(result models.CalculationResult) error
}

func (app *App) listen(ctx context.Context, req calculationRequest) error {
	store, err := app.loadCalendar()
	if err != nil {
		return err
	}

	changed := make(chan struct{}, 1)
	store.SetUpdateCallback(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	client, err := mqtt.NewClient(app.config, store, app.loc, app.logger)
	if err != nil {
		return err
	}
	if err := client.Connect(); err != nil {
		return err
	}
	defer client.Disconnect()

	return app.republishLoop(ctx, req, store, client, changed)
}

// republishLoop publie le résultat une première fois puis à chaque modification du calendrier
func (app *App) republishLoop(ctx context.Context, req calculationRequest, store *calendar.Store, publisher resultPublisher, changed <-chan struct{}) error {
	publish := func() error {
		result, err := app.calculate(req, store)
		if err != nil {
			return err
		}
		return publisher.PublishResult(result)
	}

	if err := publish(); err != nil {
		return err
	}
	app.console.LogInfo("En écoute des mises à jour du calendrier (Ctrl+C pour quitter)")

	for {
		select {
		case <-ctx.Done():
			app.logger.Info("Listener stopped")
			return nil
		case <-changed:
			app.logger.Debug("Calendar changed, recalculating")
			if err := publish(); err != nil {
				app.logger.Errorf("Failed to republish result: %v", err)
			}
		}
	}
}
