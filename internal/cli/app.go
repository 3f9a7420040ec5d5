package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"tarif-engine/internal/calendar"
	"tarif-engine/internal/config"
	"tarif-engine/internal/console"
	"tarif-engine/internal/consumption"
	"tarif-engine/internal/models"
	"tarif-engine/internal/schedule"
	"tarif-engine/internal/tariff"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// App application en ligne de commande
type App struct {
	rootCmd  *cobra.Command
	logger   *logrus.Logger
	console  *console.Console
	registry *tariff.Registry

	config *config.Config
	loc    *time.Location
}

func NewApp(version string, logger *logrus.Logger, out io.Writer) *App {
	app := &App{
		logger:   logger,
		console:  console.NewConsole(out),
		registry: tariff.NewDefaultRegistry(logger),
	}

	rootCmd := &cobra.Command{
		Use:               "tarif-engine",
		Short:             "Calcul du coût d'une courbe de charge selon les offres d'électricité françaises",
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: app.loadConfig,
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a YAML, TOML or JSON configuration file")

	rootCmd.AddCommand(
		app.offersCommand(),
		app.calculateCommand(),
		app.classifyCommand(),
		app.shellCommand(),
		app.listenCommand(),
	)

	app.rootCmd = rootCmd
	return app
}

func (app *App) Execute() error {
	return app.rootCmd.Execute()
}

// SetArgs remplace les arguments de la ligne de commande
func (app *App) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

func (app *App) loadConfig(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config-file")

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if cfg.Log.Level != "" {
		level, err := logrus.ParseLevel(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
		}
		app.logger.SetLevel(level)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	app.config = cfg
	app.loc = loc
	app.logger.Debugf("Configuration loaded: offer %s, timezone %s", cfg.Offer.TariffCode(), loc)
	return nil
}

// loadCalendar calendrier TEMPO/EJP initialisé depuis calendar.file s'il est renseigné
func (app *App) loadCalendar() (*calendar.Store, error) {
	store := calendar.NewStore()
	if app.config.Calendar.File == "" {
		return store, nil
	}

	f, err := calendar.LoadFile(app.config.Calendar.File)
	if err != nil {
		return nil, err
	}
	store.Merge(f)

	colors, peakDays := store.Len()
	app.logger.Infof("Calendar %s loaded: %d TEMPO days, %d EJP days", app.config.Calendar.File, colors, peakDays)
	return store, nil
}

func (app *App) resolvedSchedule() (schedule.Resolved, error) {
	custom, err := app.config.Offer.CustomSchedule()
	if err != nil {
		return schedule.Resolved{}, err
	}
	return schedule.Resolve(custom, nil)
}

// calculationRequest paramètres d'un calcul issus des options de commande
type calculationRequest struct {
	dataFile string
	offer    string
	start    string
	end      string
}

func (app *App) loadDataset(req calculationRequest) (models.ConsumptionDataset, error) {
	dataset, err := consumption.LoadFile(req.dataFile, app.loc)
	if err != nil {
		return models.ConsumptionDataset{}, err
	}

	var start, end time.Time
	if req.start != "" {
		if start, err = time.ParseInLocation(time.DateOnly, req.start, app.loc); err != nil {
			return models.ConsumptionDataset{}, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if req.end != "" {
		if end, err = time.ParseInLocation(time.DateOnly, req.end, app.loc); err != nil {
			return models.ConsumptionDataset{}, fmt.Errorf("invalid end date: %w", err)
		}
	}
	return consumption.WithBounds(dataset, start, end), nil
}

func (app *App) calculate(req calculationRequest, store *calendar.Store) (models.CalculationResult, error) {
	dataset, err := app.loadDataset(req)
	if err != nil {
		return models.CalculationResult{}, err
	}

	code := app.config.Offer.TariffCode()
	if req.offer != "" {
		code = tariff.Code(strings.ToUpper(req.offer))
	}

	calc, err := app.registry.Get(code, tariff.WithCalendar(store), tariff.WithLogger(app.logger))
	if err != nil {
		return models.CalculationResult{}, err
	}

	custom, err := app.config.Offer.CustomSchedule()
	if err != nil {
		return models.CalculationResult{}, err
	}

	subscription := decimal.NewFromFloat(app.config.Offer.SubscriptionMonthly)
	result, err := calc.Calculate(dataset, app.config.Offer.TariffPrices(), subscription, custom)
	if err != nil {
		return models.CalculationResult{}, err
	}

	if app.config.Offer.Name != "" {
		result.OfferName = app.config.Offer.Name
	}
	return result, nil
}
