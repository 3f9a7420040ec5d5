package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"tarif-engine/internal/schedule"
	"tarif-engine/internal/tariff"

	"github.com/spf13/viper"
)

type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Timezone string         `mapstructure:"timezone"`
	Offer    OfferConfig    `mapstructure:"offer"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
	Export   ExportConfig   `mapstructure:"export"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// OfferConfig offre souscrite utilisée par défaut pour les calculs
type OfferConfig struct {
	Code                string             `mapstructure:"code"`
	Name                string             `mapstructure:"name"`
	SubscriptionMonthly float64            `mapstructure:"subscription_monthly"`
	Prices              map[string]float64 `mapstructure:"prices"`
	Schedule            map[string]string  `mapstructure:"schedule"`
}

type CalendarConfig struct {
	File string `mapstructure:"file"`
}

type MQTTConfig struct {
	Broker          string `mapstructure:"broker"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	ClientID        string `mapstructure:"client_id"`
	Topics          Topics `mapstructure:"topics"`
	DiscoveryPrefix string `mapstructure:"discovery_prefix"`
}

type Topics struct {
	TempoColor   string `mapstructure:"tempo_color"`
	EJPPeak      string `mapstructure:"ejp_peak"`
	ResultPrefix string `mapstructure:"result_prefix"`
}

type ExportConfig struct {
	Dir     string   `mapstructure:"dir"`
	Formats []string `mapstructure:"formats"`
}

// Load lit config.yaml dans . ou ./config. Un chemin explicite remplace la recherche.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	v.SetEnvPrefix("TARIF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Fprintln(os.Stderr, "Config file not found, using defaults")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.MQTT.Broker == "" {
		config.MQTT.Broker = os.Getenv("MQTT_BROKER")
	}
	if config.MQTT.Username == "" {
		config.MQTT.Username = os.Getenv("MQTT_USERNAME")
	}
	if config.MQTT.Password == "" {
		config.MQTT.Password = os.Getenv("MQTT_PASSWORD")
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("timezone", "Europe/Paris")
	v.SetDefault("offer.code", string(tariff.CodeBase))
	v.SetDefault("offer.subscription_monthly", 0.0)
	v.SetDefault("mqtt.client_id", "tarif-engine")
	v.SetDefault("mqtt.topics.result_prefix", "tarifs")
	v.SetDefault("mqtt.discovery_prefix", "homeassistant")
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.formats", []string{"json"})
}

// Location fuseau des horodatages sans décalage explicite
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (o OfferConfig) TariffCode() tariff.Code {
	return tariff.Code(strings.ToUpper(strings.TrimSpace(o.Code)))
}

func (o OfferConfig) TariffPrices() tariff.Prices {
	return tariff.PricesFromFloats(o.Prices)
}

// CustomSchedule plages heures creuses propres à l'offre, nil si aucune
func (o OfferConfig) CustomSchedule() (schedule.Schedule, error) {
	return schedule.FromNames(o.Schedule)
}
