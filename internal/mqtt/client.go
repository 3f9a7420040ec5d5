package mqtt

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"tarif-engine/internal/calendar"
	"tarif-engine/internal/config"
	"tarif-engine/internal/homeassistant"
	"tarif-engine/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// Client relie le broker au calendrier TEMPO/EJP et publie les résultats de calcul
type Client struct {
	client mqtt.Client
	config *config.Config
	logger *logrus.Logger
	store  *calendar.Store
	loc    *time.Location
	now    func() time.Time

	mutex      sync.Mutex
	discovered map[string]string
}

type TempoColorMessage struct {
	Date  string `json:"date"`
	Color string `json:"color"`
}

type EJPPeakMessage struct {
	Date string `json:"date"`
	Peak bool   `json:"peak"`
}

func NewClient(cfg *config.Config, store *calendar.Store, loc *time.Location, logger *logrus.Logger) (*Client, error) {
	if cfg.MQTT.Broker == "" {
		return nil, fmt.Errorf("mqtt broker is not configured")
	}
	if loc == nil {
		loc = time.Local
	}

	c := &Client{
		config:     cfg,
		logger:     logger,
		store:      store,
		loc:        loc,
		now:        time.Now,
		discovered: make(map[string]string),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTT.Broker)
	opts.SetClientID(cfg.MQTT.ClientID)
	opts.SetUsername(cfg.MQTT.Username)
	opts.SetPassword(cfg.MQTT.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetKeepAlive(60 * time.Second)

	opts.SetConnectionLostHandler(c.onConnectionLost)
	opts.SetOnConnectHandler(c.onConnect)

	c.client = mqtt.NewClient(opts)

	return c, nil
}

func (c *Client) Connect() error {
	c.logger.Info("Connecting to MQTT broker...")

	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	c.logger.Info("Connected to MQTT broker")
	return nil
}

func (c *Client) Disconnect() {
	c.logger.Info("Disconnecting from MQTT broker...")
	c.client.Disconnect(250)
}

func (c *Client) onConnect(client mqtt.Client) {
	c.logger.Info("MQTT connected, subscribing to topics...")

	if topic := c.config.MQTT.Topics.TempoColor; topic != "" {
		if token := client.Subscribe(topic, 1, c.handleTempoMessage); token.Wait() && token.Error() != nil {
			c.logger.Errorf("Failed to subscribe to TEMPO color topic: %v", token.Error())
		} else {
			c.logger.Infof("Subscribed to TEMPO color topic: %s", topic)
		}
	}

	if topic := c.config.MQTT.Topics.EJPPeak; topic != "" {
		if token := client.Subscribe(topic, 1, c.handleEJPMessage); token.Wait() && token.Error() != nil {
			c.logger.Errorf("Failed to subscribe to EJP topic: %v", token.Error())
		} else {
			c.logger.Infof("Subscribed to EJP topic: %s", topic)
		}
	}
}

func (c *Client) onConnectionLost(client mqtt.Client, err error) {
	c.logger.Errorf("MQTT connection lost: %v", err)
}

func (c *Client) handleTempoMessage(client mqtt.Client, msg mqtt.Message) {
	c.logger.Debugf("Received TEMPO color message: %s", string(msg.Payload()))

	date, color, err := ParseTempoPayload(msg.Payload(), c.now().In(c.loc), c.loc)
	if err != nil {
		c.logger.Errorf("Failed to parse TEMPO color: %v", err)
		return
	}

	c.store.SetColor(date, color)
	c.logger.Infof("TEMPO color for %s updated: %s", calendar.DateKey(date), color)
}

func (c *Client) handleEJPMessage(client mqtt.Client, msg mqtt.Message) {
	c.logger.Debugf("Received EJP message: %s", string(msg.Payload()))

	date, peak, err := ParseEJPPayload(msg.Payload(), c.now().In(c.loc), c.loc)
	if err != nil {
		c.logger.Errorf("Failed to parse EJP value: %v", err)
		return
	}

	c.store.SetPeakDay(date, peak)
	c.logger.Infof("EJP peak for %s updated: %t", calendar.DateKey(date), peak)
}

// ParseTempoPayload JSON {"date","color"} ou couleur brute appliquée au jour courant
func ParseTempoPayload(payload []byte, today time.Time, loc *time.Location) (time.Time, calendar.Color, error) {
	if json.Valid(payload) {
		var m TempoColorMessage
		if err := json.Unmarshal(payload, &m); err == nil {
			date, err := parseDate(m.Date, today, loc)
			if err != nil {
				return time.Time{}, calendar.Blue, err
			}
			color, err := calendar.ParseColor(m.Color)
			return date, color, err
		}
		var s string
		if err := json.Unmarshal(payload, &s); err == nil {
			payload = []byte(s)
		}
	}

	color, err := calendar.ParseColor(string(payload))
	return today, color, err
}

// ParseEJPPayload JSON {"date","peak"} ou valeur brute ("1", "true", "on") appliquée au jour courant
func ParseEJPPayload(payload []byte, today time.Time, loc *time.Location) (time.Time, bool, error) {
	if json.Valid(payload) {
		var m EJPPeakMessage
		if err := json.Unmarshal(payload, &m); err == nil {
			date, err := parseDate(m.Date, today, loc)
			return date, m.Peak, err
		}
	}

	switch strings.ToLower(strings.Trim(strings.TrimSpace(string(payload)), `"`)) {
	case "1", "true", "on", "yes", "peak", "ejp":
		return today, true, nil
	case "0", "false", "off", "no", "normal":
		return today, false, nil
	}
	return today, false, fmt.Errorf("unrecognized EJP value %q", string(payload))
}

func parseDate(s string, today time.Time, loc *time.Location) (time.Time, error) {
	if s == "" {
		return today, nil
	}
	date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return date, nil
}

// StateTopic <result_prefix>/<offer_type>/state
func (c *Client) StateTopic(offerType string) string {
	return StateTopic(c.config.MQTT.Topics.ResultPrefix, offerType)
}

func StateTopic(prefix, offerType string) string {
	return prefix + "/" + offerType + "/state"
}

// PublishResult publie en retenu le résultat. La découverte Home Assistant est
// renvoyée chaque fois que l'ensemble des périodes de l'offre change.
func (c *Client) PublishResult(result models.CalculationResult) error {
	topic := c.StateTopic(result.OfferType)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	announced := periodCodes(result)
	if previous, ok := c.discovered[result.OfferType]; !ok || previous != announced {
		items := DiscoveryItems(result, c.config.MQTT.Topics.ResultPrefix, topic)
		globalName := c.config.MQTT.Topics.ResultPrefix + "_" + result.OfferType
		if err := homeassistant.SendConfigurationToHa(c.client, c.config.MQTT.DiscoveryPrefix, items, globalName); err != nil {
			return err
		}
		c.discovered[result.OfferType] = announced
		c.logger.Infof("Home Assistant discovery sent for %s (%d sensors)", result.OfferType, len(items))
	}

	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}

	token := c.client.Publish(topic, 1, true, b)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timeout publishing result on %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("error publishing result on %s: %w", topic, err)
	}

	c.logger.Infof("Result %s published on %s: %s €", result.OfferType, topic, result.TotalWithSubscription.StringFixed(2))
	return nil
}

// periodCodes codes triés des périodes d'un résultat
func periodCodes(result models.CalculationResult) string {
	codes := make([]string, 0, len(result.Periods))
	for _, p := range result.Periods {
		codes = append(codes, p.Code)
	}
	sort.Strings(codes)
	return strings.Join(codes, ",")
}

// PeriodCostTemplate coût d'une période retrouvée par son code, 0 si absente de l'état
func PeriodCostTemplate(code string) string {
	return fmt.Sprintf("{{ value_json.periods | selectattr('code', 'eq', '%s') | map(attribute='cost_euros') | first | default(0) | float | round(2) }}", code)
}

// DiscoveryItems capteurs Home Assistant d'un résultat : totaux puis coût par période
func DiscoveryItems(result models.CalculationResult, prefix, stateTopic string) []homeassistant.ConfigurationItem {
	id := prefix + "_" + strings.ToLower(result.OfferType)
	device := homeassistant.Device{
		Identifiers:  []string{id},
		Name:         result.OfferName,
		Manufacturer: "tarif-engine",
		Model:        result.OfferType,
	}

	items := []homeassistant.ConfigurationItem{
		{
			DeviceClass:       homeassistant.Monetary,
			UnitOfMeasurement: homeassistant.EUR,
			Device:            device,
			StateClass:        "total",
			UniqueId:          id + "_total_with_subscription",
			Name:              "Coût total",
			Icon:              "mdi:cash",
			StateTopic:        stateTopic,
			ValueTemplate:     "{{ value_json.total_with_subscription | float | round(2) }}",
		},
		{
			DeviceClass:       homeassistant.Energy,
			UnitOfMeasurement: homeassistant.KWh,
			Device:            device,
			StateClass:        "total",
			UniqueId:          id + "_total_kwh",
			Name:              "Consommation",
			StateTopic:        stateTopic,
			ValueTemplate:     "{{ value_json.total_kwh | float | round(3) }}",
		},
		{
			DeviceClass:       homeassistant.Monetary,
			UnitOfMeasurement: homeassistant.EUR,
			Device:            device,
			StateClass:        "total",
			UniqueId:          id + "_subscription",
			Name:              "Abonnement",
			StateTopic:        stateTopic,
			ValueTemplate:     "{{ value_json.subscription_cost_euros | float | round(2) }}",
		},
	}

	for _, p := range result.Periods {
		items = append(items, homeassistant.ConfigurationItem{
			DeviceClass:       homeassistant.Monetary,
			UnitOfMeasurement: homeassistant.EUR,
			Device:            device,
			StateClass:        "total",
			UniqueId:          id + "_" + p.Code,
			Name:              p.Name,
			StateTopic:        stateTopic,
			ValueTemplate:     PeriodCostTemplate(p.Code),
		})
	}
	return items
}

// TempoPayload message JSON d'une couleur TEMPO, lisible par ParseTempoPayload
func TempoPayload(date time.Time, color calendar.Color) []byte {
	b, _ := json.Marshal(TempoColorMessage{Date: calendar.DateKey(date), Color: color.String()})
	return b
}

// EJPPayload message JSON d'un statut EJP, lisible par ParseEJPPayload
func EJPPayload(date time.Time, peak bool) []byte {
	b, _ := json.Marshal(EJPPeakMessage{Date: calendar.DateKey(date), Peak: peak})
	return b
}
