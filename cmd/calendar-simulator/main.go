package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"tarif-engine/internal/calendar"
	"tarif-engine/internal/config"
	tarifmqtt "tarif-engine/internal/mqtt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publie un calendrier TEMPO/EJP de test sur les topics écoutés par "tarif-engine listen"
func main() {
	var configFile string
	var days int
	var interactive bool

	flag.StringVar(&configFile, "config", "", "configuration file")
	flag.IntVar(&days, "days", 7, "number of days to publish, starting today")
	flag.BoolVar(&interactive, "i", false, "interactive mode")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if cfg.MQTT.Broker == "" {
		cfg.MQTT.Broker = "tcp://localhost:1883"
	}

	fmt.Println("🧪 Simulation calendrier TEMPO / EJP")
	fmt.Println("====================================")

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTT.Broker)
	opts.SetClientID(cfg.MQTT.ClientID + "-simulator")
	opts.SetUsername(cfg.MQTT.Username)
	opts.SetPassword(cfg.MQTT.Password)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Printf("❌ Impossible de se connecter à MQTT (%s)", cfg.MQTT.Broker)
		log.Printf("💡 Assurez-vous que le broker MQTT fonctionne:")
		log.Printf("   docker run -it -p 1883:1883 eclipse-mosquitto:2.0")
		log.Printf("Erreur: %s", token.Error().Error())
		return
	}
	defer client.Disconnect(250)

	fmt.Printf("✅ Connecté au broker MQTT: %s\n\n", cfg.MQTT.Broker)

	today := time.Now().In(loc)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, i)
		publishColor(client, cfg.MQTT.Topics.TempoColor, day, calendar.EstimateColor(day))
		publishPeak(client, cfg.MQTT.Topics.EJPPeak, day, calendar.EstimatePeakDay(day))
		time.Sleep(500 * time.Millisecond)
	}

	if interactive {
		interactiveMode(client, cfg, loc)
	}
}

func publishColor(client mqtt.Client, topic string, day time.Time, c calendar.Color) {
	if topic == "" {
		return
	}
	token := client.Publish(topic, 1, false, tarifmqtt.TempoPayload(day, c))
	token.Wait()
	fmt.Printf("📡 Publié: %s TEMPO %s\n", calendar.DateKey(day), c)
}

func publishPeak(client mqtt.Client, topic string, day time.Time, peak bool) {
	if topic == "" {
		return
	}
	token := client.Publish(topic, 1, false, tarifmqtt.EJPPayload(day, peak))
	token.Wait()
	fmt.Printf("📡 Publié: %s EJP pointe=%t\n", calendar.DateKey(day), peak)
}

func interactiveMode(client mqtt.Client, cfg *config.Config, loc *time.Location) {
	fmt.Println()
	fmt.Println("🎮 Mode Interactif Activé")
	fmt.Println("Commandes disponibles:")
	fmt.Println("  bleu|blanc|rouge [YYYY-MM-DD]  - Couleur TEMPO du jour (aujourd'hui par défaut)")
	fmt.Println("  ejp [YYYY-MM-DD]               - Jour de pointe EJP")
	fmt.Println("  normal [YYYY-MM-DD]            - Jour EJP normal")
	fmt.Println("  quit                           - Quitter")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("🎮 > ")
		if !scanner.Scan() {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		day := time.Now().In(loc)
		if len(fields) > 1 {
			parsed, err := time.ParseInLocation(time.DateOnly, fields[1], loc)
			if err != nil {
				fmt.Println("❌ Date invalide, format attendu YYYY-MM-DD")
				continue
			}
			day = parsed
		}

		switch cmd := strings.ToLower(fields[0]); cmd {
		case "quit", "exit", "q":
			fmt.Println("👋 Au revoir!")
			return
		case "ejp":
			publishPeak(client, cfg.MQTT.Topics.EJPPeak, day, true)
		case "normal":
			publishPeak(client, cfg.MQTT.Topics.EJPPeak, day, false)
		default:
			c, err := calendar.ParseColor(cmd)
			if err != nil {
				fmt.Println("❌ Commande inconnue")
				continue
			}
			publishColor(client, cfg.MQTT.Topics.TempoColor, day, c)
		}
	}
}
