package homeassistant

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const publishTimeout = 5 * time.Second

// Publisher sous-ensemble de mqtt.Client utilisé pour la découverte
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// ObjectId identifiant MQTT d'un capteur : "Coût Total" -> "cout_total"
func ObjectId(globalName, name string) string {
	folded, _, err := transform.String(foldAccents(), globalName+"_"+name)
	if err != nil {
		folded = globalName + "_" + name
	}

	var sb strings.Builder
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '/', r == '.':
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// foldAccents retire les diacritiques : "é" -> "e"
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// DiscoveryTopic <prefix>/sensor/<object_id>/config
func DiscoveryTopic(prefix, objectId string) string {
	return prefix + "/sensor/" + objectId + "/config"
}

// SendConfigurationToHa publie en retenu la configuration de chaque capteur
func SendConfigurationToHa(client Publisher, prefix string, config []ConfigurationItem, globalName string) error {
	for _, configItem := range config {
		b, err := json.Marshal(configItem)
		if err != nil {
			return fmt.Errorf("error encoding discovery for %s: %w", configItem.Name, err)
		}
		token := client.Publish(DiscoveryTopic(prefix, ObjectId(globalName, configItem.Name)), 0, true, b)
		if !token.WaitTimeout(publishTimeout) {
			return fmt.Errorf("timeout publishing discovery for %s", configItem.Name)
		}
		if err := token.Error(); err != nil {
			return fmt.Errorf("error publishing discovery for %s: %w", configItem.Name, err)
		}
	}
	return nil
}
