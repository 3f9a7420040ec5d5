package homeassistant

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }

func (t doneToken) Done() <-chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}

type message struct {
	topic    string
	retained bool
	payload  []byte
}

type recorder struct {
	messages []message
	err      error
}

func (r *recorder) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	r.messages = append(r.messages, message{topic: topic, retained: retained, payload: payload.([]byte)})
	return doneToken{err: r.err}
}

func TestObjectId(t *testing.T) {
	assert.Equal(t, "tarifs_tempo_cout_total", ObjectId("tarifs_tempo", "Coût Total"))
	assert.Equal(t, "tarifs_hc_hp_heures_creuses", ObjectId("tarifs_HC_HP", "Heures Creuses"))
	assert.Equal(t, "x_jours_de_pointe_mobile", ObjectId("x", "Jours de Pointe (Mobile)"))
}

func TestObjectId_FoldsAnyDiacritic(t *testing.T) {
	assert.Equal(t, "tarifs_ete_creuses", ObjectId("tarifs", "Été Creuses"))
	assert.Equal(t, "x_noel_nino_angstrom", ObjectId("x", "Noël Niño Ångström"))
	assert.Equal(t, "x_creme_brulee", ObjectId("x", "Crème Brûlée"))
	assert.Equal(t, "x_prix_", ObjectId("x", "Prix €"))
}

func TestSendConfigurationToHa(t *testing.T) {
	rec := &recorder{}
	items := []ConfigurationItem{{
		DeviceClass:       Monetary,
		UnitOfMeasurement: EUR,
		Device:            Device{Identifiers: []string{"tarifs_base"}, Name: "Tarif BASE"},
		StateClass:        "total",
		UniqueId:          "tarifs_base_total",
		Name:              "Coût total",
		StateTopic:        "tarifs/BASE/state",
		ValueTemplate:     "{{ value_json.total_with_subscription }}",
	}, {
		Name:       "Jours",
		UniqueId:   "tarifs_base_days",
		StateTopic: "tarifs/BASE/state",
	}}

	require.NoError(t, SendConfigurationToHa(rec, "homeassistant", items, "tarifs_base"))
	require.Len(t, rec.messages, 2)

	assert.Equal(t, "homeassistant/sensor/tarifs_base_cout_total/config", rec.messages[0].topic)
	assert.True(t, rec.messages[0].retained)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.messages[0].payload, &decoded))
	assert.Equal(t, "monetary", decoded["device_class"])
	assert.Equal(t, "EUR", decoded["unit_of_measurement"])

	decoded = nil
	require.NoError(t, json.Unmarshal(rec.messages[1].payload, &decoded))
	assert.NotContains(t, decoded, "device_class")
	assert.NotContains(t, decoded, "unit_of_measurement")
}

func TestSendConfigurationToHa_PublishError(t *testing.T) {
	rec := &recorder{err: errors.New("not connected")}
	err := SendConfigurationToHa(rec, "homeassistant", []ConfigurationItem{{Name: "a"}}, "g")
	assert.ErrorContains(t, err, "not connected")
}
