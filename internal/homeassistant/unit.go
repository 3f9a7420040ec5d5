package homeassistant

import "encoding/json"

type Unit int64

const (
	None Unit = iota
	KWh
	EUR
	EURPerKWh
	Days
	Percent
)

func (s Unit) String() string {
	switch s {
	case None:
		return ""
	case KWh:
		return "kWh"
	case EUR:
		return "EUR"
	case EURPerKWh:
		return "EUR/kWh"
	case Days:
		return "d"
	case Percent:
		return "%"
	}
	return "unknown"
}

func (s Unit) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
