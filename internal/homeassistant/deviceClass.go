package homeassistant

import "encoding/json"

type DeviceClass int64

const (
	NoDeviceClass DeviceClass = iota
	Energy
	Monetary
	Duration
)

func (s DeviceClass) String() string {
	switch s {
	case NoDeviceClass:
		return ""
	case Energy:
		return "energy"
	case Monetary:
		return "monetary"
	case Duration:
		return "duration"
	}
	return "unknown"
}

func (s DeviceClass) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
