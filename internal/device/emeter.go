package device

import (
	"encoding/json"

	"github.com/kasalink/kasalink/internal/protocol"
)

// realtimeResult covers both metering firmware generations: older
// hardware reports floats in base units, newer hardware reports integers
// in milli-units.
type realtimeResult struct {
	Voltage float64 `json:"voltage"`
	Current float64 `json:"current"`
	Power   float64 `json:"power"`
	Total   float64 `json:"total"`

	VoltageMV int `json:"voltage_mv"`
	CurrentMA int `json:"current_ma"`
	PowerMW   int `json:"power_mw"`
	TotalWH   int `json:"total_wh"`
}

func (r *realtimeResult) reading() *EnergyReading {
	reading := &EnergyReading{
		Voltage: r.Voltage,
		Current: r.Current,
		Power:   r.Power,
		Total:   r.Total,
	}
	if reading.Voltage == 0 && r.VoltageMV != 0 {
		reading.Voltage = float64(r.VoltageMV) / 1000
	}
	if reading.Current == 0 && r.CurrentMA != 0 {
		reading.Current = float64(r.CurrentMA) / 1000
	}
	if reading.Power == 0 && r.PowerMW != 0 {
		reading.Power = float64(r.PowerMW) / 1000
	}
	if reading.Total == 0 && r.TotalWH != 0 {
		reading.Total = float64(r.TotalWH) / 1000
	}
	return reading
}

// currentEnergy queries the realtime meter under the given module name
// (plugs and bulbs expose it under different modules).
func currentEnergy(d *RawDevice, module string) (*EnergyReading, error) {
	section, err := d.command(protocol.GetRealtime(module), module, protocol.OpGetRealtime)
	if err != nil {
		return nil, err
	}

	var result realtimeResult
	if err := json.Unmarshal(section, &result); err != nil {
		return nil, protocol.NewProtocolError(d.Addr(), "malformed realtime reading", err)
	}
	return result.reading(), nil
}
