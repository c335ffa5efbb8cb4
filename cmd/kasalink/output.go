package main

import (
	"encoding/json"
	"fmt"

	"github.com/kasalink/kasalink/internal/device"
	"github.com/kasalink/kasalink/internal/ui"
)

// printJSON writes any value as indented JSON, the shape --json
// promises to scripts.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// statusJSON is the machine readable shape of one device status, emitted
// by --json.
type statusJSON struct {
	Addr   string          `json:"addr"`
	Device string          `json:"device"`
	System *device.SysInfo `json:"system"`
}

// shortRow is the default status table row: enough to tell devices
// apart at a glance.
func shortRow(dev device.Device, info *device.SysInfo) [][2]string {
	return [][2]string{
		{"Address", dev.Addr()},
		{"Alias", info.Alias},
		{"Product", info.DevName},
		{"Model", info.Model},
		{"Signal", fmt.Sprintf("%ddB", info.RSSI)},
		{"On?", onCell(info.IsOn())},
	}
}

// longRow adds the identity and location columns --long asks for.
func longRow(dev device.Device, info *device.SysInfo) [][2]string {
	lat, lon := info.Location()
	return [][2]string{
		{"Address", dev.Addr()},
		{"Alias", info.Alias},
		{"Product", info.DevName},
		{"Model", info.Model},
		{"Type", info.HWType},
		{"MAC", info.MAC},
		{"Version", info.SWVer},
		{"Mode", info.ActiveMode},
		{"Signal", fmt.Sprintf("%ddB", info.RSSI)},
		{"Lat", fmt.Sprintf("%.4f", lat)},
		{"Lon", fmt.Sprintf("%.4f", lon)},
		{"On?", onCell(info.IsOn())},
	}
}

func onCell(on bool) string {
	if on {
		return "true"
	}
	return "false"
}

// printStatuses renders a set of queried devices in the format selected
// by the --json and --long flags.
func printStatuses(devices []device.Device, infos []*device.SysInfo) error {
	if jsonOutput {
		out := make([]statusJSON, 0, len(devices))
		for i, dev := range devices {
			out = append(out, statusJSON{
				Addr:   dev.Addr(),
				Device: dev.Kind().String(),
				System: infos[i],
			})
		}
		return printJSON(out)
	}

	table := ui.NewTable()
	for i, dev := range devices {
		if longOutput {
			table.AddRow(longRow(dev, infos[i]))
		} else {
			table.AddRow(shortRow(dev, infos[i]))
		}
	}
	if table.Empty() {
		fmt.Println("No devices.")
		return nil
	}
	fmt.Println(table.Render())
	return nil
}

// actionJSON is the machine readable shape of one command outcome,
// emitted by --json for mutating commands.
type actionJSON struct {
	Addr   string `json:"addr"`
	Action string `json:"action"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// printActions renders per-device command outcomes. Failures go to the
// table too; the caller decides whether any of them fail the command.
func printActions(action string, results []actionResult) error {
	if jsonOutput {
		out := make([]actionJSON, 0, len(results))
		for _, r := range results {
			row := actionJSON{Addr: r.addr, Action: action, OK: r.err == nil}
			if r.err != nil {
				row.Error = r.err.Error()
			}
			out = append(out, row)
		}
		return printJSON(out)
	}

	table := ui.NewTable()
	for _, r := range results {
		outcome := "ok"
		if r.err != nil {
			outcome = r.err.Error()
		}
		table.AddRow([][2]string{
			{"Address", r.addr},
			{"Action", action},
			{"Result", outcome},
		})
	}
	fmt.Println(table.Render())
	return nil
}
