package main

import (
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kasalink/kasalink/internal/config"
	"github.com/kasalink/kasalink/internal/device"
	"github.com/kasalink/kasalink/internal/discovery"
	"github.com/kasalink/kasalink/internal/transport"
	"github.com/kasalink/kasalink/internal/tui"
	"github.com/kasalink/kasalink/internal/ui"
)

// Command flags
var (
	jsonOutput  bool
	longOutput  bool
	timeoutSecs int
	devicePort  int
	rebootDelay int
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output machine readable JSON")
	rootCmd.PersistentFlags().BoolVar(&longOutput, "long", false, "Output extended device details")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", 0, "Network timeout in seconds (0 uses the configured default)")
	rootCmd.PersistentFlags().IntVar(&devicePort, "port", transport.DefaultPort, "Device port when an address omits one")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
	rootCmd.AddCommand(rebootCmd)
	rootCmd.AddCommand(brightnessCmd)
	rootCmd.AddCommand(energyCmd)
	rootCmd.AddCommand(aliasCmd)
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(browseCmd)
}

// registry loads the saved device registry, degrading to an empty one
// when the config file is missing or unreadable. Commands that only
// read the registry should not fail because of it.
func registry() *config.Registry {
	reg, err := config.LoadRegistry()
	if err != nil {
		return config.NewRegistry()
	}
	return reg
}

// targetAddr resolves a command argument to a dialable host:port. A
// saved nickname maps to its recorded address; anything else is treated
// as a host, with the --port flag filling in a missing port.
func targetAddr(arg string) string {
	addr := arg
	if saved, ok := registry().Resolve(arg); ok {
		addr = saved
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, strconv.Itoa(devicePort))
	}
	return addr
}

func commandTimeout() time.Duration {
	if timeoutSecs > 0 {
		return time.Duration(timeoutSecs) * time.Second
	}
	return transport.DefaultTimeout
}

// discoverWindow picks the discovery listen window: the --timeout flag
// wins, then the registry preference, then the built-in default.
func discoverWindow() time.Duration {
	if timeoutSecs > 0 {
		return time.Duration(timeoutSecs) * time.Second
	}
	if prefs := registry().Preferences; prefs != nil && prefs.DiscoverTimeout > 0 {
		return time.Duration(prefs.DiscoverTimeout) * time.Second
	}
	return discovery.DefaultTimeout
}

// connectTarget dials a target and resolves its concrete variant.
func connectTarget(arg string) (device.Device, *device.SysInfo, error) {
	conn := transport.NewTCPWithTimeout(commandTimeout())
	return device.ConnectWith(targetAddr(arg), conn)
}

// maxFanOut caps how many devices a multi-target command dials at once.
const maxFanOut = 8

// statusResult is one slot of a concurrent multi-device query.
type statusResult struct {
	target string
	dev    device.Device
	info   *device.SysInfo
	err    error
}

// queryAll connects to every target concurrently, at most maxFanOut at
// a time. Results keep the argument order regardless of which device
// answers first.
func queryAll(targets []string) []statusResult {
	results := make([]statusResult, len(targets))
	sem := make(chan struct{}, maxFanOut)
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			dev, info, err := connectTarget(target)
			results[i] = statusResult{target: target, dev: dev, info: info, err: err}
		}(i, target)
	}
	wg.Wait()
	return results
}

// actionResult is one slot of a concurrent multi-device command.
type actionResult struct {
	addr string
	err  error
}

// actAll runs one action against every target concurrently, at most
// maxFanOut at a time.
func actAll(targets []string, act func(device.Device) error) []actionResult {
	results := make([]actionResult, len(targets))
	sem := make(chan struct{}, maxFanOut)
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			addr := targetAddr(target)
			dev, _, err := connectTarget(target)
			if err != nil {
				results[i] = actionResult{addr: addr, err: err}
				return
			}
			results[i] = actionResult{addr: dev.Addr(), err: act(dev)}
		}(i, target)
	}
	wg.Wait()
	return results
}

// reportFailures prints per-target errors to stderr and returns how
// many targets failed.
func reportFailures(results []statusResult) int {
	failed := 0
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render(fmt.Sprintf("%s: %v", r.target, r.err)))
			failed++
		}
	}
	return failed
}

// discoverCmd finds devices on the local network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover Kasa devices on the local network",
	Long: `Discover Kasa devices by UDP broadcast.

This command broadcasts a system info query and collects every reply
that arrives within the listen window, then displays the responding
devices. An empty result is not an error; Kasa devices only answer
from the local broadcast domain.`,
	Example: `  # Discover with the default window
  kasalink discover

  # Wait longer on slow networks
  kasalink discover --timeout 10

  # Extended details for each device
  kasalink discover --long`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	scanner := discovery.NewScanner()
	scanner.Timeout = discoverWindow()

	found, err := scanner.Scan()
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	addrs := make([]string, 0, len(found))
	for addr := range found {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	devices := make([]device.Device, 0, len(addrs))
	infos := make([]*device.SysInfo, 0, len(addrs))
	for _, addr := range addrs {
		data := found[addr]
		info, err := data.SysInfo()
		if err != nil {
			continue
		}
		devices = append(devices, device.FromData(addr, data))
		infos = append(infos, info)
	}

	return printStatuses(devices, infos)
}

// statusCmd queries one or more devices directly
var statusCmd = &cobra.Command{
	Use:   "status <device>...",
	Short: "Show the status of one or more devices",
	Long: `Query each named device over TCP and display its status.

Devices are queried concurrently. Unreachable devices are reported on
stderr; devices that do answer are still displayed. Each argument is a
saved nickname, a host, or a host:port.`,
	Example: `  # One device by address
  kasalink status 192.168.0.21

  # Several devices, one of them by nickname
  kasalink status desk-lamp 192.168.0.21 192.168.0.22:9999

  # Machine readable output
  kasalink status desk-lamp --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	results := queryAll(args)
	failed := reportFailures(results)

	devices := make([]device.Device, 0, len(results))
	infos := make([]*device.SysInfo, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			continue
		}
		devices = append(devices, r.dev)
		infos = append(infos, r.info)
	}

	if err := printStatuses(devices, infos); err != nil {
		return err
	}
	if failed == len(results) {
		return fmt.Errorf("no devices answered")
	}
	return nil
}

// onCmd and offCmd switch device power
var onCmd = &cobra.Command{
	Use:   "on <device>...",
	Short: "Switch devices on",
	Example: `  kasalink on desk-lamp
  kasalink on 192.168.0.21 192.168.0.22`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSwitch(args, "on", func(sw device.Switch) error { return sw.SwitchOn() })
	},
}

var offCmd = &cobra.Command{
	Use:   "off <device>...",
	Short: "Switch devices off",
	Example: `  kasalink off desk-lamp
  kasalink off 192.168.0.21 192.168.0.22`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSwitch(args, "off", func(sw device.Switch) error { return sw.SwitchOff() })
	},
}

func runSwitch(targets []string, action string, act func(device.Switch) error) error {
	results := actAll(targets, func(dev device.Device) error {
		sw, ok := dev.AsSwitch()
		if !ok {
			return fmt.Errorf("%s does not support power control", dev)
		}
		return act(sw)
	})
	return finishActions(action, results)
}

// finishActions prints outcomes and fails the command when any target
// failed.
func finishActions(action string, results []actionResult) error {
	if err := printActions(action, results); err != nil {
		return err
	}
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d devices failed", failed, len(results))
	}
	return nil
}

// rebootCmd reboots devices
var rebootCmd = &cobra.Command{
	Use:   "reboot <device>...",
	Short: "Reboot one or more devices",
	Long: `Ask each named device to reboot.

The device acknowledges the command and then drops its connections
while it restarts, so a short period of unreachability afterwards is
expected.`,
	Example: `  # Reboot immediately
  kasalink reboot desk-lamp

  # Reboot after a 5 second delay
  kasalink reboot desk-lamp --delay 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReboot,
}

func init() {
	rebootCmd.Flags().IntVar(&rebootDelay, "delay", 1, "Delay in seconds before the device reboots")
}

func runReboot(cmd *cobra.Command, args []string) error {
	delay := time.Duration(rebootDelay) * time.Second
	results := actAll(args, func(dev device.Device) error {
		return dev.Actions().Reboot(delay)
	})
	return finishActions("reboot", results)
}

// brightnessCmd reads or sets bulb brightness
var brightnessCmd = &cobra.Command{
	Use:   "brightness <device> [percent]",
	Short: "Show or set brightness",
	Long: `Show or set the brightness of a dimmable device.

With no percent argument the current brightness is printed. The percent
must be between 0 and 100; values outside that range are rejected
without contacting the device.`,
	Example: `  # Show current brightness
  kasalink brightness bedroom-bulb

  # Set brightness to 40%
  kasalink brightness bedroom-bulb 40`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBrightness,
}

func runBrightness(cmd *cobra.Command, args []string) error {
	dev, _, err := connectTarget(args[0])
	if err != nil {
		return err
	}
	dimmer, ok := dev.AsDimmer()
	if !ok {
		return fmt.Errorf("%s does not support brightness control", dev)
	}

	if len(args) == 1 {
		brightness, err := dimmer.Brightness()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(struct {
				Addr       string `json:"addr"`
				Brightness int    `json:"brightness"`
			}{dev.Addr(), brightness})
		}
		fmt.Printf("%d%%\n", brightness)
		return nil
	}

	percent, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid brightness value %q", args[1])
	}
	if err := dimmer.SetBrightness(percent); err != nil {
		return err
	}
	return finishActions(fmt.Sprintf("brightness %d%%", percent),
		[]actionResult{{addr: dev.Addr()}})
}

// energyCmd reads realtime energy measurements
var energyCmd = &cobra.Command{
	Use:   "energy <device>...",
	Short: "Show realtime energy readings",
	Long: `Query the energy meter of each named device.

Only energy metering devices answer; others fail with a capability
error. Readings are volts, amps, watts, and cumulative kilowatt-hours.`,
	Example: `  kasalink energy heater-plug
  kasalink energy 192.168.0.21 192.168.0.22 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnergy,
}

type energyJSON struct {
	Addr    string                `json:"addr"`
	Reading *device.EnergyReading `json:"reading,omitempty"`
	Error   string                `json:"error,omitempty"`
}

func runEnergy(cmd *cobra.Command, args []string) error {
	type slot struct {
		addr    string
		reading *device.EnergyReading
		err     error
	}

	results := make([]slot, len(args))
	sem := make(chan struct{}, maxFanOut)
	var wg sync.WaitGroup
	for i, target := range args {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			addr := targetAddr(target)
			dev, _, err := connectTarget(target)
			if err != nil {
				results[i] = slot{addr: addr, err: err}
				return
			}
			meter, ok := dev.AsEmeter()
			if !ok {
				results[i] = slot{addr: dev.Addr(), err: fmt.Errorf("%s has no energy meter", dev)}
				return
			}
			reading, err := meter.CurrentEnergy()
			results[i] = slot{addr: dev.Addr(), reading: reading, err: err}
		}(i, target)
	}
	wg.Wait()

	if jsonOutput {
		out := make([]energyJSON, 0, len(results))
		for _, r := range results {
			row := energyJSON{Addr: r.addr, Reading: r.reading}
			if r.err != nil {
				row.Error = r.err.Error()
			}
			out = append(out, row)
		}
		return printJSON(out)
	}

	failed := 0
	table := ui.NewTable()
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render(fmt.Sprintf("%s: %v", r.addr, r.err)))
			failed++
			continue
		}
		table.AddRow([][2]string{
			{"Address", r.addr},
			{"Voltage", fmt.Sprintf("%.1fV", r.reading.Voltage)},
			{"Current", fmt.Sprintf("%.3fA", r.reading.Current)},
			{"Power", fmt.Sprintf("%.1fW", r.reading.Power)},
			{"Total", fmt.Sprintf("%.3fkWh", r.reading.Total)},
		})
	}
	if !table.Empty() {
		fmt.Println(table.Render())
	}
	if failed == len(results) {
		return fmt.Errorf("no devices answered")
	}
	return nil
}

// aliasCmd renames a device
var aliasCmd = &cobra.Command{
	Use:   "alias <device> <new-alias>",
	Short: "Rename a device",
	Long: `Set the alias a device reports about itself.

This changes the name stored on the device, not the local nickname;
use 'remember' for nicknames.`,
	Example: `  kasalink alias 192.168.0.21 "Desk Lamp"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runAlias,
}

func runAlias(cmd *cobra.Command, args []string) error {
	dev, _, err := connectTarget(args[0])
	if err != nil {
		return err
	}
	if err := dev.Actions().SetAlias(args[1]); err != nil {
		return err
	}
	return finishActions(fmt.Sprintf("alias %q", args[1]),
		[]actionResult{{addr: dev.Addr()}})
}

// rememberCmd saves a nickname in the local registry
var rememberCmd = &cobra.Command{
	Use:   "remember <name> <address>",
	Short: "Save a device under a nickname",
	Long: `Save a device address under a nickname in the local registry.

The device is contacted once to verify the address and record its model
and device ID. Later commands accept the nickname wherever they accept
an address.`,
	Example: `  kasalink remember desk-lamp 192.168.0.21
  kasalink status desk-lamp`,
	Args: cobra.ExactArgs(2),
	RunE: runRemember,
}

func runRemember(cmd *cobra.Command, args []string) error {
	name, addr := args[0], args[1]
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, strconv.Itoa(devicePort))
	}

	conn := transport.NewTCPWithTimeout(commandTimeout())
	dev, info, err := device.ConnectWith(addr, conn)
	if err != nil {
		return fmt.Errorf("cannot reach %s: %w", addr, err)
	}

	reg := registry()
	reg.Remember(name, addr, info.Model, info.DeviceID)
	if err := reg.Save(); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}

	fmt.Printf("Saved %s (%s) as %q\n", addr, dev.Kind(), name)
	return nil
}

// forgetCmd removes a nickname from the local registry
var forgetCmd = &cobra.Command{
	Use:     "forget <name>",
	Short:   "Remove a saved nickname",
	Example: `  kasalink forget desk-lamp`,
	Args:    cobra.ExactArgs(1),
	RunE:    runForget,
}

func runForget(cmd *cobra.Command, args []string) error {
	reg := registry()
	if !reg.Forget(args[0]) {
		return fmt.Errorf("no saved device named %q", args[0])
	}
	if err := reg.Save(); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}
	fmt.Printf("Forgot %q\n", args[0])
	return nil
}

// devicesCmd lists the saved registry
var devicesCmd = &cobra.Command{
	Use:     "devices",
	Short:   "List saved devices",
	Example: `  kasalink devices`,
	Args:    cobra.NoArgs,
	RunE:    runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	reg := registry()

	names := make([]string, 0, len(reg.Devices))
	for name := range reg.Devices {
		names = append(names, name)
	}
	sort.Strings(names)

	if jsonOutput {
		type savedJSON struct {
			Name     string `json:"name"`
			Addr     string `json:"addr"`
			Model    string `json:"model,omitempty"`
			DeviceID string `json:"device_id,omitempty"`
		}
		out := make([]savedJSON, 0, len(names))
		for _, name := range names {
			saved := reg.Devices[name]
			out = append(out, savedJSON{
				Name:     name,
				Addr:     saved.Addr,
				Model:    saved.Model,
				DeviceID: saved.DeviceID,
			})
		}
		return printJSON(out)
	}

	if len(names) == 0 {
		fmt.Println("No saved devices. Use 'kasalink remember' to add one.")
		return nil
	}

	table := ui.NewTable()
	for _, name := range names {
		saved := reg.Devices[name]
		lastSeen := "-"
		if !saved.LastSeen.IsZero() {
			lastSeen = saved.LastSeen.Format("2006-01-02 15:04")
		}
		table.AddRow([][2]string{
			{"Name", name},
			{"Address", saved.Addr},
			{"Model", saved.Model},
			{"Last seen", lastSeen},
		})
	}
	fmt.Println(table.Render())
	return nil
}

// browseCmd launches the interactive TUI browser
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse and control devices interactively",
	Long: `Launch an interactive terminal browser.

The browser discovers devices on the local network, lists them with
their power state, and toggles the selected device with the space bar.
Press 'r' to rescan and 'q' to quit.`,
	Example: `  kasalink browse
  # Or simply (browse is the default):
  kasalink`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	p := tea.NewProgram(tui.New(discoverWindow()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser error: %w", err)
	}
	return nil
}
