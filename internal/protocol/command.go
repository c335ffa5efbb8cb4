package protocol

import (
	"encoding/json"
	"fmt"
)

// Device module names. Plugs and bulbs expose overlapping functionality
// under different modules; the caller picks the one its hardware speaks.
const (
	ModuleSystem     = "system"
	ModuleDimmer     = "smartlife.iot.dimmer"
	ModuleLighting   = "smartlife.iot.smartbulb.lightingservice"
	ModuleEmeter     = "emeter"
	ModuleBulbEmeter = "smartlife.iot.common.emeter"
)

// Operation names within the modules above.
const (
	OpGetSysinfo    = "get_sysinfo"
	OpSetRelayState = "set_relay_state"
	OpSetBrightness = "set_brightness"
	OpTransition    = "transition_light_state"
	OpGetRealtime   = "get_realtime"
	OpReboot        = "reboot"
	OpSetDevAlias   = "set_dev_alias"
)

// Command builds the JSON bytes for a single module/operation request.
// Commands are composable at the JSON level, but every client operation in
// this library sends exactly one module at a time.
func Command(module, op string, args any) []byte {
	payload, err := json.Marshal(map[string]map[string]any{
		module: {op: args},
	})
	if err != nil {
		// Arguments are always plain structs of ints and strings;
		// marshalling them cannot fail at runtime.
		panic(fmt.Sprintf("protocol: cannot marshal command %s.%s: %v", module, op, err))
	}
	return payload
}

// GetSysinfo builds the system info query understood by every device.
func GetSysinfo() []byte {
	return Command(ModuleSystem, OpGetSysinfo, struct{}{})
}

// SetRelayState builds the plug relay command ({"state":1} or {"state":0}).
func SetRelayState(on bool) []byte {
	return Command(ModuleSystem, OpSetRelayState, struct {
		State int `json:"state"`
	}{State: boolToInt(on)})
}

// SetLightState builds the bulb on/off command via the lighting service.
func SetLightState(on bool) []byte {
	return Command(ModuleLighting, OpTransition, struct {
		OnOff int `json:"on_off"`
	}{OnOff: boolToInt(on)})
}

// SetBrightness builds the dimmer command. Range checking is the caller's
// responsibility; the builder itself is total.
func SetBrightness(brightness int) []byte {
	return Command(ModuleDimmer, OpSetBrightness, struct {
		Brightness int `json:"brightness"`
	}{Brightness: brightness})
}

// GetRealtime builds the realtime energy query. The module differs per
// hardware family: ModuleEmeter for plugs, ModuleBulbEmeter for bulbs.
func GetRealtime(module string) []byte {
	return Command(module, OpGetRealtime, struct{}{})
}

// Reboot builds the reboot command with a delay in whole seconds.
func Reboot(delaySeconds int) []byte {
	return Command(ModuleSystem, OpReboot, struct {
		Delay int `json:"delay"`
	}{Delay: delaySeconds})
}

// SetAlias builds the command renaming the device.
func SetAlias(alias string) []byte {
	return Command(ModuleSystem, OpSetDevAlias, struct {
		Alias string `json:"alias"`
	}{Alias: alias})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
