package device

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/kasalink/kasalink/internal/protocol"
)

// mockSender is a scripted transport. handle receives the command payload
// and returns the response payload; every call is recorded.
type mockSender struct {
	handle func(command []byte) ([]byte, error)
	calls  [][]byte
}

func (m *mockSender) Send(addr string, command []byte) ([]byte, error) {
	m.calls = append(m.calls, command)
	if m.handle == nil {
		return nil, fmt.Errorf("unexpected Send of %s", command)
	}
	return m.handle(command)
}

// commandPath returns "module.op" for a single-module command payload.
func commandPath(t *testing.T, command []byte) string {
	t.Helper()
	var modules map[string]map[string]json.RawMessage
	if err := json.Unmarshal(command, &modules); err != nil {
		t.Fatalf("command is not valid JSON: %s", command)
	}
	for module, ops := range modules {
		for op := range ops {
			return module + "." + op
		}
	}
	t.Fatalf("command has no operation: %s", command)
	return ""
}

// fakePlug simulates an HS-series plug holding relay state.
type fakePlug struct {
	model      string
	relayState int
}

func (f *fakePlug) respond(t *testing.T, command []byte) ([]byte, error) {
	switch path := commandPath(t, command); path {
	case "system.get_sysinfo":
		return []byte(fmt.Sprintf(
			`{"system":{"get_sysinfo":{"alias":"test plug","model":%q,"relay_state":%d,"err_code":0}}}`,
			f.model, f.relayState)), nil
	case "system.set_relay_state":
		var cmd struct {
			System struct {
				SetRelayState struct {
					State int `json:"state"`
				} `json:"set_relay_state"`
			} `json:"system"`
		}
		if err := json.Unmarshal(command, &cmd); err != nil {
			return nil, err
		}
		f.relayState = cmd.System.SetRelayState.State
		return []byte(`{"system":{"set_relay_state":{"err_code":0}}}`), nil
	case "emeter.get_realtime":
		return []byte(`{"emeter":{"get_realtime":{"voltage":231.2,"current":0.21,"power":47.8,"total":1.92,"err_code":0}}}`), nil
	default:
		return nil, fmt.Errorf("fake plug cannot answer %s", path)
	}
}

func TestConnectResolvesHS110(t *testing.T) {
	fake := &fakePlug{model: "HS110(EU)", relayState: 0}
	mock := &mockSender{handle: func(c []byte) ([]byte, error) { return fake.respond(t, c) }}

	dev, info, err := ConnectWith("192.168.0.20", mock)
	if err != nil {
		t.Fatalf("ConnectWith() error = %v", err)
	}
	if dev.Kind() != KindHS110 {
		t.Errorf("Kind() = %v, want KindHS110", dev.Kind())
	}
	if info.Alias != "test plug" {
		t.Errorf("Alias = %q, want %q", info.Alias, "test plug")
	}
	if _, ok := dev.AsSwitch(); !ok {
		t.Error("HS110 must expose the switch capability")
	}
	if _, ok := dev.AsEmeter(); !ok {
		t.Error("HS110 must expose the energy metering capability")
	}
	if len(mock.calls) != 1 || commandPath(t, mock.calls[0]) != "system.get_sysinfo" {
		t.Errorf("Connect should issue exactly one sysinfo query, got %d calls", len(mock.calls))
	}
}

func TestSwitchOnThenIsOn(t *testing.T) {
	fake := &fakePlug{model: "HS100(UK)", relayState: 0}
	mock := &mockSender{handle: func(c []byte) ([]byte, error) { return fake.respond(t, c) }}

	dev := NewHS100With("192.168.0.21", mock)

	on, err := dev.IsOn()
	if err != nil {
		t.Fatalf("IsOn() error = %v", err)
	}
	if on {
		t.Fatal("plug should start off")
	}

	if err := dev.SwitchOn(); err != nil {
		t.Fatalf("SwitchOn() error = %v", err)
	}

	// The relay command itself must be the documented shape.
	relayCmd := mock.calls[1]
	var sent map[string]map[string]map[string]int
	if err := json.Unmarshal(relayCmd, &sent); err != nil {
		t.Fatalf("relay command is not valid JSON: %s", relayCmd)
	}
	if sent["system"]["set_relay_state"]["state"] != 1 {
		t.Errorf("SwitchOn sent %s, want state 1", relayCmd)
	}

	on, err = dev.IsOn()
	if err != nil {
		t.Fatalf("IsOn() error = %v", err)
	}
	if !on {
		t.Error("IsOn() should reflect relay_state 1 after SwitchOn")
	}
}

func TestHS110CurrentEnergy(t *testing.T) {
	fake := &fakePlug{model: "HS110(EU)", relayState: 1}
	mock := &mockSender{handle: func(c []byte) ([]byte, error) { return fake.respond(t, c) }}

	dev := NewHS110With("192.168.0.22", mock)
	reading, err := dev.CurrentEnergy()
	if err != nil {
		t.Fatalf("CurrentEnergy() error = %v", err)
	}
	if reading.Power != 47.8 || reading.Voltage != 231.2 {
		t.Errorf("reading = %+v, want power 47.8 and voltage 231.2", reading)
	}
}

func TestSetBrightnessValidationSendsNothing(t *testing.T) {
	tests := []struct {
		brightness int
		wantErr    bool
	}{
		{-1, true},
		{0, false},
		{70, false},
		{100, false},
		{101, true},
		{120, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("brightness %d", tt.brightness), func(t *testing.T) {
			mock := &mockSender{handle: func(c []byte) ([]byte, error) {
				return []byte(`{"smartlife.iot.dimmer":{"set_brightness":{"err_code":0}}}`), nil
			}}
			dev := NewLB110With("192.168.0.30", mock)

			err := dev.SetBrightness(tt.brightness)
			if tt.wantErr {
				if !protocol.IsKind(err, protocol.KindValidation) {
					t.Errorf("SetBrightness(%d) error = %v, want KindValidation", tt.brightness, err)
				}
				if len(mock.calls) != 0 {
					t.Errorf("rejected SetBrightness still sent %d commands", len(mock.calls))
				}
				return
			}
			if err != nil {
				t.Fatalf("SetBrightness(%d) error = %v", tt.brightness, err)
			}
			if len(mock.calls) != 1 {
				t.Errorf("SetBrightness sent %d commands, want 1", len(mock.calls))
			}
		})
	}
}

func TestLB110PowerAndBrightness(t *testing.T) {
	lightState := &LightState{OnOff: 1, Brightness: 40}
	mock := &mockSender{}
	mock.handle = func(command []byte) ([]byte, error) {
		switch path := commandPath(t, command); path {
		case "system.get_sysinfo":
			raw, _ := json.Marshal(lightState)
			return []byte(fmt.Sprintf(
				`{"system":{"get_sysinfo":{"model":"LB110(EU)","light_state":%s,"err_code":0}}}`, raw)), nil
		case "smartlife.iot.smartbulb.lightingservice.transition_light_state":
			lightState.OnOff = 0
			return []byte(`{"smartlife.iot.smartbulb.lightingservice":{"transition_light_state":{"err_code":0}}}`), nil
		default:
			return nil, fmt.Errorf("fake bulb cannot answer %s", path)
		}
	}

	dev := NewLB110With("192.168.0.31", mock)

	on, err := dev.IsOn()
	if err != nil {
		t.Fatalf("IsOn() error = %v", err)
	}
	if !on {
		t.Error("bulb should report on")
	}

	brightness, err := dev.Brightness()
	if err != nil {
		t.Fatalf("Brightness() error = %v", err)
	}
	if brightness != 40 {
		t.Errorf("Brightness() = %d, want 40", brightness)
	}

	if err := dev.SwitchOff(); err != nil {
		t.Fatalf("SwitchOff() error = %v", err)
	}
	if on, _ := dev.IsOn(); on {
		t.Error("bulb should report off after SwitchOff")
	}
}

func TestRebootAndSetAlias(t *testing.T) {
	mock := &mockSender{}
	mock.handle = func(command []byte) ([]byte, error) {
		switch path := commandPath(t, command); path {
		case "system.reboot":
			return []byte(`{"system":{"reboot":{"err_code":0}}}`), nil
		case "system.set_dev_alias":
			return []byte(`{"system":{"set_dev_alias":{"err_code":0}}}`), nil
		default:
			return nil, fmt.Errorf("unexpected %s", path)
		}
	}

	dev := NewRawDeviceWith("192.168.0.40", mock)

	if err := dev.Reboot(3 * time.Second); err != nil {
		t.Fatalf("Reboot() error = %v", err)
	}
	var reboot map[string]map[string]map[string]int
	if err := json.Unmarshal(mock.calls[0], &reboot); err != nil {
		t.Fatalf("reboot command is not valid JSON: %s", mock.calls[0])
	}
	if reboot["system"]["reboot"]["delay"] != 3 {
		t.Errorf("Reboot sent %s, want delay 3", mock.calls[0])
	}

	if err := dev.SetAlias("porch light"); err != nil {
		t.Fatalf("SetAlias() error = %v", err)
	}
}

func TestDeviceErrCodePropagates(t *testing.T) {
	mock := &mockSender{handle: func(c []byte) ([]byte, error) {
		return []byte(`{"system":{"set_relay_state":{"err_code":-3,"err_msg":"invalid argument"}}}`), nil
	}}
	dev := NewHS100With("192.168.0.50", mock)

	err := dev.SwitchOn()
	if !protocol.IsKind(err, protocol.KindProtocol) {
		t.Errorf("SwitchOn() error = %v, want KindProtocol", err)
	}
}
