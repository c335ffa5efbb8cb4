package protocol

import (
	"strings"
	"testing"
)

func TestSection(t *testing.T) {
	raw := []byte(`{
		"system": {
			"get_sysinfo": {"alias": "desk plug", "relay_state": 1, "err_code": 0}
		},
		"emeter": {
			"get_realtime": {"power": 12.5, "err_code": 0}
		},
		"future_module": {"future_op": {"whatever": true}}
	}`)

	tests := []struct {
		name       string
		module     string
		op         string
		wantErr    bool
		wantSubstr string
	}{
		{
			name:       "sysinfo section present",
			module:     ModuleSystem,
			op:         OpGetSysinfo,
			wantSubstr: `"alias"`,
		},
		{
			name:       "emeter section present alongside others",
			module:     ModuleEmeter,
			op:         OpGetRealtime,
			wantSubstr: `"power"`,
		},
		{
			name:    "missing module",
			module:  ModuleDimmer,
			op:      OpSetBrightness,
			wantErr: true,
		},
		{
			name:    "missing operation",
			module:  ModuleSystem,
			op:      OpSetRelayState,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section, err := Section(raw, tt.module, tt.op)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Section() = %s, want error", section)
				}
				if !IsKind(err, KindProtocol) {
					t.Errorf("Section() error = %v, want KindProtocol", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Section() error = %v", err)
			}
			if !strings.Contains(string(section), tt.wantSubstr) {
				t.Errorf("Section() = %s, want substring %s", section, tt.wantSubstr)
			}
		})
	}
}

func TestSectionInvalidJSON(t *testing.T) {
	_, err := Section([]byte("not json at all"), ModuleSystem, OpGetSysinfo)
	if !IsKind(err, KindProtocol) {
		t.Errorf("Section() error = %v, want KindProtocol", err)
	}
}

func TestCheckErrCode(t *testing.T) {
	tests := []struct {
		name    string
		section string
		wantErr bool
	}{
		{"success", `{"err_code":0}`, false},
		{"success with extra fields", `{"relay_state":1,"err_code":0,"new_field":"x"}`, false},
		{"device failure with message", `{"err_code":-3,"err_msg":"invalid argument"}`, true},
		{"device failure without message", `{"err_code":1}`, true},
		{"missing err_code", `{"relay_state":1}`, true},
		{"not an object", `[1,2,3]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckErrCode([]byte(tt.section))
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckErrCode(%s) error = %v, wantErr %v", tt.section, err, tt.wantErr)
			}
			if err != nil && !IsKind(err, KindProtocol) {
				t.Errorf("CheckErrCode() error = %v, want KindProtocol", err)
			}
		})
	}
}

func TestResult(t *testing.T) {
	ok := []byte(`{"system":{"set_relay_state":{"err_code":0}}}`)
	if _, err := Result(ok, ModuleSystem, OpSetRelayState); err != nil {
		t.Errorf("Result() error = %v", err)
	}

	failed := []byte(`{"system":{"set_relay_state":{"err_code":-1,"err_msg":"nope"}}}`)
	if _, err := Result(failed, ModuleSystem, OpSetRelayState); !IsKind(err, KindProtocol) {
		t.Errorf("Result() error = %v, want KindProtocol", err)
	}
}
