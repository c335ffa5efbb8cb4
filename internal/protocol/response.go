package protocol

import (
	"encoding/json"
	"fmt"
)

// Section extracts the raw JSON object at module/op within a decoded
// response payload. Fields outside the requested path are ignored, so
// firmware additions never break extraction. A missing module or
// operation, or a payload that is not a JSON object, is a KindProtocol
// error.
func Section(raw []byte, module, op string) (json.RawMessage, error) {
	var modules map[string]json.RawMessage
	if err := json.Unmarshal(raw, &modules); err != nil {
		return nil, NewProtocolError("", "response is not a JSON object", err)
	}

	modRaw, ok := modules[module]
	if !ok {
		return nil, NewProtocolError("", fmt.Sprintf("response lacks module %q", module), nil)
	}

	var ops map[string]json.RawMessage
	if err := json.Unmarshal(modRaw, &ops); err != nil {
		return nil, NewProtocolError("", fmt.Sprintf("module %q is not a JSON object", module), err)
	}

	opRaw, ok := ops[op]
	if !ok {
		return nil, NewProtocolError("", fmt.Sprintf("module %q lacks operation %q", module, op), nil)
	}

	return opRaw, nil
}

// opResult is the status envelope every operation result embeds.
type opResult struct {
	ErrCode *int   `json:"err_code"`
	ErrMsg  string `json:"err_msg"`
}

// CheckErrCode validates the err_code embedded in an operation section.
// A missing err_code field or a non-zero value is a KindProtocol error.
func CheckErrCode(section json.RawMessage) error {
	var res opResult
	if err := json.Unmarshal(section, &res); err != nil {
		return NewProtocolError("", "operation result is not a JSON object", err)
	}
	if res.ErrCode == nil {
		return NewProtocolError("", "operation result lacks err_code", nil)
	}
	if *res.ErrCode != 0 {
		msg := fmt.Sprintf("device reported err_code %d", *res.ErrCode)
		if res.ErrMsg != "" {
			msg = fmt.Sprintf("%s (%s)", msg, res.ErrMsg)
		}
		return NewProtocolError("", msg, nil)
	}
	return nil
}

// Result extracts the module/op section and validates its err_code in one
// step. This is the common path for every command round trip.
func Result(raw []byte, module, op string) (json.RawMessage, error) {
	section, err := Section(raw, module, op)
	if err != nil {
		return nil, err
	}
	if err := CheckErrCode(section); err != nil {
		return nil, err
	}
	return section, nil
}
