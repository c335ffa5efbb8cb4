package device

import (
	"fmt"
	"strings"

	"github.com/kasalink/kasalink/internal/transport"
)

// Kind tags the closed set of recognized hardware variants plus the
// generic fallback.
type Kind int

const (
	// KindUnknown is the generic fallback for unrecognized models.
	KindUnknown Kind = iota
	KindHS100
	KindHS110
	KindLB110
)

// String returns the variant's model family name.
func (k Kind) String() string {
	switch k {
	case KindHS100:
		return "HS100"
	case KindHS110:
		return "HS110"
	case KindLB110:
		return "LB110"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Device is the tagged union over the recognized variants. Exactly one
// variant pointer is set, matching the kind. Callers reach capabilities
// through the accessor methods, which dispatch exhaustively on the tag.
type Device struct {
	kind  Kind
	hs100 *HS100
	hs110 *HS110
	lb110 *LB110
	raw   *RawDevice
}

// Kind returns the variant tag.
func (d Device) Kind() Kind {
	return d.kind
}

// Addr returns the device's network address.
func (d Device) Addr() string {
	return d.Actions().Addr()
}

// String describes the device for logs and tables.
func (d Device) String() string {
	return fmt.Sprintf("%s at %s", d.kind, d.Addr())
}

// Actions returns the common capability, available on every variant.
func (d Device) Actions() Actions {
	switch d.kind {
	case KindHS100:
		return d.hs100
	case KindHS110:
		return d.hs110
	case KindLB110:
		return d.lb110
	default:
		if d.raw == nil {
			// Zero-value Device, as returned alongside an error.
			return &RawDevice{}
		}
		return d.raw
	}
}

// AsSwitch returns the power control capability, if this variant has it.
func (d Device) AsSwitch() (Switch, bool) {
	switch d.kind {
	case KindHS100:
		return d.hs100, true
	case KindHS110:
		return d.hs110, true
	case KindLB110:
		return d.lb110, true
	default:
		return nil, false
	}
}

// AsDimmer returns the brightness capability, if this variant has it.
func (d Device) AsDimmer() (Dimmer, bool) {
	if d.kind == KindLB110 {
		return d.lb110, true
	}
	return nil, false
}

// AsEmeter returns the energy metering capability, if this variant has it.
func (d Device) AsEmeter() (Emeter, bool) {
	switch d.kind {
	case KindHS110:
		return d.hs110, true
	case KindLB110:
		return d.lb110, true
	default:
		return nil, false
	}
}

// ResolveModel maps a self-reported model string to a variant tag by
// prefix match. Pure and total: unrecognized models yield KindUnknown,
// never an error. Model strings look like "HS110(EU)" or "LB110(US)".
func ResolveModel(model string) Kind {
	switch {
	case strings.HasPrefix(model, "HS100"):
		return KindHS100
	case strings.HasPrefix(model, "HS110"):
		return KindHS110
	case strings.HasPrefix(model, "LB110"):
		return KindLB110
	default:
		return KindUnknown
	}
}

// Resolve builds a device handle for addr from its parsed sysinfo,
// talking TCP with default timeouts.
func Resolve(addr string, info *SysInfo) Device {
	return ResolveWith(addr, info, transport.NewTCP())
}

// ResolveWith is Resolve with an explicit transport.
func ResolveWith(addr string, info *SysInfo, conn transport.Sender) Device {
	model := ""
	if info != nil {
		model = info.Model
	}

	switch ResolveModel(model) {
	case KindHS100:
		return Device{kind: KindHS100, hs100: NewHS100With(addr, conn)}
	case KindHS110:
		return Device{kind: KindHS110, hs110: NewHS110With(addr, conn)}
	case KindLB110:
		return Device{kind: KindLB110, lb110: NewLB110With(addr, conn)}
	default:
		return Device{kind: KindUnknown, raw: NewRawDeviceWith(addr, conn)}
	}
}

// FromData resolves a device from a discovery payload. A payload that
// does not parse as a sysinfo response degrades to the generic variant,
// matching discovery's best-effort contract.
func FromData(addr string, data DeviceData) Device {
	info, err := data.SysInfo()
	if err != nil {
		return ResolveWith(addr, nil, transport.NewTCP())
	}
	return Resolve(addr, info)
}

// Connect is the known-address entry point: query the device at addr,
// then re-interpret the handle as the matching concrete variant. Fails
// with a network or protocol error if the device is unreachable or its
// response is malformed.
func Connect(addr string) (Device, *SysInfo, error) {
	return ConnectWith(addr, transport.NewTCP())
}

// ConnectWith is Connect with an explicit transport.
func ConnectWith(addr string, conn transport.Sender) (Device, *SysInfo, error) {
	raw := NewRawDeviceWith(addr, conn)
	info, err := raw.SysInfo()
	if err != nil {
		return Device{}, nil, err
	}
	return ResolveWith(addr, info, conn), info, nil
}
