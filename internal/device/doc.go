// Package device maps raw Kasa responses to typed device handles and
// capability interfaces.
//
// # Device Variants
//
// The recognized hardware set is closed: HS100 (smart plug), HS110
// (smart plug with energy metering), and LB110 (dimmable smart bulb).
// Anything else resolves to the generic RawDevice, which still answers
// info queries but supports no actions beyond the common set. Resolution
// is a pure prefix match on the self-reported model string and never
// fails - an unknown device is inspectable, just not actionable.
//
// # Capabilities
//
// Capabilities are Go interfaces implemented only by the variants whose
// hardware genuinely supports them:
//
//	Actions - info query, alias, location, reboot (all variants)
//	Switch  - power on/off (HS100, HS110, LB110)
//	Dimmer  - brightness 0-100 (LB110)
//	Emeter  - realtime energy readings (HS110, LB110)
//
// Calling an unsupported capability is unrepresentable: *HS100 simply has
// no SetBrightness method. Callers holding a Device union use the
// AsSwitch/AsDimmer/AsEmeter accessors, which return ok=false for
// variants outside the capability.
//
// # SysInfo additivity
//
// SysInfo parsing ignores unrecognized fields, so firmware additions
// never break the client. Capability membership is static per variant and
// never inferred from response content.
package device
