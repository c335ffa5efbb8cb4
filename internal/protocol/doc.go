// Package protocol implements the TP-Link Kasa smart device protocol.
//
// This package handles framing, command construction, and response
// extraction for the JSON-over-TCP/UDP protocol spoken by Kasa smart
// plugs (HS100/HS110) and smart bulbs (LB110).
//
// # Protocol Overview
//
// Kasa devices listen on TCP and UDP port 9999. Every exchange carries a
// single UTF-8 JSON object, obfuscated with the autokey XOR cipher from
// the codec package and framed with a length prefix:
//   - Length: 4 bytes, big-endian, byte count of the obfuscated payload
//   - Payload: exactly that many obfuscated bytes
//
// # Command Shape
//
// Commands are nested JSON objects. The outer key names a device module,
// the inner key names an operation within it, and the operation value
// carries the arguments:
//
//	{"system":{"get_sysinfo":{}}}
//	{"system":{"set_relay_state":{"state":1}}}
//	{"smartlife.iot.dimmer":{"set_brightness":{"brightness":70}}}
//
// Responses mirror the same module/operation nesting. Each operation
// result embeds an "err_code" field (0 = success) and, on failure,
// usually an "err_msg". The schema is additive: fields this package does
// not recognize are ignored, so newer firmware cannot break extraction.
//
// # Error Handling
//
// The package distinguishes four error kinds:
//   - Network: dial, read, or write failures, including timeouts
//   - Framing: declared length inconsistent with available bytes
//   - Protocol: invalid JSON, missing sections, non-zero err_code
//   - Validation: caller-supplied argument rejected before any I/O
//
// All errors are *Error values, wrap their cause, and carry the kind for
// errors.As based dispatch.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use.
package protocol
