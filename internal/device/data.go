package device

// DeviceData pairs a device address with its most recent raw response
// payload, before parsing. Discovery produces one per responding peer;
// a later response from the same address replaces the earlier value.
type DeviceData struct {
	// Addr is the device's TCP address (host:port).
	Addr string

	// Raw is the decoded (deobfuscated) JSON response payload.
	Raw []byte
}

// SysInfo parses the wrapped payload as a system info response.
func (d DeviceData) SysInfo() (*SysInfo, error) {
	return ParseSysInfo(d.Raw)
}
