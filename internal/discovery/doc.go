// Package discovery finds Kasa devices on the local network.
//
// Kasa devices answer a UDP broadcast probe on port 9999 with their
// system info. Discovery sends one probe and then collects replies for a
// fixed wall-clock window:
//  1. Open a broadcast-capable UDP socket on an ephemeral port
//  2. Broadcast an obfuscated {"system":{"get_sysinfo":{}}} probe
//  3. Collect reply datagrams until the timeout elapses
//  4. Key replies by source address; the most recent reply per address wins
//
// The contract is best effort across many peers: a malformed reply is
// logged at debug level and dropped, never aborting the scan, and a
// window with no replies yields an empty result rather than an error.
// Termination is purely time-based since the number of devices on the
// network is unknown in advance.
//
// # Network Requirements
//
// - The local interface must allow sending to the broadcast address
// - Devices must be on the same broadcast domain
// - Firewalls must not filter UDP port 9999
package discovery
