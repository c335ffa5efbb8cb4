// Package transport moves framed Kasa payloads over the network.
//
// The TCP form performs one self-contained round trip per call: dial,
// write one frame, read one frame, close. There is no pooling and no
// shared state, so concurrent calls never serialize on each other. Every
// operation carries an explicit timeout; nothing blocks forever.
//
// The UDP helpers open a broadcast-capable socket and send the discovery
// probe; the receive loop itself belongs to the discovery package, which
// owns the collection window.
package transport
