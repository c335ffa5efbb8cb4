// Package codec implements the autokey XOR obfuscation used by TP-Link
// Kasa devices on every TCP and UDP exchange.
//
// Each byte of the stream is XORed with a running key byte. The key is
// seeded to 0xAB at the start of every message and then follows the
// ciphertext: when encrypting, the key for the next byte is the ciphertext
// byte just produced; when decrypting, it is the ciphertext byte just
// consumed. The scheme is reversible but provides no security - it only
// keeps the JSON payloads from being trivially readable on the wire.
//
// Both functions are pure and stateless; no key material is carried
// between calls, so the same plaintext always produces the same
// ciphertext.
package codec
