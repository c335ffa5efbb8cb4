package codec

// InitialKey is the fixed seed byte for the autokey stream. This value is
// a protocol constant observed on real Kasa hardware, not a tunable.
const InitialKey byte = 0xAB

// Encrypt obfuscates plaintext with the autokey XOR stream. The input is
// not modified; the returned slice is freshly allocated.
func Encrypt(plaintext []byte) []byte {
	key := InitialKey
	out := make([]byte, len(plaintext))
	for i, b := range plaintext {
		out[i] = b ^ key
		key = out[i]
	}
	return out
}

// Decrypt reverses Encrypt. For all inputs, Decrypt(Encrypt(b)) == b.
func Decrypt(ciphertext []byte) []byte {
	key := InitialKey
	out := make([]byte, len(ciphertext))
	for i, b := range ciphertext {
		out[i] = b ^ key
		key = b
	}
	return out
}
