package utils

// NewShareToken returns the unguessable public handle for a tour share:
// 16 bytes of cryptographically secure randomness, hex-encoded to 32
// characters. Generated once per tour and stable across share updates.
func NewShareToken() (string, error) {
	return randomHex(16)
}
