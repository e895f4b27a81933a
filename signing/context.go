package signing

// Context is a signing backend for one algorithm. Implementations hold no
// mutable state and are safe for concurrent use.
type Context interface {
	// AlgorithmName is the name the context is registered under.
	AlgorithmName() string

	// Sign signs data with privateKey and returns the hex encoded signature.
	Sign(data []byte, privateKey PrivateKey) (string, error)

	// Verify reports whether signature was produced over data by the private
	// key belonging to publicKey. A well-formed signature that does not match
	// yields false and a nil error.
	Verify(signature string, data []byte, publicKey PublicKey) (bool, error)

	// GetPublicKey derives the public key of privateKey.
	GetPublicKey(privateKey PrivateKey) (PublicKey, error)

	// NewRandomPrivateKey draws a fresh, valid private key.
	NewRandomPrivateKey() PrivateKey
}
