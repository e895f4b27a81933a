package signing

// Signer binds a context to one private key. Every signature it produces
// uses that pair.
type Signer struct {
	context    Context
	privateKey PrivateKey
}

func NewSigner(context Context, privateKey PrivateKey) *Signer {
	return &Signer{context: context, privateKey: privateKey}
}

// Sign returns the hex encoded signature of data.
func (s *Signer) Sign(data []byte) (string, error) {
	return s.context.Sign(data, s.privateKey)
}

func (s *Signer) GetPublicKey() (PublicKey, error) {
	return s.context.GetPublicKey(s.privateKey)
}

// Context returns the backend the signer signs with.
func (s *Signer) Context() Context {
	return s.context
}
