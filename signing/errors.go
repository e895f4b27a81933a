package signing

import "errors"

var (
	ErrInvalidPrivateKey  = errors.New("signing: invalid private key")
	ErrInvalidPublicKey   = errors.New("signing: invalid public key")
	ErrInvalidSignature   = errors.New("signing: invalid signature")
	ErrUnknownAlgorithm   = errors.New("signing: algorithm is not implemented")
	ErrDuplicateAlgorithm = errors.New("signing: algorithm already registered")
)
