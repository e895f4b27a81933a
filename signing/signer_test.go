package signing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerSign(t *testing.T) {
	ctx := MustCreateContext(Secp256k1AlgorithmName)
	signer := NewSigner(ctx, mustPrivateKey(t, pinnedPrivateKeyHex))

	sig, err := signer.Sign([]byte(pinnedPayload))
	require.NoError(t, err)
	assert.Equal(t, pinnedSignatureHex, sig)

	pub, err := signer.GetPublicKey()
	require.NoError(t, err)
	assert.Equal(t, pinnedPublicKeyHex, pub.Hex())

	ok, err := signer.Context().Verify(sig, []byte(pinnedPayload), pub)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSignerPropagatesErrors(t *testing.T) {
	ctx := MustCreateContext(Secp256k1AlgorithmName)
	signer := NewSigner(ctx, mustPrivateKey(t, curveOrderHex))

	_, err := signer.Sign([]byte(pinnedPayload))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = signer.GetPublicKey()
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}
