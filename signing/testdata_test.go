package signing

const (
	pinnedPrivateKeyHex = "2f1e7b7a130d7ba9da0068b3bb0ba1d79e7e77110302c9f746c3c2a63fe40088"
	pinnedPublicKeyHex  = "026a2c795a9776f75464aa3bda3534c3154a6e91b357b1181d3f515110f84b67c5"

	// signature of "gameA,create," under pinnedPrivateKeyHex
	pinnedPayload      = "gameA,create,"
	pinnedSignatureHex = "ff6125cb6eceea5701c02002c65c8814411b6bd2a79054f9c77ecd01e08ecd98" +
		"2f8c2d0dbaed620427a4c4ff3b13115de9eef82ec6ea2e307e7702878dae14c0"
	// same r with S replaced by n - S
	pinnedHighSSignatureHex = "ff6125cb6eceea5701c02002c65c8814411b6bd2a79054f9c77ecd01e08ecd98" +
		"d073d2f245129dfbd85b3b00c4eceea0d0bfe4b7e85e720b415b5c0542882c81"

	emptyPayloadSignatureHex = "a5d3ff5f60b4f384987a531df223a5aacf848985f77047e2861a05703536508f" +
		"7264df7f82316c8914d1e37a44217419fdb724b19975e1748c037c9732a0e786"

	otherPrivateKeyHex = "80378f103c7f1ea5856d50f2dcdf38b97da5986e9b32297be2de3c8444c2c6ff"
	otherPublicKeyHex  = "023d6893248317c5c3600bc35611021d37085bb24a5dcae3c3d0f7960a954d93fc"

	curveOrderHex = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"
)
