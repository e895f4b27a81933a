// Package testutil holds pinned secp256k1 fixtures shared by package tests.
// Every value was produced independently of this module and is checked
// byte for byte.
package testutil

const (
	PrivateKeyHex = "2f1e7b7a130d7ba9da0068b3bb0ba1d79e7e77110302c9f746c3c2a63fe40088"
	PublicKeyHex  = "026a2c795a9776f75464aa3bda3534c3154a6e91b357b1181d3f515110f84b67c5"

	OtherPrivateKeyHex = "80378f103c7f1ea5856d50f2dcdf38b97da5986e9b32297be2de3c8444c2c6ff"
	OtherPublicKeyHex  = "023d6893248317c5c3600bc35611021d37085bb24a5dcae3c3d0f7960a954d93fc"

	// MakeAddress("xo", "gameA")
	GameAAddress = "5b7349455724209c64877d4297a744d66ff454b5950281a63eb1b259bb6681ea270bf4"

	FamilyName    = "xo"
	FamilyVersion = "1.0"

	// transaction "gameA,create," with nonce FirstNonce
	FirstNonce   = "nonce-0001"
	FirstPayload = "gameA,create,"

	FirstHeaderHex = "0a4230323661326337393561393737366637353436346161336264613335333463333135346136653931623335376231" +
		"31383164336635313531313066383462363763351a02786f2203312e302a463562373334393435353732343230396336" +
		"343837376434323937613734346436366666343534623539353032383161363365623162323539626236363831656132" +
		"3730626634320a6e6f6e63652d303030313a463562373334393435353732343230396336343837376434323937613734" +
		"34643636666634353462353935303238316136336562316232353962623636383165613237306266344a800165386438" +
		"636539383938616530353762306263383832343539626634666566656134363035316363353934363435333632346366" +
		"343836643364306139343637313266613034313161333665336137376530653762653331306536626563636565353438" +
		"303939376433363963333439313665316333313538663061366232305242303236613263373935613937373666373534" +
		"363461613362646133353334633331353461366539316233353762313138316433663531353131306638346236376335"

	FirstTxnID = "0b5cb4af6a21941f2e6490e81c4ccae9945b77a32c92e931b3cc6830cfd01c22117521317c5ff612c17e2846b9008cfa" +
		"4f625d5b91792f1bc8fd70b2ea6f8b14"

	// transaction "gameA,take,5" with nonce SecondNonce
	SecondNonce   = "nonce-0002"
	SecondPayload = "gameA,take,5"

	SecondTxnID = "75e7e7fe1b55d04c93e49c5b9f7bb4430e9ddeb1990ddb20c63d440da44a304756197198b64dadb371eea5216208e04b" +
		"3ab60b9a8181f128afaceb84a166919e"

	// batch header over [FirstTxnID, SecondTxnID]
	BatchHeaderHex = "0a4230323661326337393561393737366637353436346161336264613335333463333135346136653931623335376231" +
		"313831643366353135313130663834623637633512800130623563623461663661323139343166326536343930653831" +
		"633463636165393934356237376133326339326539333162336363363833306366643031633232313137353231333137" +
		"633566663631326331376532383436623930303863666134663632356435623931373932663162633866643730623265" +
		"613666386231341280013735653765376665316235356430346339336534396335623966376262343433306539646465" +
		"623139393064646232306336336434343064613434613330343735363139373139386236346461646233373165656135" +
		"323136323038653034623361623630623961383138316631323861666163656238346131363639313965"

	BatchID = "e029ffadc2d5b6f189f22007e5fda684e6f6b77be8af7f3c5c5f2dd3c07223767b2ebfc23c797aa967478517b4b3902a" +
		"3e20aabd050f2fac7a58cc116940d7be"
)
