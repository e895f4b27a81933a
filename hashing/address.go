package hashing

const (
	NamespacePrefixLength = 6
	resourceHashLength    = 64
	AddressLength         = NamespacePrefixLength + resourceHashLength
)

// NamespacePrefix is the leading part of every address in namespace.
func NamespacePrefix(namespace string) string {
	return Sha512Hex(namespace)[:NamespacePrefixLength]
}

// MakeAddress locates name inside namespace:
// sha512(namespace)[0:6] + sha512(name)[0:64], 70 hex characters.
func MakeAddress(namespace, name string) string {
	return NamespacePrefix(namespace) + Sha512Hex(name)[:resourceHashLength]
}

// IsAddress reports whether s is a well formed 70 character lowercase hex
// address.
func IsAddress(s string) bool {
	if len(s) != AddressLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
