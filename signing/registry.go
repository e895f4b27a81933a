package signing

import (
	"fmt"
	"sort"
	"sync"
)

// Algorithm describes a signing backend that can be selected by name.
// ParsePrivateKey and ParsePublicKey decode hex encoded keys of the algorithm.
type Algorithm struct {
	Name            string
	NewContext      func() Context
	ParsePrivateKey func(hexKey string) (PrivateKey, error)
	ParsePublicKey  func(hexKey string) (PublicKey, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Algorithm{}
)

func init() {
	MustRegister(Algorithm{
		Name:       Secp256k1AlgorithmName,
		NewContext: func() Context { return NewSecp256k1Context() },
		ParsePrivateKey: func(hexKey string) (PrivateKey, error) {
			return Secp256k1PrivateKeyFromHex(hexKey)
		},
		ParsePublicKey: func(hexKey string) (PublicKey, error) {
			return Secp256k1PublicKeyFromHex(hexKey)
		},
	})
}

// Register adds an algorithm. Names are unique and registrations are
// permanent.
func Register(alg Algorithm) error {
	if alg.Name == "" || alg.NewContext == nil || alg.ParsePrivateKey == nil || alg.ParsePublicKey == nil {
		return fmt.Errorf("signing: incomplete algorithm registration %q", alg.Name)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[alg.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAlgorithm, alg.Name)
	}
	registry[alg.Name] = alg
	return nil
}

func MustRegister(alg Algorithm) {
	if err := Register(alg); err != nil {
		panic(err)
	}
}

func lookup(name string) (Algorithm, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	alg, ok := registry[name]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return alg, nil
}

// CreateContext returns a new context for the named algorithm. There is no
// default: an unknown name is always an error.
func CreateContext(name string) (Context, error) {
	alg, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return alg.NewContext(), nil
}

// MustCreateContext is CreateContext for startup wiring, where an unknown
// algorithm is a configuration error the process cannot run with.
func MustCreateContext(name string) Context {
	ctx, err := CreateContext(name)
	if err != nil {
		panic(fmt.Sprintf("Algorithm %s is not implemented", name))
	}
	return ctx
}

func ParsePrivateKey(algorithm, hexKey string) (PrivateKey, error) {
	alg, err := lookup(algorithm)
	if err != nil {
		return nil, err
	}
	return alg.ParsePrivateKey(hexKey)
}

func ParsePublicKey(algorithm, hexKey string) (PublicKey, error) {
	alg, err := lookup(algorithm)
	if err != nil {
		return nil, err
	}
	return alg.ParsePublicKey(hexKey)
}

// Algorithms lists registered algorithm names in sorted order.
func Algorithms() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
