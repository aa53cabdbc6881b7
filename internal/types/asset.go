package types

import "fmt"

// AssetKind identifies which of the two custodied assets a stake is
// denominated in.
type AssetKind string

const (
	AssetNative AssetKind = "native"
	AssetToken  AssetKind = "token"
)

func (a AssetKind) ToString() string {
	return string(a)
}

func (a AssetKind) Valid() bool {
	return a == AssetNative || a == AssetToken
}

func ParseAssetKind(s string) (AssetKind, error) {
	switch AssetKind(s) {
	case AssetNative:
		return AssetNative, nil
	case AssetToken:
		return AssetToken, nil
	default:
		return "", fmt.Errorf("unknown asset kind: %s", s)
	}
}

// AssetKinds returns both asset kinds in a stable order.
func AssetKinds() []AssetKind {
	return []AssetKind{AssetNative, AssetToken}
}
