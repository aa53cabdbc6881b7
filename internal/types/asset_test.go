package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssetKind(t *testing.T) {
	asset, err := ParseAssetKind("native")
	require.NoError(t, err)
	assert.Equal(t, AssetNative, asset)

	asset, err = ParseAssetKind("token")
	require.NoError(t, err)
	assert.Equal(t, AssetToken, asset)

	for _, invalid := range []string{"", "NATIVE", "gold"} {
		_, err := ParseAssetKind(invalid)
		assert.Error(t, err, "input %q", invalid)
	}
}

func TestAssetKindValid(t *testing.T) {
	assert.True(t, AssetNative.Valid())
	assert.True(t, AssetToken.Valid())
	assert.False(t, AssetKind("gold").Valid())
	assert.False(t, AssetKind("").Valid())
}
