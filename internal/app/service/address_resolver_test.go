package service

import (
	"strings"
	"testing"

	"token_balance/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAddress(t *testing.T) {
	r := NewAddressResolver(nopLogger{})
	token := newDAI("")

	t.Run("explicit network", func(t *testing.T) {
		id, addr, ok := r.ResolveAddress(nil, token, "137")
		require.True(t, ok)
		assert.Equal(t, entity.NetworkID("137"), id)
		assert.Equal(t, daiPolygon, addr)
	})

	t.Run("explicit network wins over selection", func(t *testing.T) {
		id, addr, ok := r.ResolveAddress(selected("1"), token, "137")
		require.True(t, ok)
		assert.Equal(t, entity.NetworkID("137"), id)
		assert.Equal(t, daiPolygon, addr)
	})

	t.Run("missing network", func(t *testing.T) {
		id, addr, ok := r.ResolveAddress(selected("1"), token, "10")
		assert.False(t, ok)
		assert.Empty(t, addr)
		assert.Equal(t, entity.NetworkID("10"), id)
	})

	t.Run("falls back to selected network", func(t *testing.T) {
		id, addr, ok := r.ResolveAddress(selected("1"), token, "")
		require.True(t, ok)
		assert.Equal(t, entity.NetworkID("1"), id)
		assert.Equal(t, daiMainnet, addr)
	})

	t.Run("no selection", func(t *testing.T) {
		_, _, ok := r.ResolveAddress(selection{}, token, "")
		assert.False(t, ok)
		_, _, ok = r.ResolveAddress(nil, token, "")
		assert.False(t, ok)
	})

	t.Run("returns stored string without normalization", func(t *testing.T) {
		lower := strings.ToLower(daiMainnet)
		tkn := entity.NewToken("x", map[entity.NetworkID]string{"1": lower}, intPtr(18), decimal.NullDecimal{})
		_, addr, ok := r.ResolveAddress(nil, tkn, "1")
		require.True(t, ok)
		assert.Equal(t, lower, addr)
	})

	t.Run("nil token", func(t *testing.T) {
		_, _, ok := r.ResolveAddress(selected("1"), nil, "")
		assert.False(t, ok)
	})
}

func TestChecksum(t *testing.T) {
	// Reference vectors from EIP-55.
	vectors := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}
	for _, want := range vectors {
		got, ok := Checksum(strings.ToLower(want))
		require.True(t, ok)
		assert.Equal(t, want, got)

		got, ok = Checksum("0x" + strings.ToUpper(want[2:]))
		require.True(t, ok)
		assert.Equal(t, want, got)

		again, ok := Checksum(got)
		require.True(t, ok)
		assert.Equal(t, got, again, "checksum must be idempotent")
	}
}

func TestChecksumMalformed(t *testing.T) {
	for _, in := range []string{"", "0x", "0x1234", "hello", "0xZZAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"} {
		got, ok := Checksum(in)
		assert.False(t, ok, in)
		assert.Empty(t, got)
	}
}

func TestChecksumAddress(t *testing.T) {
	r := NewAddressResolver(nopLogger{})
	tkn := entity.NewToken("x", map[entity.NetworkID]string{"1": strings.ToLower(daiMainnet)}, intPtr(18), decimal.NullDecimal{})

	got, ok := r.ChecksumAddress(selected("1"), tkn, "")
	require.True(t, ok)
	assert.Equal(t, daiMainnet, got)

	_, ok = r.ChecksumAddress(selected("5"), tkn, "")
	assert.False(t, ok)
}
