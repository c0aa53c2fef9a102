package decision

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tifye/shopsim/shop"
)

const scenario = `
days:
  - transferVolume: 80
    transferDecision: 1
    acceptOffer: 0
    adSpend: 0
    retailPrice: 100
    stopSell: 0
  - transferVolume: 0
    transferDecision: 0
    acceptOffer: 1
    adSpend: abc
    retailPrice: 100
    stopSell: 0
`

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Remaining())

	ctx := context.Background()
	d, err := s.NextDecision(ctx, shop.Preview{})
	require.NoError(t, err)
	assert.Equal(t, 80.0, d.TransferVolume)
	assert.True(t, d.TransferDecision)

	_, err = s.NextDecision(ctx, shop.Preview{})
	assert.ErrorIs(t, err, shop.ErrMalformedDecision)

	_, err = s.NextDecision(ctx, shop.Preview{})
	assert.ErrorIs(t, err, shop.ErrNoMoreDecisions)
	assert.Equal(t, 0, s.Remaining())
}

func TestLoadScriptMissing(t *testing.T) {
	_, err := LoadScript(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseScriptInvalid(t *testing.T) {
	_, err := ParseScript([]byte("days: [1, 2"))
	assert.Error(t, err)
}

func TestFromDecisions(t *testing.T) {
	want := shop.Decision{TransferVolume: 12.5, AdSpend: 3, RetailPrice: 80, StopSell: true}
	s := FromDecisions(want)

	got, err := s.NextDecision(context.Background(), shop.Preview{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestScriptCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := FromDecisions(shop.Decision{RetailPrice: 1})

	_, err := s.NextDecision(ctx, shop.Preview{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, s.Remaining())
}
