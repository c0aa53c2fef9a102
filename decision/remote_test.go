package decision

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tifye/shopsim/shop"
)

type nextResult struct {
	d   shop.Decision
	err error
}

func waitDecision(r *Remote, day int) <-chan nextResult {
	out := make(chan nextResult, 1)
	go func() {
		d, err := r.NextDecision(context.Background(), shop.Preview{Day: day})
		out <- nextResult{d: d, err: err}
	}()
	return out
}

func raw(adSpend string) shop.RawDecision {
	return shop.RawDecision{
		TransferVolume:   "10",
		TransferDecision: "1",
		AcceptOffer:      "0",
		AdSpend:          adSpend,
		RetailPrice:      "100",
		StopSell:         "0",
	}
}

func TestRemoteSubmit(t *testing.T) {
	r := NewRemote(log.New(io.Discard), 0)
	res := waitDecision(r, 3)

	require.Eventually(t, func() bool {
		p, ok := r.Pending()
		return ok && p.Day == 3
	}, time.Second, time.Millisecond)

	err := r.Submit(context.Background(), raw("25"))
	require.NoError(t, err)

	got := <-res
	require.NoError(t, got.err)
	assert.Equal(t, 25.0, got.d.AdSpend)

	_, ok := r.Pending()
	assert.False(t, ok)
}

func TestRemoteSubmitMalformed(t *testing.T) {
	r := NewRemote(log.New(io.Discard), 0)
	res := waitDecision(r, 1)

	err := r.Submit(context.Background(), raw("abc"))
	assert.ErrorIs(t, err, shop.ErrMalformedDecision)

	got := <-res
	assert.ErrorIs(t, got.err, shop.ErrMalformedDecision)
}

func TestRemoteTimeout(t *testing.T) {
	r := NewRemote(log.New(io.Discard), 10*time.Millisecond)

	_, err := r.NextDecision(context.Background(), shop.Preview{Day: 1})
	assert.ErrorIs(t, err, shop.ErrDecisionTimeout)
}

func TestRemoteSubmitWithoutEngine(t *testing.T) {
	r := NewRemote(log.New(io.Discard), 0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := r.Submit(ctx, raw("0"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRemoteClose(t *testing.T) {
	r := NewRemote(log.New(io.Discard), 0)
	res := waitDecision(r, 1)
	r.Close()
	r.Close()

	got := <-res
	assert.ErrorIs(t, got.err, shop.ErrNoMoreDecisions)
	assert.ErrorIs(t, r.Submit(context.Background(), raw("0")), ErrClosed)
}
