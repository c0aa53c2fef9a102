// Package decision provides the sources a shop.Engine can take its
// daily decisions from.
package decision

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tifye/shopsim/assert"
	"github.com/tifye/shopsim/shop"
)

var prompts = [...]string{
	"Transfer volume: ",
	"Transfer stock to the shop? (1 - yes, 0 - no): ",
	"Accept the wholesale offer? (1 - yes, 0 - no): ",
	"Advertising spend: ",
	"Retail price: ",
	"Stop selling? (1 - yes, 0 - no): ",
}

// Console asks for each decision field on out and reads the
// answers line by line from in.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	assert.AssertNotNil(in)
	assert.AssertNotNil(out)
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
}

type readResult struct {
	raw shop.RawDecision
	err error
}

func (c *Console) NextDecision(ctx context.Context, _ shop.Preview) (shop.Decision, error) {
	// Reads from a terminal cannot be interrupted, so the read runs
	// on its own and is abandoned if ctx ends first.
	done := make(chan readResult, 1)
	go func() {
		raw, err := c.read()
		done <- readResult{raw: raw, err: err}
	}()

	var res readResult
	select {
	case <-ctx.Done():
		return shop.Decision{}, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		if errors.Is(res.err, shop.ErrMalformedDecision) {
			fmt.Fprintln(c.out, "Invalid input, please enter numeric values.")
		}
		return shop.Decision{}, res.err
	}

	return shop.ParseDecision(res.raw)
}

// read asks for each field in turn and gives up on the attempt at
// the first answer that does not parse.
func (c *Console) read() (shop.RawDecision, error) {
	var answers [len(prompts)]string
	for i, prompt := range prompts {
		fmt.Fprint(c.out, prompt)
		line, err := c.in.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return shop.RawDecision{}, fmt.Errorf("read input: %s", err)
			}
			if line == "" {
				return shop.RawDecision{}, shop.ErrNoMoreDecisions
			}
		}
		answers[i] = strings.TrimSpace(line)
		if err := shop.CheckField(i, answers[i]); err != nil {
			return shop.RawDecision{}, err
		}
	}

	return shop.RawDecision{
		TransferVolume:   answers[0],
		TransferDecision: answers[1],
		AcceptOffer:      answers[2],
		AdSpend:          answers[3],
		RetailPrice:      answers[4],
		StopSell:         answers[5],
	}, nil
}
