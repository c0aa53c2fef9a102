package decision

import (
	"context"
	"fmt"
	"os"

	"github.com/tifye/shopsim/shop"
	"gopkg.in/yaml.v3"
)

// Script replays a fixed list of raw decisions, one per attempt.
// Malformed entries are rejected like typed input would be.
type Script struct {
	decisions []shop.RawDecision
	next      int
}

func NewScript(decisions ...shop.RawDecision) *Script {
	return &Script{decisions: decisions}
}

// FromDecisions builds a script from already parsed decisions.
func FromDecisions(decisions ...shop.Decision) *Script {
	raw := make([]shop.RawDecision, len(decisions))
	for i, d := range decisions {
		raw[i] = d.Format()
	}
	return NewScript(raw...)
}

func (s *Script) NextDecision(ctx context.Context, _ shop.Preview) (shop.Decision, error) {
	if err := ctx.Err(); err != nil {
		return shop.Decision{}, err
	}
	if s.next >= len(s.decisions) {
		return shop.Decision{}, shop.ErrNoMoreDecisions
	}
	raw := s.decisions[s.next]
	s.next++
	return shop.ParseDecision(raw)
}

// Remaining is the number of decisions not yet handed out.
func (s *Script) Remaining() int {
	return len(s.decisions) - s.next
}

// ScriptFile is the YAML layout read by LoadScript:
//
//	days:
//	  - transferVolume: 80
//	    transferDecision: 1
//	    acceptOffer: 0
//	    adSpend: 0
//	    retailPrice: 100
//	    stopSell: 0
type ScriptFile struct {
	Days []shop.RawDecision `yaml:"days"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %s", err)
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var f ScriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %s", err)
	}
	return NewScript(f.Days...), nil
}
