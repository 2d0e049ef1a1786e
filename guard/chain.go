package guard

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ChainMode selects how a Chain executes its validators.
type ChainMode string

const (
	// ChainModeFailFast stops at the first invalid result.
	ChainModeFailFast ChainMode = "fail_fast"
	// ChainModeCollectAll runs every validator and aggregates all results.
	ChainModeCollectAll ChainMode = "collect_all"
	// ChainModeParallel runs validators concurrently and aggregates.
	ChainModeParallel ChainMode = "parallel"
)

// Chain executes multiple validators in priority order and merges their
// results.
type Chain struct {
	mu         sync.RWMutex
	validators []Validator
	mode       ChainMode
}

// NewChain creates a chain. An empty mode defaults to ChainModeCollectAll.
func NewChain(mode ChainMode, validators ...Validator) *Chain {
	if mode == "" {
		mode = ChainModeCollectAll
	}
	return &Chain{validators: validators, mode: mode}
}

// Add appends validators to the chain.
func (c *Chain) Add(validators ...Validator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.validators = append(c.validators, validators...)
}

// Validate runs the chain over content.
func (c *Chain) Validate(ctx context.Context, content string) (*Result, error) {
	c.mu.RLock()
	validators := make([]Validator, len(c.validators))
	copy(validators, c.validators)
	mode := c.mode
	c.mu.RUnlock()

	sort.SliceStable(validators, func(i, j int) bool {
		return validators[i].Priority() < validators[j].Priority()
	})

	if mode == ChainModeParallel {
		return c.validateParallel(ctx, validators, content)
	}

	result := NewResult()
	for _, v := range validators {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		vr, err := v.Validate(ctx, content)
		if err != nil {
			return result, fmt.Errorf("validator %s: %w", v.Name(), err)
		}
		result.Merge(vr)

		if mode == ChainModeFailFast && !result.Valid {
			return result, nil
		}
	}
	return result, nil
}

func (c *Chain) validateParallel(ctx context.Context, validators []Validator, content string) (*Result, error) {
	results := make([]*Result, len(validators))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range validators {
		g.Go(func() error {
			vr, err := v.Validate(gctx, content)
			if err != nil {
				return fmt.Errorf("validator %s: %w", v.Name(), err)
			}
			results[i] = vr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return NewResult(), err
	}

	// Merge in priority order so aggregated error ordering stays stable.
	merged := NewResult()
	for _, vr := range results {
		merged.Merge(vr)
	}
	return merged, nil
}
