package manager

import (
	"context"
	"fmt"
)

// ScoreEssay returns NumCompetencies scores in [0,200], initializing the
// model first (without progress) if needed. A failed lazy initialization is
// returned as *InitError.
func (m *Manager) ScoreEssay(ctx context.Context, theme, content string) ([]int, error) {
	if !m.IsInitialized() {
		if err := m.Initialize(ctx); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := m.clock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	lm := m.loaded
	if lm == nil {
		return nil, ErrNotInitialized
	}
	// [CLS] theme [SEP] content [SEP]
	enc, err := lm.tokenizer.EncodePair(theme, content)
	if err != nil {
		return nil, &ScoreError{Err: err}
	}
	cls, err := lm.model.ClsEmbedding(enc.IDs)
	if err != nil {
		return nil, &ScoreError{Err: err}
	}
	if len(cls) != lm.model.Config().HiddenSize {
		return nil, &ScoreError{Err: fmt.Errorf("embedding has %d dims, want %d", len(cls), lm.model.Config().HiddenSize)}
	}

	// The embedding feeds no regression head yet; scores come from the text.
	h := HeuristicScores(content)
	modelScoreDuration.Observe(m.clock().Sub(start).Seconds())
	m.log.Debug().Str("event", "score").Int("tokens", len(enc.IDs)).Ints("scores", h[:]).Msg("")
	return h[:], nil
}
