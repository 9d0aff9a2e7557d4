package bert

import (
	"fmt"
	"math"
)

// Model is an encoder instance. It is read-only after New and safe for
// concurrent Forward calls.
//
// Forward evaluates the embedding layer of the checkpoint: word, position
// and segment-0 embeddings summed and layer-normalized. The transformer
// blocks are not run.
type Model struct {
	cfg     Config
	weights Weights
	maxPos  int
}

// New builds a model from a validated config and the checkpoint's
// embedding tensors, checking that their shapes agree.
func New(cfg Config, w Weights) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{Err: err}
	}
	if len(w.Word.Data) == 0 {
		return nil, &ParseError{Path: w.Path, Err: fmt.Errorf("weights not loaded")}
	}
	if cfg.LayerNormEps <= 0 {
		cfg.LayerNormEps = 1e-12
	}
	d := cfg.HiddenSize
	if w.Word.Rows != cfg.VocabSize || w.Word.Cols != d {
		return nil, &ParseError{Path: w.Path, Err: fmt.Errorf("word embeddings are %dx%d, config wants %dx%d",
			w.Word.Rows, w.Word.Cols, cfg.VocabSize, d)}
	}
	maxPos := cfg.MaxPositionEmbeddings
	if maxPos <= 0 {
		maxPos = 512
	}
	if w.Position != nil {
		if w.Position.Cols != d {
			return nil, &ParseError{Path: w.Path, Err: fmt.Errorf("position embeddings have %d dims, want %d", w.Position.Cols, d)}
		}
		maxPos = min(maxPos, w.Position.Rows)
	}
	if w.TokenType != nil && (w.TokenType.Cols != d || w.TokenType.Rows == 0) {
		return nil, &ParseError{Path: w.Path, Err: fmt.Errorf("token type embeddings are %dx%d", w.TokenType.Rows, w.TokenType.Cols)}
	}
	if (w.NormWeight != nil && len(w.NormWeight) != d) || (w.NormBias != nil && len(w.NormBias) != d) {
		return nil, &ParseError{Path: w.Path, Err: fmt.Errorf("layer norm parameters do not match hidden size %d", d)}
	}
	return &Model{cfg: cfg, weights: w, maxPos: maxPos}, nil
}

func (m *Model) Config() Config   { return m.cfg }
func (m *Model) Weights() Weights { return m.weights }

// MaxPositions is the longest input Forward accepts.
func (m *Model) MaxPositions() int { return m.maxPos }

// Forward returns len(ids) rows of HiddenSize values.
func (m *Model) Forward(ids []int) ([][]float32, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("bert: empty input")
	}
	if len(ids) > m.maxPos {
		return nil, fmt.Errorf("bert: %d tokens exceed max_position_embeddings %d", len(ids), m.maxPos)
	}
	out := make([][]float32, len(ids))
	for pos, id := range ids {
		if id < 0 || id >= m.cfg.VocabSize {
			return nil, fmt.Errorf("bert: token id %d out of range [0,%d)", id, m.cfg.VocabSize)
		}
		out[pos] = m.embed(id, pos)
	}
	return out, nil
}

// ClsEmbedding is the hidden state of the first ([CLS]) token.
func (m *Model) ClsEmbedding(ids []int) ([]float32, error) {
	hs, err := m.Forward(ids)
	if err != nil {
		return nil, err
	}
	return hs[0], nil
}

func (m *Model) embed(id, pos int) []float32 {
	d := m.cfg.HiddenSize
	v := make([]float64, d)
	word := m.weights.Word.Row(id)
	for j := range v {
		v[j] = float64(word[j])
	}
	if p := m.weights.Position; p != nil {
		for j, x := range p.Row(pos) {
			v[j] += float64(x)
		}
	}
	if tt := m.weights.TokenType; tt != nil {
		for j, x := range tt.Row(0) {
			v[j] += float64(x)
		}
	}

	var mean float64
	for _, x := range v {
		mean += x
	}
	mean /= float64(d)
	var variance float64
	for _, x := range v {
		variance += (x - mean) * (x - mean)
	}
	variance /= float64(d)
	inv := 1 / math.Sqrt(variance+m.cfg.LayerNormEps)

	row := make([]float32, d)
	for j, x := range v {
		y := (x - mean) * inv
		if m.weights.NormWeight != nil {
			y *= float64(m.weights.NormWeight[j])
		}
		if m.weights.NormBias != nil {
			y += float64(m.weights.NormBias[j])
		}
		row[j] = float32(y)
	}
	return row
}
