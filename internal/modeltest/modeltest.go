// Package modeltest builds small but well-formed model artifacts
// (config.json, tokenizer.json, pytorch_model.bin) for tests.
package modeltest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Vocab is the fixture vocabulary. Ids follow slice order.
var Vocab = []string{
	"[PAD]", "[UNK]", "[CLS]", "[SEP]", "[MASK]",
	"A", "cidade", "cresce", ".", "O", "trânsito", "piora",
	"As", "pessoas", "sofrem", "com", "o", "barulho",
	"educação", "é", "necessária", "solu", "##ção", ",", "mobilidade", "urbana",
}

// Special token ids in Vocab.
const (
	PadID  = 0
	UnkID  = 1
	ClsID  = 2
	SepID  = 3
	MaskID = 4
)

// Hidden is the fixture hidden size.
const Hidden = 8

// MaxPositions is the fixture max_position_embeddings.
const MaxPositions = 64

// ConfigJSON returns a config.json matching Vocab, Hidden and MaxPositions.
func ConfigJSON() []byte {
	return []byte(fmt.Sprintf(
		`{"model_type":"bert","architectures":["BertForMaskedLM"],"hidden_size":%d,"num_hidden_layers":2,"num_attention_heads":2,"vocab_size":%d,"max_position_embeddings":%d,"type_vocab_size":2,"layer_norm_eps":1e-12}`,
		Hidden, len(Vocab), MaxPositions))
}

// TokenizerJSON returns a WordPiece tokenizer.json over vocab in the layout
// the Hugging Face hub serves for BERT models.
func TokenizerJSON(vocab []string) []byte {
	type added struct {
		ID         int    `json:"id"`
		Content    string `json:"content"`
		SingleWord bool   `json:"single_word"`
		Lstrip     bool   `json:"lstrip"`
		Rstrip     bool   `json:"rstrip"`
		Normalized bool   `json:"normalized"`
		Special    bool   `json:"special"`
	}
	ids := make(map[string]int, len(vocab))
	var specials []added
	for i, tok := range vocab {
		ids[tok] = i
		if len(tok) > 2 && tok[0] == '[' && tok[len(tok)-1] == ']' {
			specials = append(specials, added{ID: i, Content: tok, Special: true})
		}
	}
	doc := map[string]any{
		"version":      "1.0",
		"truncation":   nil,
		"padding":      nil,
		"added_tokens": specials,
		"normalizer": map[string]any{
			"type": "BertNormalizer", "clean_text": true, "handle_chinese_chars": true,
			"strip_accents": false, "lowercase": false,
		},
		"pre_tokenizer": map[string]any{"type": "BertPreTokenizer"},
		"post_processor": map[string]any{
			"type": "BertProcessing",
			"sep":  []any{"[SEP]", ids["[SEP]"]},
			"cls":  []any{"[CLS]", ids["[CLS]"]},
		},
		"decoder": map[string]any{"type": "WordPiece", "prefix": "##", "cleanup": true},
		"model": map[string]any{
			"type":                      "WordPiece",
			"unk_token":                 "[UNK]",
			"continuing_subword_prefix": "##",
			"max_input_chars_per_word":  100,
			"vocab":                     ids,
		},
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		panic(err)
	}
	return b
}

// Tensor is one named float32 tensor of a checkpoint.
type Tensor struct {
	Name  string
	Shape []int
	Data  []float32
}

// EmbeddingTensors returns a BERT embedding layer for vocab x hidden with
// deterministic, distinct values.
func EmbeddingTensors(vocab, hidden, positions int) []Tensor {
	fill := func(n int, f func(i int) float32) []float32 {
		out := make([]float32, n)
		for i := range out {
			out[i] = f(i)
		}
		return out
	}
	ones := fill(hidden, func(int) float32 { return 1 })
	return []Tensor{
		{"bert.embeddings.word_embeddings.weight", []int{vocab, hidden},
			fill(vocab*hidden, func(i int) float32 { return float32(math.Sin(float64(i) * 0.37)) })},
		{"bert.embeddings.position_embeddings.weight", []int{positions, hidden},
			fill(positions*hidden, func(i int) float32 { return 0.1 * float32(math.Cos(float64(i)*0.11)) })},
		{"bert.embeddings.token_type_embeddings.weight", []int{2, hidden},
			fill(2*hidden, func(i int) float32 { return 0.01 * float32(i) })},
		{"bert.embeddings.LayerNorm.weight", []int{hidden}, ones},
		{"bert.embeddings.LayerNorm.bias", []int{hidden}, make([]float32, hidden)},
	}
}

// Checkpoint encodes tensors as a torch.save zip archive: a pickled
// state dict in archive/data.pkl plus one raw little-endian storage per
// tensor under archive/data/.
func Checkpoint(tensors []Tensor) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	put := func(name string, b []byte) {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		if err != nil {
			panic(err)
		}
		if _, err := w.Write(b); err != nil {
			panic(err)
		}
	}
	put("archive/data.pkl", statePickle(tensors))
	for i, t := range tensors {
		raw := make([]byte, 4*len(t.Data))
		for j, v := range t.Data {
			binary.LittleEndian.PutUint32(raw[4*j:], math.Float32bits(v))
		}
		put("archive/data/"+strconv.Itoa(i), raw)
	}
	put("archive/version", []byte("3\n"))
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// DefaultCheckpoint is Checkpoint(EmbeddingTensors(len(Vocab), Hidden, MaxPositions)).
func DefaultCheckpoint() []byte {
	return Checkpoint(EmbeddingTensors(len(Vocab), Hidden, MaxPositions))
}

// Artifacts returns the three snapshot files keyed by their cache names.
func Artifacts() map[string][]byte {
	return map[string][]byte{
		"config.json":       ConfigJSON(),
		"tokenizer.json":    TokenizerJSON(Vocab),
		"pytorch_model.bin": DefaultCheckpoint(),
	}
}

// Pickle protocol 2 opcodes.
const (
	opProto     = 0x80
	opEmptyDict = '}'
	opMark      = '('
	opBinUni    = 'X'
	opGlobal    = 'c'
	opBinInt    = 'J'
	opTuple     = 't'
	opBinPersID = 'Q'
	opNewFalse  = 0x89
	opReduce    = 'R'
	opSetItems  = 'u'
	opStop      = '.'
)

type pickler struct{ bytes.Buffer }

func (p *pickler) str(s string) {
	p.WriteByte(opBinUni)
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
	p.Write(n[:])
	p.WriteString(s)
}

func (p *pickler) binInt(v int) {
	p.WriteByte(opBinInt)
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(int32(v)))
	p.Write(n[:])
}

func (p *pickler) global(module, name string) {
	p.WriteByte(opGlobal)
	p.WriteString(module + "\n" + name + "\n")
}

func (p *pickler) ints(vs []int) {
	p.WriteByte(opMark)
	for _, v := range vs {
		p.binInt(v)
	}
	p.WriteByte(opTuple)
}

// statePickle writes {name: _rebuild_tensor_v2(storage, 0, shape, stride, False, {})}.
func statePickle(tensors []Tensor) []byte {
	sorted := make([]int, len(tensors))
	for i := range sorted {
		sorted[i] = i
	}
	sort.SliceStable(sorted, func(a, b int) bool { return tensors[sorted[a]].Name < tensors[sorted[b]].Name })

	var p pickler
	p.Write([]byte{opProto, 2, opEmptyDict, opMark})
	for _, i := range sorted {
		t := tensors[i]
		p.str(t.Name)
		p.global("torch._utils", "_rebuild_tensor_v2")
		p.WriteByte(opMark)

		p.WriteByte(opMark)
		p.str("storage")
		p.global("torch", "FloatStorage")
		p.str(strconv.Itoa(i))
		p.str("cpu")
		p.binInt(len(t.Data))
		p.WriteByte(opTuple)
		p.WriteByte(opBinPersID)

		p.binInt(0)
		p.ints(t.Shape)
		p.ints(contiguousStride(t.Shape))
		p.WriteByte(opNewFalse)
		p.WriteByte(opEmptyDict)
		p.WriteByte(opTuple)
		p.WriteByte(opReduce)
	}
	p.Write([]byte{opSetItems, opStop})
	return p.Bytes()
}

func contiguousStride(shape []int) []int {
	stride := make([]int, len(shape))
	s := 1
	for i := len(shape) - 1; i >= 0; i-- {
		stride[i] = s
		s *= shape[i]
	}
	return stride
}
