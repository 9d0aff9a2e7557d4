package bert

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/nlpodyssey/gopickle/pytorch"
)

// Weight file formats understood by LoadWeights.
const (
	FormatZip    = "torch_zip"     // torch.save default since 1.6
	FormatPickle = "legacy_pickle" // raw pickle stream
)

// State dict keys of the embedding layer. Checkpoints saved from a task
// model carry a "bert." prefix, bare encoders do not.
const (
	keyWordEmbeddings      = "embeddings.word_embeddings.weight"
	keyPositionEmbeddings  = "embeddings.position_embeddings.weight"
	keyTokenTypeEmbeddings = "embeddings.token_type_embeddings.weight"
)

var (
	keyNormWeight = []string{"embeddings.LayerNorm.weight", "embeddings.LayerNorm.gamma"}
	keyNormBias   = []string{"embeddings.LayerNorm.bias", "embeddings.LayerNorm.beta"}
	keyPrefixes   = []string{"bert.", ""}
)

// Matrix is a dense row-major float32 tensor.
type Matrix struct {
	Rows, Cols int
	Data       []float32
}

// Row returns row i without copying.
func (m Matrix) Row(i int) []float32 { return m.Data[i*m.Cols : (i+1)*m.Cols] }

// Weights holds the embedding layer read from a PyTorch checkpoint.
// Position, TokenType, NormWeight and NormBias are optional.
type Weights struct {
	Path   string
	Format string
	Size   int64

	Word       Matrix
	Position   *Matrix
	TokenType  *Matrix
	NormWeight []float32
	NormBias   []float32
}

// stateDict is satisfied by the dict types the unpickler produces.
type stateDict interface {
	Get(key interface{}) (interface{}, bool)
}

// LoadWeights reads a pytorch_model.bin (zip archive or legacy pickle) and
// extracts the embedding tensors.
func LoadWeights(p string) (Weights, error) {
	fi, err := os.Stat(p)
	if err != nil {
		return Weights{}, &ParseError{Path: p, Err: err}
	}
	if !fi.Mode().IsRegular() || fi.Size() == 0 {
		return Weights{}, &ParseError{Path: p, Err: errors.New("weights file is empty")}
	}
	format, err := sniffFormat(p)
	if err != nil {
		return Weights{}, &ParseError{Path: p, Err: err}
	}
	obj, err := pytorch.Load(p)
	if err != nil {
		return Weights{}, &ParseError{Path: p, Err: err}
	}
	sd, ok := obj.(stateDict)
	if !ok {
		return Weights{}, &ParseError{Path: p, Err: fmt.Errorf("checkpoint is %T, not a state dict", obj)}
	}

	w := Weights{Path: p, Format: format, Size: fi.Size()}
	word, found, err := lookupMatrix(sd, keyWordEmbeddings)
	if err != nil {
		return Weights{}, &ParseError{Path: p, Err: err}
	}
	if !found {
		return Weights{}, &ParseError{Path: p, Err: errors.New("no word embeddings in checkpoint")}
	}
	w.Word = word
	if m, ok, err := lookupMatrix(sd, keyPositionEmbeddings); err != nil {
		return Weights{}, &ParseError{Path: p, Err: err}
	} else if ok {
		w.Position = &m
	}
	if m, ok, err := lookupMatrix(sd, keyTokenTypeEmbeddings); err != nil {
		return Weights{}, &ParseError{Path: p, Err: err}
	} else if ok {
		w.TokenType = &m
	}
	for _, k := range keyNormWeight {
		if m, ok, err := lookupMatrix(sd, k); err != nil {
			return Weights{}, &ParseError{Path: p, Err: err}
		} else if ok {
			w.NormWeight = m.Data
			break
		}
	}
	for _, k := range keyNormBias {
		if m, ok, err := lookupMatrix(sd, k); err != nil {
			return Weights{}, &ParseError{Path: p, Err: err}
		} else if ok {
			w.NormBias = m.Data
			break
		}
	}
	return w, nil
}

func sniffFormat(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()
	head, err := bufio.NewReader(f).Peek(4)
	if err != nil && len(head) == 0 {
		return "", err
	}
	switch {
	case bytes.HasPrefix(head, []byte("PK\x03\x04")):
		return FormatZip, nil
	case head[0] == 0x80:
		return FormatPickle, nil
	default:
		return "", fmt.Errorf("not a pytorch checkpoint (leading byte 0x%02x)", head[0])
	}
}

func lookupMatrix(sd stateDict, key string) (Matrix, bool, error) {
	for _, prefix := range keyPrefixes {
		v, ok := sd.Get(prefix + key)
		if !ok {
			continue
		}
		m, err := toMatrix(v)
		if err != nil {
			return Matrix{}, false, fmt.Errorf("%s%s: %w", prefix, key, err)
		}
		return m, true, nil
	}
	return Matrix{}, false, nil
}

// toMatrix copies a 1-D or 2-D float32 tensor into row-major order,
// honouring its storage offset and strides. A 1-D tensor becomes one row.
func toMatrix(v interface{}) (Matrix, error) {
	t, ok := v.(*pytorch.Tensor)
	if !ok {
		return Matrix{}, fmt.Errorf("not a tensor (%T)", v)
	}
	fs, ok := t.Source.(*pytorch.FloatStorage)
	if !ok {
		return Matrix{}, fmt.Errorf("unsupported storage %T", t.Source)
	}
	var rows, cols, rowStride, colStride int
	switch len(t.Size) {
	case 1:
		rows, cols, colStride = 1, t.Size[0], t.Stride[0]
	case 2:
		rows, cols, rowStride, colStride = t.Size[0], t.Size[1], t.Stride[0], t.Stride[1]
	default:
		return Matrix{}, fmt.Errorf("expected 1 or 2 dims, got %v", t.Size)
	}
	out := Matrix{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			idx := t.StorageOffset + i*rowStride + j*colStride
			if idx < 0 || idx >= len(fs.Data) {
				return Matrix{}, fmt.Errorf("tensor view exceeds storage of %d values", len(fs.Data))
			}
			out.Data[i*cols+j] = fs.Data[idx]
		}
	}
	return out, nil
}
