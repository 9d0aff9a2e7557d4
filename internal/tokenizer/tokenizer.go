// Package tokenizer loads a Hugging Face tokenizer.json and encodes essay
// text into model input ids.
package tokenizer

import (
	"errors"
	"fmt"
	"os"

	hftok "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLength is the BERT position limit.
const DefaultMaxLength = 512

// Special tokens every BERT vocabulary carries.
const (
	ClsToken = "[CLS]"
	SepToken = "[SEP]"
)

// ParseError reports an unusable tokenizer.json.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "tokenizer: " + e.Err.Error()
	}
	return fmt.Sprintf("tokenizer %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Tokenizer is safe for concurrent use once loaded.
type Tokenizer struct {
	tk           *hftok.Tokenizer
	clsID, sepID int

	MaxLength int
}

// Encoding is the result of Encode and EncodePair.
type Encoding struct {
	IDs    []int
	Tokens []string
}

// LoadFile reads tokenizer.json and checks it defines [CLS] and [SEP].
func LoadFile(path string) (*Tokenizer, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	tk, err := fromFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	t := &Tokenizer{tk: tk, MaxLength: DefaultMaxLength}
	var ok bool
	if t.clsID, ok = tk.TokenToId(ClsToken); !ok {
		return nil, &ParseError{Path: path, Err: errors.New("missing [CLS] token")}
	}
	if t.sepID, ok = tk.TokenToId(SepToken); !ok {
		return nil, &ParseError{Path: path, Err: errors.New("missing [SEP] token")}
	}
	return t, nil
}

// fromFile turns panics from malformed component configs into errors.
func fromFile(path string) (tk *hftok.Tokenizer, err error) {
	defer func() {
		if r := recover(); r != nil {
			tk, err = nil, fmt.Errorf("malformed tokenizer.json: %v", r)
		}
	}()
	return pretrained.FromFile(path)
}

// TokenID looks up a token string.
func (t *Tokenizer) TokenID(tok string) (int, bool) { return t.tk.TokenToId(tok) }

// Encode tokenizes one sequence as [CLS] text [SEP].
func (t *Tokenizer) Encode(text string) (Encoding, error) {
	en, err := t.tk.EncodeSingle(norm.NFC.String(text), true)
	if err != nil {
		return Encoding{}, err
	}
	return t.truncate(en), nil
}

// EncodePair tokenizes two sequences as [CLS] first [SEP] second [SEP].
func (t *Tokenizer) EncodePair(first, second string) (Encoding, error) {
	en, err := t.tk.EncodePair(norm.NFC.String(first), norm.NFC.String(second), true)
	if err != nil {
		return Encoding{}, err
	}
	return t.truncate(en), nil
}

// truncate keeps at most MaxLength tokens, ending on [SEP].
func (t *Tokenizer) truncate(en *hftok.Encoding) Encoding {
	out := Encoding{IDs: en.Ids, Tokens: en.Tokens}
	if t.MaxLength <= 0 || len(out.IDs) <= t.MaxLength {
		return out
	}
	n := t.MaxLength
	ids := append(append([]int(nil), out.IDs[:n-1]...), t.sepID)
	toks := append(append([]string(nil), out.Tokens[:n-1]...), SepToken)
	return Encoding{IDs: ids, Tokens: toks}
}
