package tokenizer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"neuronexus/internal/modeltest"
)

func writeTokenizer(t *testing.T, b []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tokenizer.json")
	require.NoError(t, os.WriteFile(p, b, 0o644))
	return p
}

func mustLoad(t *testing.T) *Tokenizer {
	t.Helper()
	tok, err := LoadFile(writeTokenizer(t, modeltest.TokenizerJSON(modeltest.Vocab)))
	require.NoError(t, err)
	return tok
}

func TestEncode_WordPieceAndSpecials(t *testing.T) {
	tok := mustLoad(t)
	enc, err := tok.Encode("A educação é necessária. solução")
	require.NoError(t, err)
	require.Equal(t, []string{"[CLS]", "A", "educação", "é", "necessária", ".", "solu", "##ção", "[SEP]"}, enc.Tokens)
	require.Equal(t, []int{2, 5, 18, 19, 20, 8, 21, 22, 3}, enc.IDs)
}

func TestEncode_UnknownWord(t *testing.T) {
	tok := mustLoad(t)
	enc, err := tok.Encode("xyz")
	require.NoError(t, err)
	require.Equal(t, []int{modeltest.ClsID, modeltest.UnkID, modeltest.SepID}, enc.IDs)
}

func TestEncodePair_SeparatesThemeAndBody(t *testing.T) {
	tok := mustLoad(t)
	enc, err := tok.EncodePair("mobilidade urbana", "A cidade cresce.")
	require.NoError(t, err)
	require.Equal(t, []int{2, 24, 25, 3, 5, 6, 7, 8, 3}, enc.IDs)
}

func TestEncode_NFCNormalization(t *testing.T) {
	tok := mustLoad(t)
	enc, err := tok.Encode("educac\u0327a\u0303o")
	require.NoError(t, err)
	require.Equal(t, []int{modeltest.ClsID, 18, modeltest.SepID}, enc.IDs)
}

func TestEncode_Truncates(t *testing.T) {
	tok := mustLoad(t)
	tok.MaxLength = 5
	enc, err := tok.EncodePair("mobilidade", strings.Repeat("A ", 50))
	require.NoError(t, err)
	require.Len(t, enc.IDs, 5)
	require.Len(t, enc.Tokens, 5)
	require.Equal(t, modeltest.ClsID, enc.IDs[0])
	require.Equal(t, modeltest.SepID, enc.IDs[4])
	require.Equal(t, SepToken, enc.Tokens[4])
}

func TestTokenID(t *testing.T) {
	tok := mustLoad(t)
	id, ok := tok.TokenID("cidade")
	require.True(t, ok)
	require.Equal(t, 6, id)
	_, ok = tok.TokenID("inexistente")
	require.False(t, ok)
}

func TestLoadFile_Errors(t *testing.T) {
	var pe *ParseError

	missing := filepath.Join(t.TempDir(), "missing.json")
	_, err := LoadFile(missing)
	require.ErrorAs(t, err, &pe)
	require.Equal(t, missing, pe.Path)

	_, err = LoadFile(writeTokenizer(t, []byte(`{"model":`)))
	require.ErrorAs(t, err, &pe)

	_, err = LoadFile(writeTokenizer(t, modeltest.TokenizerJSON([]string{"[UNK]", "[SEP]", "a"})))
	require.ErrorAs(t, err, &pe)
}
