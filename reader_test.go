package noldor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readOne(t *testing.T, interp *Interpreter, src string) Value {
	t.Helper()
	port := interp.heap.OpenInputString(src)
	v, err := interp.Read(port)
	require.NoError(t, err)
	return v
}

func TestReaderAtoms(t *testing.T) {
	interp := New()
	assert.Equal(t, int32(42), readOne(t, interp, "42").Int32())
	assert.Equal(t, 3.5, readOne(t, interp, "3.5").Double())
	assert.Equal(t, "hello", SymbolName(readOne(t, interp, "hello")))
}

func TestReaderString(t *testing.T) {
	interp := New()
	v := readOne(t, interp, `"hi\nthere"`)
	assert.Equal(t, "hi\nthere", StringValue(v))
}

func TestReaderDottedPair(t *testing.T) {
	interp := New()
	v := readOne(t, interp, `(1 . 2)`)
	assert.Equal(t, int32(1), Car(v).Int32())
	assert.Equal(t, int32(2), Cdr(v).Int32())
}

func TestReaderQuoteShorthand(t *testing.T) {
	interp := New()
	v := readOne(t, interp, `'(a b)`)
	assert.True(t, IsPair(v))
	assert.Equal(t, "quote", SymbolName(Car(v)))
}

func TestReaderVectorAndChar(t *testing.T) {
	interp := New()
	v := readOne(t, interp, `#(1 2 #\a)`)
	elems := *VectorElements(v)
	require.Len(t, elems, 3)
	assert.Equal(t, 'a', CharValue(elems[2]))
}

func TestReaderEOF(t *testing.T) {
	interp := New()
	port := interp.heap.OpenInputString("   ")
	v, err := interp.Read(port)
	require.NoError(t, err)
	assert.True(t, IsEOF(v))
}
