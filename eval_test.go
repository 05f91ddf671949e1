package noldor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalString(t *testing.T, interp *Interpreter, src string) Value {
	t.Helper()
	port := interp.heap.OpenInputString(src)
	var last Value = interp.atoms.null
	for {
		form, err := interp.Read(port)
		require.NoError(t, err)
		if IsEOF(form) {
			break
		}
		last, err = interp.Eval(form, interp.global)
		require.NoError(t, err)
	}
	return last
}

func TestEvalSelfEvaluating(t *testing.T) {
	interp := New()
	v := evalString(t, interp, `42`)
	assert.Equal(t, int32(42), v.Int32())
}

func TestEvalArithmetic(t *testing.T) {
	interp := New()
	v := evalString(t, interp, `(+ 1 2 (* 3 4))`)
	assert.Equal(t, int32(15), v.Int32())
}

func TestEvalIf(t *testing.T) {
	interp := New()
	v := evalString(t, interp, `(if (> 3 2) 'yes 'no)`)
	assert.Equal(t, "yes", SymbolName(v))
}

func TestEvalDefineAndVariable(t *testing.T) {
	interp := New()
	v := evalString(t, interp, `(begin (define x 10) (set! x (+ x 5)) x)`)
	assert.Equal(t, int32(15), v.Int32())
}

func TestEvalLambdaApplication(t *testing.T) {
	interp := New()
	v := evalString(t, interp, `((lambda (x y) (+ x y)) 3 4)`)
	assert.Equal(t, int32(7), v.Int32())
}

func TestEvalNamedLetRecursion(t *testing.T) {
	interp := New()
	v := evalString(t, interp, `
		(let loop ((n 5) (acc 1))
		  (if (= n 0) acc (loop (- n 1) (* acc n))))`)
	assert.Equal(t, int32(120), v.Int32())
}

func TestEvalDeepTailRecursionDoesNotOverflow(t *testing.T) {
	interp := New()
	v := evalString(t, interp, `
		(define (count-to n acc)
		  (if (= n acc) acc (count-to n (+ acc 1))))
		(count-to 200000 0)`)
	assert.Equal(t, int32(200000), v.Int32())
}

func TestEvalCond(t *testing.T) {
	interp := New()
	v := evalString(t, interp, `
		(cond ((= 1 2) 'no)
		      ((= 1 1) 'yes)
		      (else 'fallback))`)
	assert.Equal(t, "yes", SymbolName(v))
}

func TestEvalQuasiquote(t *testing.T) {
	interp := New()
	v := evalString(t, interp, "`(1 ,(+ 1 1) ,@(list 3 4))")
	got := ListToSlice(v, interp.atoms.null)
	require.Len(t, got, 4)
	assert.Equal(t, int32(1), got[0].Int32())
	assert.Equal(t, int32(2), got[1].Int32())
	assert.Equal(t, int32(3), got[2].Int32())
	assert.Equal(t, int32(4), got[3].Int32())
}

func TestEvalUnboundVariableError(t *testing.T) {
	interp := New()
	port := interp.heap.OpenInputString(`undefined-name`)
	form, err := interp.Read(port)
	require.NoError(t, err)
	_, err = interp.Eval(form, interp.global)
	require.Error(t, err)
	var verr *VariableError
	assert.ErrorAs(t, err, &verr)
}
