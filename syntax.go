package noldor

// syntaxKeywords holds the interned symbols the recognizer table
// (§4.5) tests expression heads against. Interning them once avoids a
// string comparison on every dispatch.
type syntaxKeywords struct {
	quote, quasiquote, unquote, unquoteSplicing Value
	setBang, define, ifSym, lambdaSym           Value
	begin, cond, elseSym, let, ok               Value
	dot                                         Value // the `.` symbol; interned, but no recognizer refers to it
}

func newSyntaxKeywords(t *SymbolTable) *syntaxKeywords {
	return &syntaxKeywords{
		quote:           t.Intern("quote"),
		quasiquote:      t.Intern("quasiquote"),
		unquote:         t.Intern("unquote"),
		unquoteSplicing: t.Intern("unquote-splicing"),
		setBang:         t.Intern("set!"),
		define:          t.Intern("define"),
		ifSym:           t.Intern("if"),
		lambdaSym:       t.Intern("lambda"),
		begin:           t.Intern("begin"),
		cond:            t.Intern("cond"),
		elseSym:         t.Intern("else"),
		let:             t.Intern("let"),
		ok:              t.Intern("ok"),
		dot:             t.Intern("."),
	}
}

// isTaggedList reports whether exp is a pair whose car is eq? to tag —
// the shape test every special form recognizer below is built from
// (grounded in the source's is_tagged_list).
func isTaggedList(exp, tag Value) bool {
	return IsPair(exp) && Eq(Car(exp), tag)
}

// IsSelfEvaluating reports whether exp evaluates to itself:
// numbers, strings, characters, booleans, vectors (§4.6.4).
func IsSelfEvaluating(exp Value) bool {
	if exp.IsDouble() || exp.IsInt32() {
		return true
	}
	if exp.IsPointer() {
		return exp.header().metatype.SelfEvaluating
	}
	return false
}

func isVariable(exp Value) bool { return IsSymbol(exp) }

func (k *syntaxKeywords) isQuoted(exp Value) bool      { return isTaggedList(exp, k.quote) }
func (k *syntaxKeywords) isQuasiquoted(exp Value) bool { return isTaggedList(exp, k.quasiquote) }
func (k *syntaxKeywords) isUnquoted(exp Value) bool    { return isTaggedList(exp, k.unquote) }
func (k *syntaxKeywords) isUnquoteSpliced(exp Value) bool {
	return isTaggedList(exp, k.unquoteSplicing)
}
func (k *syntaxKeywords) isAssignment(exp Value) bool { return isTaggedList(exp, k.setBang) }
func (k *syntaxKeywords) isDefinition(exp Value) bool { return isTaggedList(exp, k.define) }
func (k *syntaxKeywords) isIf(exp Value) bool         { return isTaggedList(exp, k.ifSym) }
func (k *syntaxKeywords) isLambda(exp Value) bool     { return isTaggedList(exp, k.lambdaSym) }
func (k *syntaxKeywords) isBegin(exp Value) bool      { return isTaggedList(exp, k.begin) }
func (k *syntaxKeywords) isCond(exp Value) bool       { return isTaggedList(exp, k.cond) }
func (k *syntaxKeywords) isLet(exp Value) bool        { return isTaggedList(exp, k.let) }

func textOfQuotation(exp Value) Value { return Cadr(exp) }

func assignmentVariable(exp Value) Value { return Cadr(exp) }
func assignmentValue(exp Value) Value    { return Caddr(exp) }

// definitionVariable/definitionValue desugar
// (define (f . params) body...) into the equivalent
// (define f (lambda params body...)) at the point of inspection,
// exactly as the source's is_definition accessors do.
func (h *Heap) definitionVariable(exp, null Value) Value {
	target := Cadr(exp)
	if IsPair(target) {
		return Car(target)
	}
	return target
}

func (h *Heap) definitionValue(exp Value, k *syntaxKeywords, null Value) Value {
	target := Cadr(exp)
	if IsPair(target) {
		params := Cdr(target)
		body := Cddr(exp)
		return h.Cons(k.lambdaSym, h.Cons(params, body))
	}
	return Caddr(exp)
}

func ifPredicate(exp Value) Value   { return Cadr(exp) }
func ifConsequent(exp Value) Value  { return Caddr(exp) }

// ifAlternative returns the alternative clause, or falseVal if absent
// (§4.6.4: missing alternative yields #f).
func ifAlternative(exp, falseVal, null Value) Value {
	rest := Cdddr(exp)
	if Eq(rest, null) {
		return falseVal
	}
	return Car(rest)
}

func lambdaParameters(exp Value) Value { return Cadr(exp) }
func lambdaBody(exp Value) Value       { return Cddr(exp) }

func beginActions(exp Value) Value { return Cdr(exp) }

// sequenceToExp collapses a list of forms into a single expression: a
// singleton list collapses to its one element; otherwise it is
// wrapped in (begin ...). Grounded in the source's sequence->exp.
func (h *Heap) sequenceToExp(seq Value, k *syntaxKeywords, null Value) Value {
	if Eq(seq, null) {
		return seq
	}
	if Eq(Cdr(seq), null) {
		return Car(seq)
	}
	return h.Cons(k.begin, seq)
}

func operator(exp Value) Value { return Car(exp) }
func operands(exp Value) Value { return Cdr(exp) }

func condClauses(exp Value) Value     { return Cdr(exp) }
func condPredicate(clause Value) Value { return Car(clause) }
func condActions(clause Value) Value   { return Cdr(clause) }

func (k *syntaxKeywords) isCondElseClause(clause Value) bool {
	return Eq(condPredicate(clause), k.elseSym)
}

// condToIf desugars a cond form into nested ifs (§4.5). Mirrors the
// source's expand_clauses/cond_to_if. An else clause ends the expansion
// wherever it appears: its actions are used unconditionally and any
// clauses after it are ignored. A non-last else clause is accepted
// silently; no warning or error is issued.
func (h *Heap) condToIf(exp Value, k *syntaxKeywords, falseVal, null Value) Value {
	return h.expandClauses(condClauses(exp), k, falseVal, null)
}

func (h *Heap) expandClauses(clauses Value, k *syntaxKeywords, falseVal, null Value) Value {
	if Eq(clauses, null) {
		return falseVal
	}
	first := Car(clauses)
	rest := Cdr(clauses)
	if k.isCondElseClause(first) {
		return h.sequenceToExp(condActions(first), k, null)
	}
	return h.List(null, k.ifSym,
		condPredicate(first),
		h.sequenceToExp(condActions(first), k, null),
		h.expandClauses(rest, k, falseVal, null))
}

// letBindings/letBody/letName destructure both let forms: the
// anonymous (let ((v e) ...) body ...) and named
// (let name ((v e) ...) body ...).
func (k *syntaxKeywords) isNamedLet(exp Value) bool {
	return IsSymbol(Cadr(exp))
}

func (k *syntaxKeywords) letName(exp Value) Value     { return Cadr(exp) }
func (k *syntaxKeywords) letBindings(exp Value) Value {
	if k.isNamedLet(exp) {
		return Caddr(exp)
	}
	return Cadr(exp)
}
func (k *syntaxKeywords) letBody(exp Value) Value {
	if k.isNamedLet(exp) {
		return Cdddr(exp)
	}
	return Cddr(exp)
}

// letToApplication desugars `let`/named `let` into the equivalent
// lambda application (§11.3): anonymous let becomes an immediately
// applied lambda; named let becomes a self-referential one built from
// the already-specified define and lambda handlers, so no new
// evaluator state is needed.
func (h *Heap) letToApplication(exp Value, k *syntaxKeywords, null Value) Value {
	bindings := k.letBindings(exp)
	body := k.letBody(exp)

	var params, args []Value
	for b := bindings; !Eq(b, null); b = Cdr(b) {
		binding := Car(b)
		params = append(params, Car(binding))
		args = append(args, Cadr(binding))
	}

	paramsList := h.List(null, params...)
	lambdaExp := h.Cons(k.lambdaSym, h.Cons(paramsList, body))

	if !k.isNamedLet(exp) {
		return h.Cons(lambdaExp, h.List(null, args...))
	}

	name := k.letName(exp)
	namedLambda := h.Cons(k.lambdaSym, h.Cons(paramsList, body))
	defineForm := h.List(null, k.define, name, namedLambda)
	callForm := h.Cons(name, h.List(null, args...))
	innerBody := h.List(null, defineForm, callForm)
	return h.Cons(h.Cons(k.lambdaSym, h.Cons(h.List(null), innerBody)), null)
}
