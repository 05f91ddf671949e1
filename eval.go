package noldor

// Labels the continu register can hold — every point a sub-evaluation
// returns to once its value lands in val (§4.6). The dispatch switch
// at dispatchContinu is the "GOTO register" of the spec, implemented
// as a tight switch on an integer state id, per §9's explicit
// allowance for either a label-address table or a switch.
const (
	lblDone label = iota
	lblEvIfDecide
	lblEvAssignment1
	lblEvDefinition1
	lblEvApplDidOperator
	lblEvApplAccumulateArg
	lblEvApplAccumLastArg
	lblEvSequenceContinue
)

// Eval evaluates expr in env and returns its value. It creates a
// fresh register-machine thread, registers it as a GC scope for the
// duration of the evaluation, and drives the explicit-control
// evaluator to completion (§3.7, §4.6).
func (i *Interpreter) Eval(expr, env Value) (Value, error) {
	if i.config.GetBool("eval.trace") {
		i.log.Eval(Repr(expr))
	}

	th := newThread()
	deregister := i.heap.Register(th)
	defer deregister()

	th.assign(regExp, expr)
	th.assign(regEnv, env)
	th.continu = lblDone

	return i.run(th)
}

// run drives one thread through the labelled state machine until it
// reaches lblDone, at which point val holds the result. The machine
// never recurses on the host stack for tail calls: compound_apply
// inherits the caller's continu rather than saving a new one, and
// ev_sequence's last form re-enters eval_dispatch without pushing
// (§4.6.6).
func (i *Interpreter) run(th *thread) (Value, error) {
	h := i.heap
	k := i.kw
	null := i.atoms.null
	falseVal := i.atoms.f

evalDispatch:
	{
		exp := th.getreg(regExp)
		switch {
		case IsSelfEvaluating(exp):
			goto evSelfEval
		case isVariable(exp):
			goto evVariable
		case k.isQuoted(exp):
			goto evQuote
		case k.isQuasiquoted(exp):
			goto evQuasiquote
		case k.isAssignment(exp):
			goto evAssignment
		case k.isDefinition(exp):
			goto evDefinition
		case k.isIf(exp):
			goto evIf
		case k.isLambda(exp):
			goto evLambda
		case k.isBegin(exp):
			goto evBegin
		case k.isCond(exp):
			th.assign(regExp, h.condToIf(exp, k, falseVal, null))
			goto evalDispatch
		case k.isLet(exp):
			th.assign(regExp, h.letToApplication(exp, k, null))
			goto evalDispatch
		case IsPair(exp):
			goto evApplication
		default:
			return 0, &RuntimeError{Message: "unknown expression type", Irritants: exp}
		}
	}

evSelfEval:
	th.assign(regVal, th.getreg(regExp))
	goto dispatchContinu

evVariable:
	{
		v, gerr := EnvironmentGet(th.getreg(regEnv), th.getreg(regExp), null)
		if gerr != nil {
			return 0, gerr
		}
		th.assign(regVal, v)
		goto dispatchContinu
	}

evQuote:
	th.assign(regVal, textOfQuotation(th.getreg(regExp)))
	goto dispatchContinu

evQuasiquote:
	{
		v, qerr := i.quasiquoteExpand(Cadr(th.getreg(regExp)), th.getreg(regEnv))
		if qerr != nil {
			return 0, qerr
		}
		th.assign(regVal, v)
		goto dispatchContinu
	}

evAssignment:
	th.assign(regUnev, assignmentVariable(th.getreg(regExp)))
	th.save(regUnev)
	th.assign(regExp, assignmentValue(th.getreg(regExp)))
	th.save(regEnv)
	th.saveContinu()
	th.continu = lblEvAssignment1
	goto evalDispatch

evDefinition:
	{
		exp := th.getreg(regExp)
		th.assign(regUnev, h.definitionVariable(exp, null))
		th.save(regUnev)
		th.assign(regExp, h.definitionValue(exp, k, null))
		th.save(regEnv)
		th.saveContinu()
		th.continu = lblEvDefinition1
		goto evalDispatch
	}

evIf:
	th.save(regExp)
	th.save(regEnv)
	th.saveContinu()
	th.assign(regExp, ifPredicate(th.getreg(regExp)))
	th.continu = lblEvIfDecide
	goto evalDispatch

evLambda:
	{
		exp := th.getreg(regExp)
		proc := h.MkCompoundProcedure(lambdaParameters(exp), lambdaBody(exp), th.getreg(regEnv))
		th.assign(regVal, proc)
		goto dispatchContinu
	}

evBegin:
	th.assign(regUnev, beginActions(th.getreg(regExp)))
	goto evSequence

evApplication:
	th.saveContinu()
	th.save(regEnv)
	th.assign(regUnev, operands(th.getreg(regExp)))
	th.save(regUnev)
	th.assign(regExp, operator(th.getreg(regExp)))
	th.continu = lblEvApplDidOperator
	goto evalDispatch

evApplOperandLoop:
	{
		unev := th.getreg(regUnev)
		if IsNull(unev) {
			goto applyDispatch
		}
		th.save(regArgl)
		th.assign(regExp, Car(unev))
		if IsNull(Cdr(unev)) {
			th.continu = lblEvApplAccumLastArg
			goto evalDispatch
		}
		th.save(regEnv)
		th.save(regUnev)
		th.continu = lblEvApplAccumulateArg
		goto evalDispatch
	}

applyDispatch:
	{
		proc := th.getreg(regProc)
		switch {
		case IsPrimitiveProcedure(proc):
			goto primitiveApply
		case IsCompoundProcedure(proc):
			goto compoundApply
		default:
			return 0, &CallError{Message: "unknown procedure type", Irritants: proc}
		}
	}

primitiveApply:
	{
		proc := th.getreg(regProc)
		args := ListToSlice(th.getreg(regArgl), null)
		v, perr := primitiveOf(proc).fn(i, args)
		if perr != nil {
			return 0, perr
		}
		th.assign(regVal, v)
		goto dispatchContinu // continu was already restored before applyDispatch
	}

compoundApply:
	{
		proc := th.getreg(regProc)
		newEnv, eerr := i.extendEnvironment(ProcedureParameters(proc), th.getreg(regArgl), ProcedureEnvironment(proc), null)
		if eerr != nil {
			return 0, eerr
		}
		th.assign(regEnv, newEnv)
		th.assign(regUnev, ProcedureBody(proc))
		goto evSequence // tail call: continu is inherited, not pushed (§4.6.6)
	}

evSequence:
	{
		unev := th.getreg(regUnev)
		th.assign(regExp, Car(unev))
		if IsNull(Cdr(unev)) {
			goto evalDispatch // last form: tail position, continu inherited
		}
		th.saveContinu()
		th.save(regEnv)
		th.save(regUnev)
		th.continu = lblEvSequenceContinue
		goto evalDispatch
	}

dispatchContinu:
	switch th.continu {
	case lblDone:
		return th.getreg(regVal), nil
	case lblEvIfDecide:
		th.restoreContinu()
		th.restore(regEnv)
		origExp := th.restore(regExp)
		if IsTruthy(th.getreg(regVal)) {
			th.assign(regExp, ifConsequent(origExp))
		} else {
			th.assign(regExp, ifAlternative(origExp, falseVal, null))
		}
		goto evalDispatch
	case lblEvAssignment1:
		th.restoreContinu()
		th.restore(regEnv)
		th.restore(regUnev)
		if serr := EnvironmentSet(th.getreg(regEnv), th.getreg(regUnev), th.getreg(regVal), null); serr != nil {
			return 0, serr
		}
		th.assign(regVal, k.ok)
		goto dispatchContinu
	case lblEvDefinition1:
		th.restoreContinu()
		th.restore(regEnv)
		th.restore(regUnev)
		EnvironmentDefine(th.getreg(regEnv), th.getreg(regUnev), th.getreg(regVal))
		th.assign(regVal, k.ok)
		goto dispatchContinu
	case lblEvApplDidOperator:
		th.restore(regUnev)
		th.restore(regEnv)
		th.assign(regArgl, null)
		th.assign(regProc, th.getreg(regVal))
		if IsNull(th.getreg(regUnev)) {
			th.restoreContinu()
			goto applyDispatch
		}
		th.save(regProc)
		goto evApplOperandLoop
	case lblEvApplAccumulateArg:
		th.restore(regUnev)
		th.restore(regEnv)
		argl := th.restore(regArgl)
		th.assign(regArgl, h.Cons(th.getreg(regVal), argl))
		th.assign(regUnev, Cdr(th.getreg(regUnev)))
		goto evApplOperandLoop
	case lblEvApplAccumLastArg:
		argl := th.restore(regArgl)
		th.assign(regArgl, h.Reverse(h.Cons(th.getreg(regVal), argl), null))
		th.restore(regProc)
		th.restoreContinu()
		goto applyDispatch
	case lblEvSequenceContinue:
		th.restore(regUnev)
		th.restore(regEnv)
		th.restoreContinu()
		th.assign(regUnev, Cdr(th.getreg(regUnev)))
		goto evSequence
	default:
		return 0, &RuntimeError{Message: "internal error: unknown continuation label"}
	}
}

// quasiquoteExpand walks a quasiquote template, splicing unquote and
// unquote-splicing forms (§4.6.4). Implemented as an ordinary
// recursive Go function rather than additional register-machine
// states: the spec itself describes unquote evaluation as
// "recursively evaluate e", and quasiquote nesting depth is bounded by
// the source text, not by runtime recursion depth — unlike tail calls,
// nothing requires this to run in O(1) host stack.
func (i *Interpreter) quasiquoteExpand(tmpl, env Value) (Value, error) {
	k := i.kw
	null := i.atoms.null
	h := i.heap

	if k.isUnquoted(tmpl) {
		return i.Eval(Cadr(tmpl), env)
	}
	if !IsPair(tmpl) {
		return tmpl, nil
	}
	head := Car(tmpl)
	if k.isUnquoteSpliced(head) {
		spliced, err := i.Eval(Cadr(head), env)
		if err != nil {
			return 0, err
		}
		rest, err := i.quasiquoteExpand(Cdr(tmpl), env)
		if err != nil {
			return 0, err
		}
		return h.Append(spliced, rest, null), nil
	}
	carExp, err := i.quasiquoteExpand(head, env)
	if err != nil {
		return 0, err
	}
	cdrExp, err := i.quasiquoteExpand(Cdr(tmpl), env)
	if err != nil {
		return 0, err
	}
	return h.Cons(carExp, cdrExp), nil
}

// extendEnvironment binds proc's parameters against the accumulated
// argument list (§4.6.5): a proper list requires exact arity; a bare
// symbol binds the entire argument list; a dotted list binds a fixed
// prefix plus a rest parameter. Arity mismatch raises *CallError — the
// distilled spec's open question resolved per its own recommendation
// (§9 "Decided — parameter arity"), rather than the source's warn-and-
// partially-bind behavior.
func (i *Interpreter) extendEnvironment(params, args, outer, null Value) (Value, error) {
	h := i.heap
	env := h.MkEnvironment(outer)

	if IsSymbol(params) {
		EnvironmentDefine(env, params, args)
		return env, nil
	}

	p, a := params, args
	for IsPair(p) {
		if IsNull(a) {
			return 0, &CallError{Message: "too few arguments", Irritants: args}
		}
		EnvironmentDefine(env, Car(p), Car(a))
		p = Cdr(p)
		a = Cdr(a)
	}

	if IsSymbol(p) {
		EnvironmentDefine(env, p, a)
		return env, nil
	}

	if !IsNull(a) {
		return 0, &CallError{Message: "too many arguments", Irritants: args}
	}
	return env, nil
}
