package query

import (
	"reflect"
	"strings"

	"github.com/jacoelho/jello/internal/dotmap"
	"github.com/jacoelho/jello/internal/number"
)

// Interpreter executes setup statements and evaluates the final expression
// against a single private scope. One interpreter serves one invocation.
type Interpreter struct {
	scope map[string]any
	root  any
}

// NewInterpreter creates a fresh scope with the wrapped input document bound
// under the reserved "_" name. root is the plain (unwrapped) document, used
// by builtins that operate on raw JSON.
func NewInterpreter(input any, root any) *Interpreter {
	return &Interpreter{
		scope: map[string]any{"_": input},
		root:  root,
	}
}

// Run executes the setup statements in order. The first failing statement
// aborts the invocation with its error.
func (i *Interpreter) Run(setup *Program) error {
	for _, stmt := range setup.statements {
		if err := i.execStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Eval evaluates the final expression against the current scope and returns
// its raw, still-wrapped value.
func (i *Interpreter) Eval(final Expr) (any, error) {
	return i.evalExpr(final.node)
}

func (i *Interpreter) execStatement(stmt statement) error {
	switch current := stmt.(type) {
	case exprStatement:
		_, err := i.evalExpr(current.value)
		return err
	case assignStatement:
		value, err := i.evalExpr(current.value)
		if err != nil {
			return err
		}
		return i.assign(current.target, value)
	case forStatement:
		iterable, err := i.evalExpr(current.iterable)
		if err != nil {
			return err
		}
		elements, err := iterate(iterable)
		if err != nil {
			return err
		}
		for _, element := range elements {
			i.scope[current.name] = element
			for _, inner := range current.body {
				if err := i.execStatement(inner); err != nil {
					return err
				}
			}
		}
		return nil
	case ifStatement:
		cond, err := i.evalExpr(current.cond)
		if err != nil {
			return err
		}
		truth, err := mustBool(cond)
		if err != nil {
			return err
		}
		body := current.then
		if !truth {
			body = current.els
		}
		for _, inner := range body {
			if err := i.execStatement(inner); err != nil {
				return err
			}
		}
		return nil
	default:
		return runtimeError("unsupported statement %T", stmt)
	}
}

func (i *Interpreter) assign(target expr, value any) error {
	switch current := target.(type) {
	case identifierExpr:
		i.scope[current.name] = value
		return nil
	case attrExpr:
		object, err := i.evalExpr(current.target)
		if err != nil {
			return err
		}
		m, ok := object.(*dotmap.Map)
		if !ok {
			return runtimeError("cannot set attribute %q on %T", current.name, object)
		}
		m.Set(current.name, value)
		return nil
	case indexExpr:
		object, err := i.evalExpr(current.target)
		if err != nil {
			return err
		}
		index, err := i.evalExpr(current.index)
		if err != nil {
			return err
		}
		return assignIndex(object, index, value)
	default:
		return runtimeError("cannot assign to %T", target)
	}
}

func assignIndex(object, index, value any) error {
	switch container := object.(type) {
	case *dotmap.Map:
		key, ok := index.(string)
		if !ok {
			return runtimeError("object index must be a string, got %T", index)
		}
		container.Set(key, value)
		return nil
	case map[string]any:
		key, ok := index.(string)
		if !ok {
			return runtimeError("object index must be a string, got %T", index)
		}
		container[key] = value
		return nil
	case []any:
		position, err := number.ToInt64(index)
		if err != nil {
			return runtimeError("list index must be an integer, got %T", index)
		}
		normalized, err := normalizeIndex(position, len(container))
		if err != nil {
			return err
		}
		container[normalized] = value
		return nil
	default:
		return runtimeError("cannot index into %T", object)
	}
}

func (i *Interpreter) evalExpr(node expr) (any, error) {
	switch current := node.(type) {
	case literalExpr:
		return current.value, nil
	case identifierExpr:
		value, ok := i.scope[current.name]
		if !ok {
			return nil, runtimeError("name %q is not defined", current.name)
		}
		return value, nil
	case listExpr:
		elements := make([]any, len(current.elements))
		for index, element := range current.elements {
			value, err := i.evalExpr(element)
			if err != nil {
				return nil, err
			}
			elements[index] = value
		}
		return elements, nil
	case dictExpr:
		out := make(map[string]any, len(current.keys))
		for index := range current.keys {
			key, err := i.evalExpr(current.keys[index])
			if err != nil {
				return nil, err
			}
			keyString, ok := key.(string)
			if !ok {
				return nil, runtimeError("object key must be a string, got %T", key)
			}
			value, err := i.evalExpr(current.values[index])
			if err != nil {
				return nil, err
			}
			out[keyString] = value
		}
		return out, nil
	case attrExpr:
		return i.evalAttr(current)
	case indexExpr:
		return i.evalIndex(current)
	case sliceExpr:
		return i.evalSlice(current)
	case callExpr:
		return i.evalCall(current)
	case unaryExpr:
		return i.evalUnary(current)
	case binaryExpr:
		return i.evalBinary(current)
	case comprehensionExpr:
		return i.evalComprehension(current)
	default:
		return nil, runtimeError("unsupported expression %T", node)
	}
}

func (i *Interpreter) evalAttr(node attrExpr) (any, error) {
	object, err := i.evalExpr(node.target)
	if err != nil {
		return nil, err
	}

	m, ok := object.(*dotmap.Map)
	if !ok {
		if _, isPlain := object.(map[string]any); isPlain {
			return nil, runtimeError("attribute access on a plain object, use [%q] instead", node.name)
		}
		return nil, runtimeError("no attribute %q on %T", node.name, object)
	}

	return m.Attr(node.name)
}

func (i *Interpreter) evalIndex(node indexExpr) (any, error) {
	object, err := i.evalExpr(node.target)
	if err != nil {
		return nil, err
	}
	index, err := i.evalExpr(node.index)
	if err != nil {
		return nil, err
	}

	switch container := object.(type) {
	case *dotmap.Map:
		key, ok := index.(string)
		if !ok {
			return nil, runtimeError("object index must be a string, got %T", index)
		}
		return container.Get(key)
	case map[string]any:
		key, ok := index.(string)
		if !ok {
			return nil, runtimeError("object index must be a string, got %T", index)
		}
		value, exists := container[key]
		if !exists {
			return nil, runtimeError("key %q does not exist", key)
		}
		return dotmap.Wrap(value), nil
	case []any:
		position, err := number.ToInt64(index)
		if err != nil {
			return nil, runtimeError("list index must be an integer, got %T", index)
		}
		normalized, err := normalizeIndex(position, len(container))
		if err != nil {
			return nil, err
		}
		return dotmap.Wrap(container[normalized]), nil
	case string:
		position, err := number.ToInt64(index)
		if err != nil {
			return nil, runtimeError("string index must be an integer, got %T", index)
		}
		runes := []rune(container)
		normalized, err := normalizeIndex(position, len(runes))
		if err != nil {
			return nil, err
		}
		return string(runes[normalized]), nil
	default:
		return nil, runtimeError("cannot index into %T", object)
	}
}

func (i *Interpreter) evalSlice(node sliceExpr) (any, error) {
	object, err := i.evalExpr(node.target)
	if err != nil {
		return nil, err
	}

	low, high, err := i.sliceBounds(node)
	if err != nil {
		return nil, err
	}

	switch container := object.(type) {
	case []any:
		start, end := clampSlice(low, high, len(container))
		out := make([]any, end-start)
		copy(out, container[start:end])
		return out, nil
	case string:
		runes := []rune(container)
		start, end := clampSlice(low, high, len(runes))
		return string(runes[start:end]), nil
	default:
		return nil, runtimeError("cannot slice %T", object)
	}
}

// sliceBounds evaluates the optional slice expressions; nil means open end.
func (i *Interpreter) sliceBounds(node sliceExpr) (*int64, *int64, error) {
	var low, high *int64

	if node.low != nil {
		value, err := i.evalExpr(node.low)
		if err != nil {
			return nil, nil, err
		}
		bound, err := number.ToInt64(value)
		if err != nil {
			return nil, nil, runtimeError("slice bound must be an integer, got %T", value)
		}
		low = &bound
	}

	if node.high != nil {
		value, err := i.evalExpr(node.high)
		if err != nil {
			return nil, nil, err
		}
		bound, err := number.ToInt64(value)
		if err != nil {
			return nil, nil, runtimeError("slice bound must be an integer, got %T", value)
		}
		high = &bound
	}

	return low, high, nil
}

// clampSlice resolves optional negative bounds against length, clamping to
// valid range the way Python slicing does.
func clampSlice(low, high *int64, length int) (int, int) {
	start := 0
	if low != nil {
		start = resolveBound(*low, length)
	}

	end := length
	if high != nil {
		end = resolveBound(*high, length)
	}

	if end < start {
		end = start
	}
	return start, end
}

func resolveBound(bound int64, length int) int {
	value := int(bound)
	if value < 0 {
		value += length
	}
	if value < 0 {
		return 0
	}
	if value > length {
		return length
	}
	return value
}

func normalizeIndex(index int64, length int) (int, error) {
	value := int(index)
	if value < 0 {
		value += length
	}
	if value < 0 || value >= length {
		return 0, runtimeError("index %d out of range for length %d", index, length)
	}
	return value, nil
}

func (i *Interpreter) evalCall(node callExpr) (any, error) {
	args := make([]any, len(node.args))
	for index, arg := range node.args {
		value, err := i.evalExpr(arg)
		if err != nil {
			return nil, err
		}
		args[index] = value
	}

	if ident, ok := node.target.(identifierExpr); ok {
		if _, shadowed := i.scope[ident.name]; !shadowed {
			return i.callBuiltin(ident.name, args)
		}
	}

	target, err := i.evalExpr(node.target)
	if err != nil {
		return nil, err
	}

	if accessor, ok := target.(dotmap.Accessor); ok {
		result, err := accessor.Call(args)
		if err != nil {
			return nil, runtimeError("%s", err)
		}
		return result, nil
	}

	return nil, runtimeError("value of type %T is not callable", target)
}

func (i *Interpreter) evalUnary(node unaryExpr) (any, error) {
	right, err := i.evalExpr(node.right)
	if err != nil {
		return nil, err
	}

	switch node.op {
	case tokenNot:
		truth, err := mustBool(right)
		if err != nil {
			return nil, err
		}
		return !truth, nil
	case tokenMinus:
		switch value := right.(type) {
		case int64:
			return -value, nil
		case float64:
			return -value, nil
		default:
			return nil, runtimeError("cannot negate %T", right)
		}
	default:
		return nil, runtimeError("unsupported unary operator")
	}
}

func (i *Interpreter) evalBinary(node binaryExpr) (any, error) {
	switch node.op {
	case tokenAnd, tokenOr:
		return i.evalLogical(node)
	}

	left, err := i.evalExpr(node.left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(node.right)
	if err != nil {
		return nil, err
	}

	switch node.op {
	case tokenEqual:
		return equalValues(left, right), nil
	case tokenNotEqual:
		return !equalValues(left, right), nil
	case tokenLess, tokenLessEqual, tokenGreater, tokenGreaterEqual:
		return orderValues(node.op, left, right)
	case tokenIn:
		return containsValue(left, right)
	case tokenPlus, tokenMinus, tokenStar, tokenSlash, tokenPercent:
		return arithmetic(node.op, left, right)
	default:
		return nil, runtimeError("unsupported binary operator")
	}
}

// evalLogical short-circuits and/or with strict boolean operands.
func (i *Interpreter) evalLogical(node binaryExpr) (any, error) {
	left, err := i.evalExpr(node.left)
	if err != nil {
		return nil, err
	}
	leftBool, err := mustBool(left)
	if err != nil {
		return nil, err
	}

	if node.op == tokenAnd && !leftBool {
		return false, nil
	}
	if node.op == tokenOr && leftBool {
		return true, nil
	}

	right, err := i.evalExpr(node.right)
	if err != nil {
		return nil, err
	}
	return mustBool(right)
}

func (i *Interpreter) evalComprehension(node comprehensionExpr) (any, error) {
	iterable, err := i.evalExpr(node.iterable)
	if err != nil {
		return nil, err
	}
	elements, err := iterate(iterable)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(elements))
	for _, element := range elements {
		i.scope[node.name] = element

		if node.cond != nil {
			cond, err := i.evalExpr(node.cond)
			if err != nil {
				return nil, err
			}
			truth, err := mustBool(cond)
			if err != nil {
				return nil, err
			}
			if !truth {
				continue
			}
		}

		value, err := i.evalExpr(node.body)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}

	return out, nil
}

// iterate returns the elements of an iterable value, wrapping object
// elements so they remain attribute-navigable.
func iterate(value any) ([]any, error) {
	switch container := value.(type) {
	case []any:
		out := make([]any, len(container))
		for index, element := range container {
			out[index] = dotmap.Wrap(element)
		}
		return out, nil
	case *dotmap.Map:
		keys := container.Keys()
		out := make([]any, len(keys))
		for index, key := range keys {
			out[index] = key
		}
		return out, nil
	case map[string]any:
		return iterate(dotmap.NewMap(container))
	default:
		return nil, runtimeError("value of type %T is not iterable", value)
	}
}

func mustBool(value any) (bool, error) {
	truth, ok := value.(bool)
	if !ok {
		return false, runtimeError("expected boolean value, got %T", value)
	}
	return truth, nil
}

func equalValues(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}

	leftNumber, leftIsNumber := number.ToFloat64(left)
	rightNumber, rightIsNumber := number.ToFloat64(right)
	if leftIsNumber || rightIsNumber {
		return leftIsNumber && rightIsNumber && leftNumber == rightNumber
	}

	leftBool, leftIsBool := left.(bool)
	rightBool, rightIsBool := right.(bool)
	if leftIsBool || rightIsBool {
		return leftIsBool && rightIsBool && leftBool == rightBool
	}

	leftString, leftIsString := left.(string)
	rightString, rightIsString := right.(string)
	if leftIsString || rightIsString {
		return leftIsString && rightIsString && leftString == rightString
	}

	return reflect.DeepEqual(dotmap.Unwrap(left), dotmap.Unwrap(right))
}

func orderValues(op tokenType, left, right any) (any, error) {
	leftNumber, leftIsNumber := number.ToFloat64(left)
	rightNumber, rightIsNumber := number.ToFloat64(right)
	if leftIsNumber && rightIsNumber {
		switch op {
		case tokenLess:
			return leftNumber < rightNumber, nil
		case tokenLessEqual:
			return leftNumber <= rightNumber, nil
		case tokenGreater:
			return leftNumber > rightNumber, nil
		default:
			return leftNumber >= rightNumber, nil
		}
	}

	leftString, leftIsString := left.(string)
	rightString, rightIsString := right.(string)
	if leftIsString && rightIsString {
		switch op {
		case tokenLess:
			return leftString < rightString, nil
		case tokenLessEqual:
			return leftString <= rightString, nil
		case tokenGreater:
			return leftString > rightString, nil
		default:
			return leftString >= rightString, nil
		}
	}

	return nil, runtimeError("cannot compare %T and %T", left, right)
}

// containsValue implements the "in" operator: substring for strings, key
// membership for objects, element membership for lists.
func containsValue(needle, haystack any) (any, error) {
	switch container := haystack.(type) {
	case string:
		sub, ok := needle.(string)
		if !ok {
			return nil, runtimeError("'in' on a string requires a string, got %T", needle)
		}
		return strings.Contains(container, sub), nil
	case []any:
		for _, element := range container {
			if equalValues(needle, element) {
				return true, nil
			}
		}
		return false, nil
	case *dotmap.Map:
		key, ok := needle.(string)
		if !ok {
			return nil, runtimeError("'in' on an object requires a string key, got %T", needle)
		}
		return container.Has(key), nil
	case map[string]any:
		key, ok := needle.(string)
		if !ok {
			return nil, runtimeError("'in' on an object requires a string key, got %T", needle)
		}
		_, exists := container[key]
		return exists, nil
	default:
		return nil, runtimeError("'in' is not supported on %T", haystack)
	}
}

func arithmetic(op tokenType, left, right any) (any, error) {
	if op == tokenPlus {
		if leftString, ok := left.(string); ok {
			rightString, ok := right.(string)
			if !ok {
				return nil, runtimeError("cannot concatenate string and %T", right)
			}
			return leftString + rightString, nil
		}
		if leftList, ok := left.([]any); ok {
			rightList, ok := right.([]any)
			if !ok {
				return nil, runtimeError("cannot concatenate list and %T", right)
			}
			out := make([]any, 0, len(leftList)+len(rightList))
			out = append(out, leftList...)
			out = append(out, rightList...)
			return out, nil
		}
	}

	leftInt, leftIsInt := left.(int64)
	rightInt, rightIsInt := right.(int64)
	if leftIsInt && rightIsInt && op != tokenSlash {
		switch op {
		case tokenPlus:
			return leftInt + rightInt, nil
		case tokenMinus:
			return leftInt - rightInt, nil
		case tokenStar:
			return leftInt * rightInt, nil
		default: // tokenPercent
			if rightInt == 0 {
				return nil, runtimeError("modulo by zero")
			}
			return leftInt % rightInt, nil
		}
	}

	leftNumber, leftIsNumber := number.ToFloat64(left)
	rightNumber, rightIsNumber := number.ToFloat64(right)
	if !leftIsNumber || !rightIsNumber {
		return nil, runtimeError("unsupported operand types %T and %T", left, right)
	}

	switch op {
	case tokenPlus:
		return leftNumber + rightNumber, nil
	case tokenMinus:
		return leftNumber - rightNumber, nil
	case tokenStar:
		return leftNumber * rightNumber, nil
	case tokenSlash:
		if rightNumber == 0 {
			return nil, runtimeError("division by zero")
		}
		return leftNumber / rightNumber, nil
	default:
		return nil, runtimeError("modulo requires integer operands")
	}
}
