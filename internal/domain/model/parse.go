package model

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
)

// ParseOptions bounds what Parse accepts.
type ParseOptions struct {
	// MaxFibonacciTerms caps Fibonacci.N. Zero disables the cap.
	MaxFibonacciTerms int
	// MaxPrimeElements caps the length of a prime array. Zero disables
	// the cap.
	MaxPrimeElements int
}

// Parse decodes a dispatch body into its Operation. Validation fails fast
// in this order: JSON syntax, key count, key name, value shape. Every
// failure is a *ValidationError.
//
// An empty body is treated as an empty object.
func Parse(r io.Reader, opts ParseOptions) (Operation, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		if !errors.Is(err, io.EOF) {
			return nil, invalid(ErrMalformed, MsgInvalidJSON)
		}
		body = map[string]any{}
	} else if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, invalid(ErrMalformed, MsgInvalidJSON)
	}

	obj, ok := body.(map[string]any)
	if !ok || len(obj) != 1 {
		return nil, invalid(ErrShape, MsgExactlyOneKey)
	}

	var (
		key   string
		value any
	)
	for k, v := range obj {
		key, value = k, v
	}

	name := Name(key)
	if !name.Valid() {
		return nil, invalid(ErrShape, MsgInvalidKey)
	}
	op, err := decodeOperation(name, value, opts)
	var verr *ValidationError
	if errors.As(err, &verr) {
		verr.Op = name
	}
	return op, err
}

func decodeOperation(name Name, value any, opts ParseOptions) (Operation, error) {
	switch name {
	case NameFibonacci:
		n, ok := asInt64(value)
		if !ok || n < 0 || n > math.MaxInt32 {
			return nil, invalid(ErrShape, MsgInvalidFibonacci)
		}
		if opts.MaxFibonacciTerms > 0 && n > int64(opts.MaxFibonacciTerms) {
			return nil, invalid(ErrShape, MsgInvalidFibonacci)
		}
		return Fibonacci{N: int(n)}, nil

	case NamePrime:
		arr, ok := value.([]any)
		if !ok {
			return nil, invalid(ErrShape, MsgPrimeNotArray)
		}
		vals, ok := asInt64s(arr)
		if !ok {
			return nil, invalid(ErrShape, MsgPrimeNotIntegers)
		}
		if opts.MaxPrimeElements > 0 && len(vals) > opts.MaxPrimeElements {
			return nil, invalid(ErrShape, MsgPrimeTooLong)
		}
		return Prime{Values: vals}, nil

	case NameLCM:
		vals, ok := nonEmptyIntegers(value)
		if !ok {
			return nil, invalid(ErrArgument, MsgLCMNonEmptyArray)
		}
		return LCM{Values: vals}, nil

	case NameHCF:
		vals, ok := nonEmptyIntegers(value)
		if !ok {
			return nil, invalid(ErrArgument, MsgHCFNonEmptyArray)
		}
		return HCF{Values: vals}, nil

	case NameAI:
		prompt, ok := value.(string)
		if !ok {
			return nil, invalid(ErrArgument, MsgAIExpectsString)
		}
		return AI{Prompt: prompt}, nil
	}
	return nil, invalid(ErrShape, MsgInvalidKey)
}

func nonEmptyIntegers(value any) ([]int64, bool) {
	arr, ok := value.([]any)
	if !ok || len(arr) == 0 {
		return nil, false
	}
	return asInt64s(arr)
}

func asInt64s(arr []any) ([]int64, bool) {
	out := make([]int64, len(arr))
	for i, v := range arr {
		n, ok := asInt64(v)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// asInt64 accepts JSON numbers with an integral value that fits int64,
// including forms such as 5.0 and 1e3.
func asInt64(v any) (int64, bool) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	if n, err := strconv.ParseInt(num.String(), 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(num.String(), 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	// float64(MaxInt64) rounds up to 2^63, which is out of range.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
