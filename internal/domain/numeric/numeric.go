// Package numeric implements the pure integer utilities behind the
// dispatch endpoint. Nothing here allocates state beyond its result.
package numeric

import (
	"context"
	"math/big"
)

// checkEvery is the number of trial divisors tested between context checks.
const checkEvery = 1 << 20

// Fibonacci returns the first n Fibonacci numbers starting 0, 1, 1, 2.
// Terms are arbitrary precision. n <= 0 yields an empty, non-nil slice.
func Fibonacci(n int) []*big.Int {
	if n <= 0 {
		return []*big.Int{}
	}
	out := make([]*big.Int, 0, n)
	a, b := big.NewInt(0), big.NewInt(1)
	for i := 0; i < n; i++ {
		out = append(out, new(big.Int).Set(a))
		a.Add(a, b)
		a, b = b, a
	}
	return out
}

// IsPrime reports whether n is prime using trial division up to √n.
func IsPrime(n int64) bool {
	ok, _ := IsPrimeContext(context.Background(), n)
	return ok
}

// IsPrimeContext is IsPrime that gives up with ctx.Err() once ctx is done.
// Values near the int64 limit need about 1.5e9 divisions.
func IsPrimeContext(ctx context.Context, n int64) (bool, error) {
	if n < 2 {
		return false, nil
	}
	if n < 4 {
		return true, nil
	}
	if n%2 == 0 {
		return false, nil
	}
	steps := 0
	// i <= n/i avoids overflowing i*i near the int64 limit.
	for i := int64(3); i <= n/i; i += 2 {
		if n%i == 0 {
			return false, nil
		}
		if steps++; steps == checkEvery {
			steps = 0
			if err := ctx.Err(); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

// Primes returns the elements of in that are prime, in input order.
func Primes(ctx context.Context, in []int64) ([]int64, error) {
	out := make([]int64, 0, len(in))
	for _, n := range in {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := IsPrimeContext(ctx, n)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// GCD returns the non-negative greatest common divisor of a and b.
// GCD(0, 0) is 0.
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

// LCM returns |a*b| / gcd(a, b), or 0 when either operand is 0.
func LCM(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	p := new(big.Int).Mul(a, b)
	p.Abs(p)
	return p.Quo(p, GCD(a, b))
}

// Reduce folds vals left to right with fn. It returns nil for an empty
// input and ctx.Err() if ctx is done between steps.
func Reduce(ctx context.Context, vals []int64, fn func(a, b *big.Int) *big.Int) (*big.Int, error) {
	if len(vals) == 0 {
		return nil, nil
	}
	acc := big.NewInt(vals[0])
	for _, v := range vals[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		acc = fn(acc, big.NewInt(v))
	}
	return acc, nil
}

// LCMOf reduces vals pairwise with LCM. The result is never negative.
func LCMOf(ctx context.Context, vals []int64) (*big.Int, error) {
	v, err := Reduce(ctx, vals, LCM)
	return abs(v), err
}

// HCFOf reduces vals pairwise with GCD. The result is never negative.
func HCFOf(ctx context.Context, vals []int64) (*big.Int, error) {
	v, err := Reduce(ctx, vals, GCD)
	return abs(v), err
}

func abs(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return v.Abs(v)
}
