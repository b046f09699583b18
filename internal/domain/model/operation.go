// Package model contains domain models passed between layers.
package model

import "slices"

// Name identifies an operation by its request key.
type Name string

// Recognised operation keys. AI is upper-case on the wire.
const (
	NameFibonacci Name = "fibonacci"
	NamePrime     Name = "prime"
	NameLCM       Name = "lcm"
	NameHCF       Name = "hcf"
	NameAI        Name = "AI"
)

// Names lists every recognised key in a stable order.
var Names = []Name{NameFibonacci, NamePrime, NameLCM, NameHCF, NameAI}

// Valid reports whether n is a recognised key. Keys are case-sensitive.
func (n Name) Valid() bool {
	return slices.Contains(Names, n)
}

// Operation is a decoded dispatch request. The set of implementations is
// closed: Fibonacci, Prime, LCM, HCF and AI.
type Operation interface {
	Name() Name
	operation()
}

// Fibonacci asks for the first N Fibonacci numbers.
type Fibonacci struct {
	N int
}

// Prime asks for the primes among Values, in order.
type Prime struct {
	Values []int64
}

// LCM asks for the least common multiple of Values.
type LCM struct {
	Values []int64
}

// HCF asks for the greatest common divisor of Values.
type HCF struct {
	Values []int64
}

// AI forwards Prompt to the generative text service.
type AI struct {
	Prompt string
}

func (Fibonacci) Name() Name { return NameFibonacci }
func (Prime) Name() Name     { return NamePrime }
func (LCM) Name() Name       { return NameLCM }
func (HCF) Name() Name       { return NameHCF }
func (AI) Name() Name        { return NameAI }

func (Fibonacci) operation() {}
func (Prime) operation()     {}
func (LCM) operation()       {}
func (HCF) operation()       {}
func (AI) operation()        {}
