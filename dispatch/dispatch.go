// Package dispatch runs an index-parameterized body over a range under an
// interchangeable execution policy. Every policy has barrier semantics: the
// call returns only after body has completed for every index. No ordering is
// guaranteed between indices, so a body must only write to slots owned by its
// own index.
package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoErrorPropagation is returned by ParallelForE for policies that cannot
// carry a structured error back from a kernel body
var ErrNoErrorPropagation = errors.New("policy cannot propagate errors from kernel bodies")

type Policy interface {
	// ParallelFor invokes body(i) for every i in [0, length)
	ParallelFor(length int, body func(i int))
	Name() string
}

// ErrorPolicy is implemented by policies able to return errors raised in a body
type ErrorPolicy interface {
	Policy
	ParallelForE(length int, body func(i int) error) error
}

func ParallelFor(policy Policy, length int, body func(i int)) {
	if length <= 0 {
		return
	}
	policy.ParallelFor(length, body)
}

func ParallelForE(policy Policy, length int, body func(i int) error) error {
	ep, ok := policy.(ErrorPolicy)
	if !ok {
		return fmt.Errorf("%s: %w", policy.Name(), ErrNoErrorPropagation)
	}
	if length <= 0 {
		return nil
	}
	return ep.ParallelForE(length, body)
}

type PolicyType uint8

const (
	SequentialPolicy PolicyType = iota
	HostConcurrentPolicy
	AcceleratorConcurrentPolicy
)

var policyNames = map[string]PolicyType{
	"sequential":  SequentialPolicy,
	"serial":      SequentialPolicy,
	"host":        HostConcurrentPolicy,
	"threads":     HostConcurrentPolicy,
	"accelerator": AcceleratorConcurrentPolicy,
	"device":      AcceleratorConcurrentPolicy,
}

func NewPolicyType(label string) (pt PolicyType, err error) {
	var ok bool
	if pt, ok = policyNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown execution policy %q, use one of sequential, host, accelerator", label)
	}
	return
}

func (pt PolicyType) String() string {
	switch pt {
	case SequentialPolicy:
		return "sequential"
	case HostConcurrentPolicy:
		return "host"
	case AcceleratorConcurrentPolicy:
		return "accelerator"
	}
	return fmt.Sprintf("PolicyType(%d)", uint8(pt))
}

// NewPolicy builds a policy from its configuration name. workers applies to
// the host policy and blockSize to the accelerator policy, zero selects the
// default for either.
func NewPolicy(label string, workers, blockSize int) (p Policy, err error) {
	var pt PolicyType
	if pt, err = NewPolicyType(label); err != nil {
		return
	}
	if workers < 0 || blockSize < 0 {
		err = fmt.Errorf("workers and block size must be non-negative, have %d, %d", workers, blockSize)
		return
	}
	switch pt {
	case HostConcurrentPolicy:
		p = HostConcurrent{Workers: workers}
	case AcceleratorConcurrentPolicy:
		p = AcceleratorConcurrent{BlockSize: blockSize}
	default:
		p = Sequential{}
	}
	return
}
