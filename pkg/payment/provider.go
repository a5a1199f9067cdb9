// Package payment defines the provider contract used to charge bookings and
// ships the simulated providers the marketplace runs with.
package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type Method string

const (
	MethodOrangeMoney Method = "orange_money"
	MethodMomoPay     Method = "momo_pay"
	MethodCreditCard  Method = "credit_card"
)

var ErrUnsupportedMethod = errors.New("unsupported payment method")

// Charge is what a provider needs to start collecting money.
type Charge struct {
	TransactionID string
	Amount        float64
	PhoneNumber   string
	CardLast4     string
}

// Dispatch is the provider's immediate answer to a charge.
type Dispatch struct {
	Status               string `json:"status"`
	Message              string `json:"message"`
	ConfirmationRequired bool   `json:"confirmation_required"`
}

type Confirmation struct {
	TransactionID string
	Code          string
}

// Provider is a payment backend for one method. Confirm reports false for a
// rejected confirmation; errors are reserved for provider failures.
type Provider interface {
	Method() Method
	Initiate(ctx context.Context, charge Charge) (*Dispatch, error)
	Confirm(ctx context.Context, confirmation Confirmation) (bool, error)
}

// Registry resolves providers by method.
type Registry struct {
	mu        sync.RWMutex
	providers map[Method]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[Method]Provider, len(providers))}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds p, replacing any provider already bound to its method.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Method()] = p
}

func (r *Registry) Get(method Method) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
	return p, nil
}
