package payment

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// MinConfirmationCodeLength is the shortest code the simulated providers accept.
const MinConfirmationCodeLength = 4

// mobileMoney simulates an operator that pushes a prompt to the payer's phone.
type mobileMoney struct {
	method Method
	log    *zap.Logger
}

func NewOrangeMoney(log *zap.Logger) Provider {
	return &mobileMoney{method: MethodOrangeMoney, log: log.With(zap.String("provider", string(MethodOrangeMoney)))}
}

func NewMomoPay(log *zap.Logger) Provider {
	return &mobileMoney{method: MethodMomoPay, log: log.With(zap.String("provider", string(MethodMomoPay)))}
}

func (m *mobileMoney) Method() Method { return m.method }

func (m *mobileMoney) Initiate(ctx context.Context, charge Charge) (*Dispatch, error) {
	if charge.PhoneNumber == "" {
		return nil, fmt.Errorf("%s: phone number is required", m.method)
	}

	m.log.Info("Simulated payment request sent",
		zap.String("transaction_id", charge.TransactionID),
		zap.Float64("amount", charge.Amount),
	)

	return &Dispatch{
		Status:               "pending",
		Message:              fmt.Sprintf("Payment request sent to %s. Please check your phone for confirmation.", charge.PhoneNumber),
		ConfirmationRequired: true,
	}, nil
}

func (m *mobileMoney) Confirm(ctx context.Context, c Confirmation) (bool, error) {
	return len(c.Code) >= MinConfirmationCodeLength, nil
}

// creditCard simulates a card processor that settles asynchronously.
type creditCard struct {
	log *zap.Logger
}

func NewCreditCard(log *zap.Logger) Provider {
	return &creditCard{log: log.With(zap.String("provider", string(MethodCreditCard)))}
}

func (c *creditCard) Method() Method { return MethodCreditCard }

func (c *creditCard) Initiate(ctx context.Context, charge Charge) (*Dispatch, error) {
	c.log.Info("Simulated card charge submitted",
		zap.String("transaction_id", charge.TransactionID),
		zap.Float64("amount", charge.Amount),
	)

	return &Dispatch{
		Status:               "processing",
		Message:              "Processing credit card payment...",
		ConfirmationRequired: false,
	}, nil
}

func (c *creditCard) Confirm(ctx context.Context, conf Confirmation) (bool, error) {
	return len(conf.Code) >= MinConfirmationCodeLength, nil
}

// NewSimulatedRegistry registers the simulated provider of every method.
func NewSimulatedRegistry(log *zap.Logger) *Registry {
	return NewRegistry(NewOrangeMoney(log), NewMomoPay(log), NewCreditCard(log))
}
