package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistry_Get(t *testing.T) {
	registry := NewSimulatedRegistry(zap.NewNop())

	for _, method := range []Method{MethodOrangeMoney, MethodMomoPay, MethodCreditCard} {
		p, err := registry.Get(method)
		require.NoError(t, err)
		assert.Equal(t, method, p.Method())
	}

	_, err := registry.Get(Method("paypal"))
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestMobileMoney_Initiate(t *testing.T) {
	p := NewOrangeMoney(zap.NewNop())

	dispatch, err := p.Initiate(context.Background(), Charge{TransactionID: "TXN_1", Amount: 150, PhoneNumber: "+237690000000"})
	require.NoError(t, err)
	assert.Equal(t, "pending", dispatch.Status)
	assert.True(t, dispatch.ConfirmationRequired)
	assert.Contains(t, dispatch.Message, "+237690000000")

	_, err = p.Initiate(context.Background(), Charge{TransactionID: "TXN_2", Amount: 150})
	assert.Error(t, err)
}

func TestCreditCard_Initiate(t *testing.T) {
	dispatch, err := NewCreditCard(zap.NewNop()).Initiate(context.Background(), Charge{TransactionID: "TXN_3", Amount: 80, CardLast4: "4242"})
	require.NoError(t, err)
	assert.Equal(t, "processing", dispatch.Status)
	assert.False(t, dispatch.ConfirmationRequired)
}

func TestConfirm_CodeLength(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"", false},
		{"123", false},
		{"1234", true},
		{"abcdef", true},
	}

	for _, p := range []Provider{NewMomoPay(zap.NewNop()), NewCreditCard(zap.NewNop())} {
		for _, tt := range tests {
			ok, err := p.Confirm(context.Background(), Confirmation{TransactionID: "TXN", Code: tt.code})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok, "method %s code %q", p.Method(), tt.code)
		}
	}
}
