package payment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	sig := Sign("s3cret", "order_1", "pay_1")

	assert.Len(t, sig, 64)
	assert.True(t, VerifySignature("s3cret", "order_1", "pay_1", sig))
	assert.True(t, VerifySignature("s3cret", "order_1", "pay_1", strings.ToUpper(sig)))
	assert.False(t, VerifySignature("other", "order_1", "pay_1", sig))
	assert.False(t, VerifySignature("s3cret", "order_2", "pay_1", sig))
	assert.False(t, VerifySignature("s3cret", "order_1", "pay_2", sig))
	assert.False(t, VerifySignature("s3cret", "order_1", "pay_1", ""))
	assert.False(t, VerifySignature("", "order_1", "pay_1", sig))
}

func TestSign_SeparatorMatters(t *testing.T) {
	assert.NotEqual(t, Sign("k", "a|b", "c"), Sign("k", "a", "b|c|"))
	assert.NotEqual(t, Sign("k", "ab", "c"), Sign("k", "a", "bc"))
}
