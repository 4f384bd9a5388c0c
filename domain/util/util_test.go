package util

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wefund/domain"
)

func TestGramToTonString(t *testing.T) {
	assert.Equal(t, "1.5 Ton", GramToTonString(domain.NewUint128(1500000000)))
	assert.Equal(t, "1,234 Ton", GramToTonString(domain.NewUint128(1234000000000)))
}

func TestGramString(t *testing.T) {
	assert.Equal(t, "1,000,000 Gram", GramString(domain.NewUint128(1000000)))
}

func TestProgressString(t *testing.T) {
	pot := domain.Pot{Threshold: domain.NewUint128(100), Collected: domain.NewUint128(60)}
	assert.Equal(t, "60 / 100 (60%)", ProgressString(pot))

	pot = domain.Pot{Collected: domain.NewUint128(5)}
	assert.Equal(t, "5 / 0 (funded)", ProgressString(pot))
}
