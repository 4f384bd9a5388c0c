package util

import (
	"fmt"
	"math/big"

	"github.com/dustin/go-humanize"

	"wefund/domain"
)

var nanoPerTon = big.NewFloat(1000000000)

// GramToTonString renders a native amount given in nano-ton.
func GramToTonString(gram domain.Uint128) string {
	ton, _ := new(big.Float).Quo(new(big.Float).SetInt(gram.Big()), nanoPerTon).Float64()
	return fmt.Sprintf("%v Ton", humanize.Commaf(ton))
}

func GramString(gram domain.Uint128) string {
	return fmt.Sprintf("%v Gram", humanize.BigComma(gram.Big()))
}

// TokenString renders a token amount in its smallest unit.
func TokenString(amount domain.Uint128) string {
	return humanize.BigComma(amount.Big())
}

// ProgressString shows how far a pot is from its threshold, e.g. "60 / 100 (60%)".
func ProgressString(pot domain.Pot) string {
	if pot.Threshold.IsZero() {
		return fmt.Sprintf("%v / 0 (funded)", TokenString(pot.Collected))
	}
	ratio, _ := new(big.Float).Quo(new(big.Float).SetInt(pot.Collected.Big()), new(big.Float).SetInt(pot.Threshold.Big())).Float64()
	return fmt.Sprintf("%v / %v (%v%%)", TokenString(pot.Collected), TokenString(pot.Threshold), humanize.FtoaWithDigits(ratio*100, 2))
}
