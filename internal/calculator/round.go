package calculator

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// exactDigits covers every fractional digit a float64 can carry.
const exactDigits = 1074

// Round2 rounds v to two decimal places on its exact binary value. Only true
// ties (such as 0.125) go to the even neighbour, so 2.675, stored as
// 2.67499..., rounds down.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	d, err := decimal.NewFromString(new(big.Float).SetFloat64(v).Text('f', exactDigits))
	if err != nil {
		return v
	}
	return d.RoundBank(2).InexactFloat64()
}
