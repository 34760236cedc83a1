package parser

import (
	"math/big"
	"strconv"
)

func parseBigInt(lit string) (*big.Int, bool) {
	bi, ok := new(big.Int).SetString(lit, 10)
	return bi, ok
}

func parseFloat(lit string) (float64, bool) {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
