package service

import (
	"fmt"

	"escrow-settlement-engine/pkg/apperror"

	"github.com/shopspring/decimal"
)

// currencyExponents lists minor-unit exponents that differ from the
// default of 2.
var currencyExponents = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"BHD": 3,
	"IQD": 3,
	"KWD": 3,
}

func minorUnitExponent(currency string) int32 {
	if exp, ok := currencyExponents[currency]; ok {
		return exp
	}
	return 2
}

// NormalizeAmount resolves a request amount to integer minor units.
// Exactly one of minor or major must be supplied; major is a decimal
// string in major units and is rounded half away from zero to the
// nearest minor unit. The result must be positive.
func NormalizeAmount(minor int64, major string, currency string) (int64, error) {
	if major != "" {
		if minor != 0 {
			return 0, apperror.Validation("supply amount_minor or amount, not both")
		}
		d, err := decimal.NewFromString(major)
		if err != nil {
			return 0, apperror.Validation(fmt.Sprintf("malformed amount %q", major))
		}
		minor = d.Shift(minorUnitExponent(currency)).Round(0).IntPart()
	}
	if minor <= 0 {
		return 0, apperror.ErrInvalidAmount()
	}
	return minor, nil
}
