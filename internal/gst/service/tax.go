package service

import (
	"errors"
	"math"

	"github.com/packerp/packerp/internal/gst/model"
)

// ComputeTax splits the GST on a supply between the applicable tax heads.
// Intra-state supplies (same supplier and recipient state code) attract
// CGST and SGST at half the rate each; inter-state supplies attract IGST
// at the full rate. Amounts are rounded to the paise.
func ComputeTax(taxableValue, gstRate float64, supplierState, recipientState string) (*model.TaxBreakup, error) {
	if taxableValue < 0 {
		return nil, errors.New("taxable value cannot be negative")
	}
	if gstRate < 0 || gstRate > 100 {
		return nil, errors.New("gst rate must be between 0 and 100")
	}
	if supplierState == "" || recipientState == "" {
		return nil, errors.New("supplier and recipient state codes are required")
	}

	breakup := &model.TaxBreakup{IntraState: supplierState == recipientState}
	if breakup.IntraState {
		half := roundPaise(taxableValue * gstRate / 200)
		breakup.CGST = half
		breakup.SGST = half
	} else {
		breakup.IGST = roundPaise(taxableValue * gstRate / 100)
	}
	breakup.TotalTax = roundPaise(breakup.CGST + breakup.SGST + breakup.IGST)
	return breakup, nil
}

func roundPaise(v float64) float64 {
	return math.Round(v*100) / 100
}
