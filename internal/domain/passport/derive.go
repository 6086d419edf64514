package passport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidNumber marks a present field whose value is not a valid decimal
// string. Derivation fails loudly on it instead of silently skipping.
var ErrInvalidNumber = errors.New("invalid decimal value")

// DeriveWeight returns density × volume as a decimal string.
func DeriveWeight(density, volume string) (string, error) {
	d, err := parseDecimal("density", density)
	if err != nil {
		return "", err
	}
	v, err := parseDecimal("volume", volume)
	if err != nil {
		return "", err
	}
	return d.Mul(v).String(), nil
}

// DeriveGwpTotal returns a1 + a2 + a3 as a decimal string.
func DeriveGwpTotal(a1, a2, a3 string) (string, error) {
	x, err := parseDecimal("gwp_a1", a1)
	if err != nil {
		return "", err
	}
	y, err := parseDecimal("gwp_a2", a2)
	if err != nil {
		return "", err
	}
	z, err := parseDecimal("gwp_a3", a3)
	if err != nil {
		return "", err
	}
	return x.Add(y).Add(z).String(), nil
}

// DeriveNetGwp returns total − stageDReduction as a decimal string.
func DeriveNetGwp(total, stageDReduction string) (string, error) {
	t, err := parseDecimal("gwp_total", total)
	if err != nil {
		return "", err
	}
	d, err := parseDecimal("stage_d_reduction", stageDReduction)
	if err != nil {
		return "", err
	}
	return t.Sub(d).String(), nil
}

// Derive recomputes every derived field whose inputs are all present on p.
// A derived field with a missing input keeps its previously stored value.
// It must run on every create and every update so a partial update never
// leaves a stale weight or GWP behind.
func Derive(p *MaterialPassport) error {
	if present(p.Density) && present(p.Volume) {
		w, err := DeriveWeight(*p.Density, *p.Volume)
		if err != nil {
			return err
		}
		p.Weight = &w
	}
	if present(p.GwpA1) && present(p.GwpA2) && present(p.GwpA3) {
		total, err := DeriveGwpTotal(*p.GwpA1, *p.GwpA2, *p.GwpA3)
		if err != nil {
			return err
		}
		p.GwpTotal = &total
	}
	if present(p.GwpTotal) && present(p.StageDReduction) {
		net, err := DeriveNetGwp(*p.GwpTotal, *p.StageDReduction)
		if err != nil {
			return err
		}
		p.NetGwp = &net
	}
	return nil
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, field, raw)
	}
	return d, nil
}
