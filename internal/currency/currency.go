// Package currency models multi-denomination coin bundles and their
// normalization to a single comparable unit (gold).
package currency

// Denomination is one coin unit.
type Denomination string

const (
	Platinum Denomination = "pp"
	Gold     Denomination = "gp"
	Electrum Denomination = "ep"
	Silver   Denomination = "sp"
	Copper   Denomination = "cp"
)

// Denominations lists every unit in descending value order. Iteration over
// bundles goes through this slice so arithmetic and encoding stay deterministic.
var Denominations = []Denomination{Platinum, Gold, Electrum, Silver, Copper}

// rates converts one coin of a denomination to gold. Fixed table, not tunable.
var rates = map[Denomination]float64{
	Platinum: 10,
	Gold:     1,
	Electrum: 0.5,
	Silver:   0.1,
	Copper:   0.01,
}

// Known reports whether d is one of the five coin units.
func Known(d Denomination) bool {
	_, ok := rates[d]
	return ok
}

// Bundle maps denomination to coin count. A canonical bundle carries all five
// keys; use New or Canon to guarantee that shape.
type Bundle map[Denomination]int

// New returns a bundle with every denomination present at zero.
func New() Bundle {
	b := make(Bundle, len(Denominations))
	for _, d := range Denominations {
		b[d] = 0
	}
	return b
}

// Canon returns a copy of b with all five keys present and unknown keys dropped.
func Canon(b Bundle) Bundle {
	out := New()
	for _, d := range Denominations {
		out[d] = b[d]
	}
	return out
}

// Clone returns an independent canonical copy of b.
func (b Bundle) Clone() Bundle {
	return Canon(b)
}

// IsZero reports whether every denomination count is zero.
func (b Bundle) IsZero() bool {
	for _, d := range Denominations {
		if b[d] != 0 {
			return false
		}
	}
	return true
}

// Covers reports whether b holds at least want of every denomination.
// The check is per denomination: total value never substitutes for coins
// of the requested unit.
func (b Bundle) Covers(want Bundle) bool {
	for _, d := range Denominations {
		if b[d] < want[d] {
			return false
		}
	}
	return true
}

// Normalize sums a bundle into gold: 10*pp + gp + 0.5*ep + 0.1*sp + 0.01*cp.
func Normalize(b Bundle) float64 {
	var total float64
	for _, d := range Denominations {
		n := b[d]
		if n == 0 {
			continue
		}
		total += float64(n) * rates[d]
	}
	return total
}

// ToBaseUnit converts a single price to gold. An unknown or empty denomination
// treats the value as already expressed in gold; lenient on purpose so unpriced
// or oddly-priced items still participate in balance math.
func ToBaseUnit(value float64, d Denomination) float64 {
	r, ok := rates[d]
	if !ok {
		return value
	}
	return value * r
}

// Settle computes held - offered + received per denomination. The result may
// go negative; callers decide whether negative holdings are acceptable before
// persisting.
func Settle(held, offered, received Bundle) Bundle {
	out := New()
	for _, d := range Denominations {
		out[d] = held[d] - offered[d] + received[d]
	}
	return out
}
