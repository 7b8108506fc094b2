package orders

import (
	"fmt"
	"strings"
	"time"
)

// Stock numbers are 9 digits: 3 from the chassis series, 3 from the dealer
// code, 3 from a store-owned sequence. VINs are 17-character placeholders
// built from the same facts; they are deliberately not checksum-valid.

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func lastN(s string, n int) string {
	if len(s) > n {
		return s[len(s)-n:]
	}
	// Left-pad short inputs so the segment width is stable.
	return strings.Repeat("0", n-len(s)) + s
}

func GenerateStockNumber(series, dealerCode string, seq int) string {
	return lastN(digitsOnly(series), 3) + lastN(digitsOnly(dealerCode), 3) + fmt.Sprintf("%03d", seq%1000)
}

// vinYearCodes follows the standard model-year letter table, minus the
// letters the standard skips (I, O, Q, U, Z).
var vinYearCodes = map[int]byte{
	2020: 'L', 2021: 'M', 2022: 'N', 2023: 'P', 2024: 'R',
	2025: 'S', 2026: 'T', 2027: 'V', 2028: 'W', 2029: 'X',
	2030: 'Y', 2031: '1', 2032: '2', 2033: '3', 2034: '4',
}

func yearCode(year int) byte {
	if c, ok := vinYearCodes[year]; ok {
		return c
	}
	return 'S'
}

func firstAlnum(s string, def byte) byte {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
			if c >= 'a' {
				c -= 'a' - 'A'
			}
			return c
		}
		if c >= '0' && c <= '9' {
			return c
		}
	}
	return def
}

// GeneratePseudoVin builds a stable 17-character identifier:
// WMI (3) + descriptor from series/drivetrain/cab (5) + placeholder check
// digit (1) + model-year code (1) + plant code from the dealer code (1) +
// zero-padded serial (6).
func GeneratePseudoVin(b Build, dealerCode string, year int, serial int) string {
	const wmi = "1FD" // fixed manufacturer prefix, not a registered WMI

	desc := make([]byte, 0, 5)
	desc = append(desc, lastN(digitsOnly(b.Series), 3)...)
	desc = append(desc, firstAlnum(b.Drivetrain, 'X'))
	desc = append(desc, firstAlnum(b.Cab, 'R'))

	plant := firstAlnum(digitsOnly(dealerCode), 'K')

	return wmi + string(desc) + "X" + string(yearCode(year)) + string(plant) + fmt.Sprintf("%06d", serial%1000000)
}

// CurrentModelYear is the year stamped into generated VINs.
func CurrentModelYear(now time.Time) int { return now.Year() }
