package reporting

import (
	"strconv"
	"strings"
)

// FormatAmount renders base units as a decimal token amount, e.g.
// FormatAmount(1500000, 6) == "1.500000".
func FormatAmount(baseUnits uint64, decimals uint8) string {
	s := strconv.FormatUint(baseUnits, 10)
	if decimals == 0 {
		return s
	}

	d := int(decimals)
	if len(s) <= d {
		s = strings.Repeat("0", d-len(s)+1) + s
	}
	return s[:len(s)-d] + "." + s[len(s)-d:]
}
