package reactive

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToString converts a data value to the string a DOM property receives.
// nil becomes "", numbers print without a trailing fraction, arrays are
// joined with commas and objects print as "[object Object]". An array
// reached again while it is being joined prints as "".
func ToString(v any) string {
	return toString(v, nil)
}

func toString(v any, joining map[*Array]bool) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t, 64)
	case float32:
		return formatNumber(float64(t), 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case *Array:
		if t == nil || joining[t] {
			return ""
		}
		if joining == nil {
			joining = make(map[*Array]bool)
		}
		joining[t] = true
		defer delete(joining, t)

		items := t.Values()
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = toString(item, joining)
		}
		return strings.Join(parts, ",")
	case *Object:
		return "[object Object]"
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// formatNumber prints f the way a JavaScript number converts to a
// string: plain decimals for 1e-6 <= |f| < 1e21, exponent form with an
// explicit sign and no padding outside that range.
func formatNumber(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bits)
	}

	s := strconv.FormatFloat(f, 'e', -1, bits)
	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}
