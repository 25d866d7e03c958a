// Package vitals converts between external decimal temperatures and the
// ledger's integer fixed-point encoding (centidegrees).
package vitals

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/medledger/gateway/internal/common"
)

// EncodeTemperature converts degrees to centidegrees, rounding half away
// from zero.
func EncodeTemperature(degrees float64) int64 {
	return int64(math.Round(degrees * 100))
}

// DecodeTemperature converts centidegrees back to degrees. Dividing by 100
// yields the nearest float64 to the two-decimal value, so
// DecodeTemperature(EncodeTemperature(t)) == t for any t with at most two
// decimals.
func DecodeTemperature(centidegrees int64) float64 {
	return float64(centidegrees) / 100
}

// ParseTemperature accepts the temperature field as it arrives in a JSON
// body (number or numeric string) and returns degrees.
func ParseTemperature(v any) (float64, error) {
	switch value := v.(type) {
	case float64:
		return checkTemperature(value)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: temperature %q is not numeric", common.ErrorInvalidInput, value)
		}
		return checkTemperature(f)
	case json.Number:
		f, err := value.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: temperature %q is not numeric", common.ErrorInvalidInput, value.String())
		}
		return checkTemperature(f)
	case nil:
		return 0, fmt.Errorf("%w: temperature is required", common.ErrorMissingField)
	default:
		return 0, fmt.Errorf("%w: temperature has unsupported type %T", common.ErrorInvalidInput, v)
	}
}

func checkTemperature(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: temperature is not a finite number", common.ErrorInvalidInput)
	}
	return f, nil
}
