package amount

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Add returns a + b. Both amounts must be of the same commodity.
func (a Amount) Add(b Amount) (Amount, error) {
	return a.sameCommodityOp(b, decimal.Decimal.Add)
}

// Sub returns a - b. Both amounts must be of the same commodity.
func (a Amount) Sub(b Amount) (Amount, error) {
	return a.sameCommodityOp(b, decimal.Decimal.Sub)
}

func (a Amount) sameCommodityOp(b Amount, op func(decimal.Decimal, decimal.Decimal) decimal.Decimal) (Amount, error) {
	if a.commodity != b.commodity {
		return Amount{}, &CommodityMismatchError{Left: a, Right: b}
	}

	result := a
	result.quantity = op(a.quantity, b.quantity)
	result.precision = max(a.precision, b.precision)
	if result.registry == nil {
		result.registry = b.registry
	}
	return result, nil
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	a.quantity = a.quantity.Neg()
	return a
}

// Abs returns |a|.
func (a Amount) Abs() Amount {
	a.quantity = a.quantity.Abs()
	return a
}

// Mul scales a by a dimensionless factor.
func (a Amount) Mul(factor decimal.Decimal) Amount {
	a.quantity = a.quantity.Mul(factor)
	return a
}

// Div divides a by a dimensionless divisor.
func (a Amount) Div(divisor decimal.Decimal) (Amount, error) {
	if divisor.IsZero() {
		return Amount{}, ErrDivisionByZero
	}
	a.quantity = a.quantity.Div(divisor)
	return a, nil
}

// MulScalar is like Mul but accepts any Go number, a decimal.Decimal or a
// numeric string.
func (a Amount) MulScalar(v any) (Amount, error) {
	factor, err := toDecimal("*", v)
	if err != nil {
		return Amount{}, err
	}
	return a.Mul(factor), nil
}

// DivScalar is like Div but accepts any Go number, a decimal.Decimal or a
// numeric string.
func (a Amount) DivScalar(v any) (Amount, error) {
	divisor, err := toDecimal("/", v)
	if err != nil {
		return Amount{}, err
	}
	return a.Div(divisor)
}

func toDecimal(op string, v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case *decimal.Decimal:
		if n != nil {
			return *n, nil
		}
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int8:
		return decimal.NewFromInt(int64(n)), nil
	case int16:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), nil
	case uint8:
		return decimal.NewFromInt(int64(n)), nil
	case uint16:
		return decimal.NewFromInt(int64(n)), nil
	case uint32:
		return decimal.NewFromInt(int64(n)), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case *big.Int:
		if n != nil {
			return decimal.NewFromBigInt(n, 0), nil
		}
	case string:
		if d, err := decimal.NewFromString(n); err == nil {
			return d, nil
		}
	}
	return decimal.Decimal{}, &NonNumericOperandError{Op: op, Value: v}
}

// Sum adds all amounts. It returns the zero amount of the null commodity
// when called without arguments.
func Sum(amounts ...Amount) (Amount, error) {
	if len(amounts) == 0 {
		return Zero(""), nil
	}

	total := amounts[0]
	for _, a := range amounts[1:] {
		var err error
		if total, err = total.Add(a); err != nil {
			return Amount{}, fmt.Errorf("sum: %w", err)
		}
	}
	return total, nil
}
