package populate

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	eng "github.com/reoring/jsonbind/internal/engine"
)

// setScalar stores a scalar node into a bool, string or numeric value.
func setScalar(n *eng.Node, v reflect.Value, strict bool) error {
	t := v.Type()
	switch v.Kind() {
	case reflect.Bool:
		switch {
		case n.Kind == eng.NodeBool:
			v.SetBool(n.Bool)
			return nil
		case n.Kind == eng.NodeString && !strict:
			switch {
			case strings.EqualFold(n.Text, "true"):
				v.SetBool(true)
				return nil
			case strings.EqualFold(n.Text, "false"):
				v.SetBool(false)
				return nil
			}
		}
		return mismatch(n, t)

	case reflect.String:
		switch {
		case n.Kind == eng.NodeString:
			v.SetString(n.Text)
			return nil
		case n.Kind == eng.NodeNumber && !strict:
			v.SetString(n.Text)
			return nil
		case n.Kind == eng.NodeBool && !strict:
			v.SetString(strconv.FormatBool(n.Bool))
			return nil
		}
		return mismatch(n, t)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		text, ok := numericText(n, strict)
		if !ok {
			return mismatch(n, t)
		}
		i, err := parseInt(text, t.Bits())
		if err != nil {
			return classify(n, t, err)
		}
		v.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		text, ok := numericText(n, strict)
		if !ok {
			return mismatch(n, t)
		}
		u, err := parseUint(text, t.Bits())
		if err != nil {
			return classify(n, t, err)
		}
		v.SetUint(u)
		return nil

	case reflect.Float32, reflect.Float64:
		text, ok := numericText(n, strict)
		if !ok {
			return mismatch(n, t)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(text), t.Bits())
		if err != nil {
			return classify(n, t, err)
		}
		v.SetFloat(f)
		return nil
	}
	return mismatch(n, t)
}

// numericText returns the text to parse as a number: number literals, and
// string literals unless coercion is disabled.
func numericText(n *eng.Node, strict bool) (string, bool) {
	switch {
	case n.Kind == eng.NodeNumber:
		return n.Text, true
	case n.Kind == eng.NodeString && !strict:
		return strings.TrimSpace(n.Text), true
	}
	return "", false
}

var errRange = strconv.ErrRange

// parseInt accepts integral literals, including exponent or fractional forms
// whose value is whole (1e3, 2.0).
func parseInt(text string, bits int) (int64, error) {
	i, err := strconv.ParseInt(text, 10, bits)
	if err == nil {
		return i, nil
	}
	if errors.Is(err, errRange) {
		return 0, errRange
	}
	f, ferr := strconv.ParseFloat(text, 64)
	if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, err
	}
	lo, hi := -math.Ldexp(1, bits-1), math.Ldexp(1, bits-1)
	if f < lo || f >= hi {
		return 0, errRange
	}
	return int64(f), nil
}

func parseUint(text string, bits int) (uint64, error) {
	u, err := strconv.ParseUint(text, 10, bits)
	if err == nil {
		return u, nil
	}
	if errors.Is(err, errRange) {
		return 0, errRange
	}
	if strings.HasPrefix(text, "-") {
		if _, ierr := strconv.ParseInt(text, 10, 64); ierr == nil {
			return 0, errRange
		}
	}
	f, ferr := strconv.ParseFloat(text, 64)
	if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, err
	}
	if f < 0 || f >= math.Ldexp(1, bits) {
		return 0, errRange
	}
	return uint64(f), nil
}

func classify(n *eng.Node, t reflect.Type, err error) *ConversionError {
	if errors.Is(err, errRange) {
		ce := overflow(n, t)
		ce.Err = err
		return ce
	}
	ce := mismatch(n, t)
	ce.Err = err
	return ce
}
