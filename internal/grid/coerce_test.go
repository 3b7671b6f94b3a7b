package grid

import (
	"testing"
	"time"
)

// --- Coerce: integers ---

func TestCoerce_IntValid(t *testing.T) {
	v := Coerce("42", KindInt)
	if v.IsNull || v.Int != 42 {
		t.Errorf("Coerce(42) = %+v, want Int 42", v)
	}
}

func TestCoerce_IntNegativePreserved(t *testing.T) {
	v := Coerce("-5", KindInt)
	if v.Int != -5 {
		t.Errorf("Coerce(-5) Int = %d, want -5", v.Int)
	}
}

func TestCoerce_IntFromFloatString(t *testing.T) {
	// A numeric like "2.0" coming back from a loosely typed column still
	// counts as a number, truncated toward zero.
	v := Coerce("3.7", KindInt)
	if v.Int != 3 {
		t.Errorf("Coerce(3.7) Int = %d, want 3", v.Int)
	}
}

func TestCoerce_IntGarbageDegradesToZero(t *testing.T) {
	for _, raw := range []string{"abc", "", "12x", "nan?"} {
		v := Coerce(raw, KindInt)
		if v.IsNull || v.Int != 0 {
			t.Errorf("Coerce(%q) = %+v, want Int 0", raw, v)
		}
	}
}

// --- Coerce: floats ---

func TestCoerce_FloatValid(t *testing.T) {
	v := Coerce("2.5", KindFloat)
	if v.Float != 2.5 {
		t.Errorf("Coerce(2.5) Float = %v, want 2.5", v.Float)
	}
}

func TestCoerce_FloatGarbageDegradesToZero(t *testing.T) {
	v := Coerce("five", KindFloat)
	if v.IsNull || v.Float != 0 {
		t.Errorf("Coerce(five) = %+v, want Float 0", v)
	}
}

// --- Coerce: dates ---

func TestCoerceDate_AcceptedLayouts(t *testing.T) {
	want := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2026-03-09",
		"2026-03-09T14:30:00Z",
		"2026-03-09 14:30:00",
		"2026-03-09T14:30:00",
	} {
		v := CoerceDate(raw)
		if v.IsNull {
			t.Errorf("CoerceDate(%q) = null, want %s", raw, want.Format("2006-01-02"))
			continue
		}
		if !v.Time.Equal(want) {
			t.Errorf("CoerceDate(%q) = %s, want %s (time part must be discarded)", raw, v.Time, want)
		}
	}
}

func TestCoerceDate_EmptyIsNull(t *testing.T) {
	if v := CoerceDate(""); !v.IsNull {
		t.Errorf("CoerceDate(\"\") = %+v, want null", v)
	}
}

func TestCoerceDate_GarbageIsNull(t *testing.T) {
	if v := CoerceDate("next tuesday"); !v.IsNull {
		t.Errorf("CoerceDate(garbage) = %+v, want null", v)
	}
}

// --- Coerce: text ---

func TestCoerce_TextPassthrough(t *testing.T) {
	v := Coerce("  spaced  ", KindText)
	if v.Str != "  spaced  " {
		t.Errorf("Coerce text = %q, want untouched input", v.Str)
	}
}

// --- Value.String round-trip forms ---

func TestValueString_Canonical(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Int(7), "7"},
		{Float(2.5), "2.5"},
		{Date(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)), "2026-01-15"},
		{Text("hello"), "hello"},
		{Null(KindDate), ""},
		{Null(KindText), ""},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("String(%+v) = %q, want %q", c.v, got, c.want)
		}
	}
}
