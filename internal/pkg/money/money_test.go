package money

import "testing"

func TestArithmetic(t *testing.T) {
	a := FromInt64(500000)
	b := FromInt64(30000)

	if got := a.Add(b); !got.Equal(FromInt64(530000)) {
		t.Fatalf("add: got %s", got)
	}
	if got := a.Sub(b); !got.Equal(FromInt64(470000)) {
		t.Fatalf("sub: got %s", got)
	}
	if got := b.MulInt(3); !got.Equal(FromInt64(90000)) {
		t.Fatalf("mul: got %s", got)
	}
	if got := b.Neg().Add(b); !got.IsZero() {
		t.Fatalf("neg: got %s", got)
	}
}

func TestPercentRoundsToUnit(t *testing.T) {
	// 10% of 530,000 = 53,000
	if got := FromInt64(530000).Percent(10); !got.Equal(FromInt64(53000)) {
		t.Fatalf("percent: got %s", got)
	}
	// 33% of 101 = 33.33 -> 33
	if got := FromInt64(101).Percent(33); !got.Equal(FromInt64(33)) {
		t.Fatalf("percent rounding: got %s", got)
	}
	// half-up: 50% of 25 = 12.5 -> 13
	if got := FromInt64(25).Percent(50); !got.Equal(FromInt64(13)) {
		t.Fatalf("percent half-up: got %s", got)
	}
}

func TestApplyDiscountPercent(t *testing.T) {
	// 20% off 150,000 = 120,000
	if got := FromInt64(150000).ApplyDiscountPercent(20); !got.Equal(FromInt64(120000)) {
		t.Fatalf("discounted price: got %s", got)
	}
	// 0% leaves the price unchanged
	if got := FromInt64(99999).ApplyDiscountPercent(0); !got.Equal(FromInt64(99999)) {
		t.Fatalf("zero discount: got %s", got)
	}
}

func TestMinAndSum(t *testing.T) {
	if got := Min(FromInt64(53000), FromInt64(30000)); !got.Equal(FromInt64(30000)) {
		t.Fatalf("min: got %s", got)
	}
	if got := Sum(FromInt64(1), FromInt64(2), FromInt64(3)); !got.Equal(FromInt64(6)) {
		t.Fatalf("sum: got %s", got)
	}
}

func TestParse(t *testing.T) {
	a, err := Parse("123456")
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if !a.Equal(FromInt64(123456)) {
		t.Fatalf("parse: got %s", a)
	}
	if _, err := Parse("not-a-number"); err == nil {
		t.Fatal("expected parse error")
	}
}
