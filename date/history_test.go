package date

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestHistoryAppendSortsAndOverwrites(t *testing.T) {
	var h History[decimal.Decimal]
	h.Append(New(2001, time.March, 4), decimal.NewFromInt(2))
	h.Append(New(2001, time.January, 1), decimal.NewFromInt(1))
	h.Append(New(2001, time.March, 4), decimal.NewFromInt(3)) // last write wins

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}
	day, v, ok := h.Earliest()
	if !ok || day != New(2001, time.January, 1) || !v.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Earliest() = %v %v %v", day, v, ok)
	}
	day, v = h.Latest()
	if day != New(2001, time.March, 4) || !v.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Latest() = %v %v", day, v)
	}
}

func TestHistoryValueAsOf(t *testing.T) {
	var h History[decimal.Decimal]
	h.Append(New(2001, time.January, 10), decimal.NewFromInt(10))
	h.Append(New(2001, time.February, 10), decimal.NewFromInt(20))

	if _, ok := h.ValueAsOf(New(2001, time.January, 9)); ok {
		t.Error("ValueAsOf before first point should not be found")
	}
	if v, ok := h.ValueAsOf(New(2001, time.January, 10)); !ok || !v.Equal(decimal.NewFromInt(10)) {
		t.Errorf("ValueAsOf(exact) = %v %v", v, ok)
	}
	if v, ok := h.ValueAsOf(New(2001, time.January, 20)); !ok || !v.Equal(decimal.NewFromInt(10)) {
		t.Errorf("ValueAsOf(between) = %v %v", v, ok)
	}
	if v, ok := h.ValueAsOf(New(2002, time.January, 1)); !ok || !v.Equal(decimal.NewFromInt(20)) {
		t.Errorf("ValueAsOf(after last) = %v %v", v, ok)
	}
}
