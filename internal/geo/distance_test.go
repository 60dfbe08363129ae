package geo

import (
	"testing"

	"shipcalc/pkg/errorx"
)

func TestDistanceConversion(t *testing.T) {
	tests := []struct {
		name   string
		number string
		unit   Unit
		target Unit
		want   string
	}{
		{"same unit", "1000", UnitM, UnitM, "1000"},
		{"m to km", "1000", UnitM, UnitKm, "1"},
		{"km to m", "1", UnitKm, UnitM, "1000"},
		{"mi to m", "1", UnitMi, UnitM, "1609.34"},
		{"m to mi", "1609.34", UnitM, UnitMi, "1"},
		{"km to mi", "1.60934", UnitKm, UnitMi, "1"},
		{"mi to km", "1", UnitMi, UnitKm, "1.60934"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := FromUnit(tt.number, tt.unit)
			if err != nil {
				t.Fatalf("FromUnit(%q, %q) error: %v", tt.number, tt.unit, err)
			}
			got, err := d.InUnit(tt.target)
			if err != nil {
				t.Fatalf("InUnit(%q) error: %v", tt.target, err)
			}
			if got != tt.want {
				t.Errorf("InUnit(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestDistanceInvalidNumber(t *testing.T) {
	if _, err := FromMeters("abc"); !errorx.IsKind(err, errorx.KindInvalidArgument) {
		t.Errorf("FromMeters(abc) error kind = %v, want KindInvalidArgument", errorx.KindOf(err))
	}
	if _, err := FromUnit("1", Unit("ft")); !errorx.IsKind(err, errorx.KindInvalidArgument) {
		t.Errorf("FromUnit(ft) error kind = %v, want KindInvalidArgument", errorx.KindOf(err))
	}
}

func TestDistanceInvalidTargetUnit(t *testing.T) {
	d, _ := FromMeters("100")
	if _, err := d.ValueInUnit(Unit("yd")); !errorx.IsKind(err, errorx.KindInvalidArgument) {
		t.Errorf("ValueInUnit(yd) error kind = %v, want KindInvalidArgument", errorx.KindOf(err))
	}
}

func TestDistanceCeiling(t *testing.T) {
	d, _ := FromMeters("5100")
	d.SetCeiling(true)

	// 取整发生在换算后
	if got := d.InKm(); got != "6" {
		t.Errorf("InKm() = %q, want 6", got)
	}
	// 同单位不换算也取整（已是整数则无变化）
	if got := d.InM(); got != "5100" {
		t.Errorf("InM() = %q, want 5100", got)
	}

	d.SetCeiling(false)
	if got := d.InKm(); got != "5.1" {
		t.Errorf("InKm() after reset = %q, want 5.1", got)
	}
}

func TestDistanceFormatter(t *testing.T) {
	d, _ := FromKm("5.1")
	d.SetFormatter(func(v float64) string { return "about 5" })

	if got := d.InKm(); got != "about 5" {
		t.Errorf("InKm() with formatter = %q, want %q", got, "about 5")
	}

	// 格式化只影响文本，不影响数值
	v, err := d.ValueInUnit(UnitKm)
	if err != nil || v != 5.1 {
		t.Errorf("ValueInUnit(km) = %v, %v, want 5.1", v, err)
	}
}

func TestDistanceRoundTrip(t *testing.T) {
	d, _ := FromMiles("2.5")
	restored, err := FromArray(d.ToArray())
	if err != nil {
		t.Fatalf("FromArray error: %v", err)
	}
	if restored.Unit() != UnitMi {
		t.Errorf("restored unit = %q, want mi", restored.Unit())
	}
	if got := restored.InMi(); got != "2.5" {
		t.Errorf("restored InMi() = %q, want 2.5", got)
	}
}
