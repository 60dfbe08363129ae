package geo

import (
	"testing"

	"shipcalc/pkg/errorx"
)

func TestLocationAddress(t *testing.T) {
	loc := FromAddress("  Jl. Medan Merdeka Utara No.3  ")
	if !loc.IsValid() {
		t.Fatal("expected valid location")
	}

	addr, err := loc.Address()
	if err != nil {
		t.Fatalf("Address() error: %v", err)
	}
	if addr != "Jl. Medan Merdeka Utara No.3" {
		t.Errorf("Address() = %q, want trimmed value", addr)
	}

	// 错误变体访问
	if _, err := loc.Latitude(); !errorx.IsKind(err, errorx.KindTypeMismatch) {
		t.Errorf("Latitude() on address variant: kind = %v, want KindTypeMismatch", errorx.KindOf(err))
	}
}

func TestLocationEmptyAddressInvalid(t *testing.T) {
	loc := FromAddress("   ")
	if loc.IsValid() {
		t.Fatal("expected invalid location for blank address")
	}
	if _, err := loc.Address(); !errorx.IsKind(err, errorx.KindInvalidState) {
		t.Errorf("Address() on invalid location: kind = %v, want KindInvalidState", errorx.KindOf(err))
	}
}

func TestLocationComponents(t *testing.T) {
	loc := FromAddressComponents(map[string]string{
		"address_1": "Jl. Thamrin No.1",
		"city":      "Jakarta",
		"country":   "ID",
		"ignored":   "dropped",
	})
	if !loc.IsValid() {
		t.Fatal("expected valid location")
	}

	components, err := loc.AddressComponents()
	if err != nil {
		t.Fatalf("AddressComponents() error: %v", err)
	}
	if _, ok := components["ignored"]; ok {
		t.Error("non-whitelisted field should be dropped")
	}

	formatted, err := loc.FormattedAddress()
	if err != nil {
		t.Fatalf("FormattedAddress() error: %v", err)
	}
	if formatted != "Jl. Thamrin No.1, Jakarta, ID" {
		t.Errorf("FormattedAddress() = %q", formatted)
	}
}

func TestLocationComponentsLegacyAddress(t *testing.T) {
	loc := FromAddressComponents(map[string]string{"address": "Jl. Sudirman No.5"})
	components, err := loc.AddressComponents()
	if err != nil {
		t.Fatalf("AddressComponents() error: %v", err)
	}
	if components["address_1"] != "Jl. Sudirman No.5" {
		t.Errorf("legacy address fallback: address_1 = %q", components["address_1"])
	}
}

func TestLocationCoordinates(t *testing.T) {
	loc := FromCoordinates(-6.1753924, 106.8271528)
	if !loc.IsValid() {
		t.Fatal("expected valid location")
	}

	lat, err := loc.Latitude()
	if err != nil || lat != -6.1753924 {
		t.Errorf("Latitude() = %v, %v", lat, err)
	}
	lng, err := loc.Longitude()
	if err != nil || lng != 106.8271528 {
		t.Errorf("Longitude() = %v, %v", lng, err)
	}

	// 坐标变体没有地址形态
	if _, err := loc.FormattedAddress(); !errorx.IsKind(err, errorx.KindTypeMismatch) {
		t.Errorf("FormattedAddress() on coordinates: kind = %v, want KindTypeMismatch", errorx.KindOf(err))
	}
}

func TestLocationCoordinatesOutOfRange(t *testing.T) {
	loc := FromCoordinates(91, 0)
	if loc.IsValid() {
		t.Fatal("expected invalid location for lat > 90")
	}
	if _, err := loc.Latitude(); !errorx.IsKind(err, errorx.KindInvalidState) {
		t.Errorf("Latitude() on invalid location: kind = %v, want KindInvalidState", errorx.KindOf(err))
	}
}
