package provider

import (
	"testing"

	"shipcalc/internal/geo"
)

func TestCalcResultSuccess(t *testing.T) {
	d, _ := geo.FromMeters("1000")
	res := Success(d, nil)

	if res.IsError() {
		t.Fatal("IsError() = true for success")
	}
	if res.Distance() != d {
		t.Error("Distance() should return wrapped value")
	}

	defer func() {
		if recover() == nil {
			t.Error("ErrorMessage() on success should panic")
		}
	}()
	_ = res.ErrorMessage()
}

func TestCalcResultFailure(t *testing.T) {
	res := Failure("boom", nil)

	if !res.IsError() {
		t.Fatal("IsError() = false for failure")
	}
	if res.ErrorMessage() != "boom" {
		t.Errorf("ErrorMessage() = %q", res.ErrorMessage())
	}

	defer func() {
		if recover() == nil {
			t.Error("Distance() on failure should panic")
		}
	}()
	_ = res.Distance()
}

func TestCalcResultSuccessNilDistancePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Success(nil) should panic")
		}
	}()
	_ = Success(nil, nil)
}
