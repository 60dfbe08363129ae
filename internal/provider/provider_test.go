package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shipcalc/internal/geo"
)

var (
	testOrigin      = geo.FromCoordinates(-6.1753924, 106.8271528)
	testDestination = geo.FromCoordinates(-6.2, 106.8166666)
)

func TestBuildRequest(t *testing.T) {
	fields := []SettingsField{
		{Key: "api_key", Secret: true, ParamKey: "key"},
		{Key: "mode", Default: "driving", ParamKey: "mode", Sanitize: strings.ToLower},
		{Key: "token", HeaderKey: "X-Token"},
		{Key: "unset"},
	}
	settings := Settings{"api_key": "abc", "mode": "WALKING", "token": "t1"}

	params, headers := buildRequest(fields, settings)
	if got := params.Get("key"); got != "abc" {
		t.Errorf("params key = %v", got)
	}
	if got := params.Get("mode"); got != "walking" {
		t.Errorf("params mode = %v, want sanitized", got)
	}
	if got := headers.Get("X-Token"); got != "t1" {
		t.Errorf("headers X-Token = %q", got)
	}
	if params.Has("unset") {
		t.Error("unmapped field should not appear in params")
	}
}

func TestBuildRequestDefaults(t *testing.T) {
	fields := []SettingsField{
		{Key: "mode", Default: "driving", ParamKey: "mode"},
	}
	params, _ := buildRequest(fields, Settings{})
	if got := params.Get("mode"); got != "driving" {
		t.Errorf("params mode = %v, want default", got)
	}
}

func TestValidateRequired(t *testing.T) {
	fields := []SettingsField{
		{Key: "api_key", Title: "API Key", Required: true},
		{Key: "mode", Title: "Mode"},
	}

	errs := validateRequired(fields, Settings{})
	if len(errs) != 1 || errs[0].Field != "api_key" {
		t.Fatalf("validateRequired = %v, want single api_key error", errs)
	}

	if errs := validateRequired(fields, Settings{"api_key": "x"}); errs != nil {
		t.Errorf("validateRequired with key set = %v, want nil", errs)
	}
}

func TestGoogleRoutesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("X-Goog-Api-Key"); got != "g-key-1" {
			t.Errorf("X-Goog-Api-Key = %q", got)
		}
		if got := r.Header.Get("X-Goog-FieldMask"); got == "" {
			t.Error("X-Goog-FieldMask missing")
		}

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["travelMode"] != "DRIVE" {
			t.Errorf("travelMode = %v", body["travelMode"])
		}
		if _, ok := body["origin"].(map[string]interface{}); !ok {
			t.Error("origin waypoint missing")
		}

		w.Write([]byte(`{"routes":[{"distanceMeters":12345,"duration":"600s"}]}`))
	}))
	defer srv.Close()

	p := &GoogleRoutes{endpoint: srv.URL}
	res := p.CalculateDistance(context.Background(), testDestination, testOrigin, Settings{"api_key": "g-key-1"})
	if res.IsError() {
		t.Fatalf("unexpected failure: %s", res.ErrorMessage())
	}
	if got := res.Distance().InM(); got != "12345" {
		t.Errorf("distance = %q m, want 12345", got)
	}
}

func TestGoogleRoutesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}))
	defer srv.Close()

	p := &GoogleRoutes{endpoint: srv.URL}
	res := p.CalculateDistance(context.Background(), testDestination, testOrigin, Settings{"api_key": "bad"})
	if !res.IsError() {
		t.Fatal("expected failure")
	}
	if res.ErrorMessage() != "API key not valid" {
		t.Errorf("error message = %q", res.ErrorMessage())
	}
}

func TestGoogleRoutesSecretNotInDebugMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"denied"}}`))
	}))
	defer srv.Close()

	const secret = "g-secret-xyz"
	p := &GoogleRoutes{endpoint: srv.URL}
	res := p.CalculateDistance(context.Background(), testDestination, testOrigin, Settings{"api_key": secret})
	if !res.IsError() {
		t.Fatal("expected failure")
	}

	serialized, err := json.Marshal(res.Dispatcher().ToDebugMap())
	if err != nil {
		t.Fatalf("marshal debug map: %v", err)
	}
	if strings.Contains(string(serialized), secret) {
		t.Errorf("debug map leaks api key: %s", serialized)
	}
}

func TestMapboxMatrixSuccess(t *testing.T) {
	var matrixPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		matrixPath = r.URL.Path
		if got := r.URL.Query().Get("access_token"); got != "mb-token" {
			t.Errorf("access_token = %q", got)
		}
		if got := r.URL.Query().Get("annotations"); got != "distance" {
			t.Errorf("annotations = %q", got)
		}
		w.Write([]byte(`{"distances":[[8046.7]],"code":"Ok"}`))
	}))
	defer srv.Close()

	p := &MapboxMatrix{baseURL: srv.URL}
	res := p.CalculateDistance(context.Background(), testDestination, testOrigin, Settings{"access_token": "mb-token", "profile": "CYCLING"})
	if res.IsError() {
		t.Fatalf("unexpected failure: %s", res.ErrorMessage())
	}
	if !strings.Contains(matrixPath, "/directions-matrix/v1/mapbox/cycling/") {
		t.Errorf("matrix path = %q, want lowercased profile segment", matrixPath)
	}
	if got := res.Distance().InM(); got != "8046.7" {
		t.Errorf("distance = %q m", got)
	}
}

func TestMapboxMatrixGeocodesAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/geocoding/v5/mapbox.places/") {
			w.Write([]byte(`{"features":[{"center":[106.8271528,-6.1753924]}]}`))
			return
		}
		w.Write([]byte(`{"distances":[[5000]]}`))
	}))
	defer srv.Close()

	p := &MapboxMatrix{baseURL: srv.URL}
	origin := geo.FromAddress("Jl. Medan Merdeka Utara No.3, Jakarta")
	res := p.CalculateDistance(context.Background(), testDestination, origin, Settings{"access_token": "mb-token"})
	if res.IsError() {
		t.Fatalf("unexpected failure: %s", res.ErrorMessage())
	}
	if got := res.Distance().InM(); got != "5000" {
		t.Errorf("distance = %q m", got)
	}
}

func TestMapboxMatrixGeocodeFailureFallsThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/geocoding/v5/mapbox.places/") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		t.Errorf("matrix should not be reached with unresolved address: %s", r.URL.Path)
	}))
	defer srv.Close()

	p := &MapboxMatrix{baseURL: srv.URL}
	origin := geo.FromAddress("unresolvable place")
	res := p.CalculateDistance(context.Background(), testDestination, origin, Settings{"access_token": "mb-token"})
	if !res.IsError() {
		t.Fatal("expected failure when geocoding silently falls back to an address location")
	}
	if !strings.Contains(res.ErrorMessage(), "mapbox requires coordinates") {
		t.Errorf("error message = %q", res.ErrorMessage())
	}
}

func TestDistanceMatrixAISuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "dm-key" {
			t.Errorf("key = %q", got)
		}
		if got := r.URL.Query().Get("origins"); got == "" {
			t.Error("origins missing")
		}
		w.Write([]byte(`{"status":"OK","rows":[{"elements":[{"status":"OK","distance":{"value":7500,"text":"7.5 km"}}]}]}`))
	}))
	defer srv.Close()

	p := &DistanceMatrixAI{endpoint: srv.URL}
	res := p.CalculateDistance(context.Background(), testDestination, testOrigin, Settings{"api_key": "dm-key"})
	if res.IsError() {
		t.Fatalf("unexpected failure: %s", res.ErrorMessage())
	}
	if got := res.Distance().InKm(); got != "7.5" {
		t.Errorf("distance = %q km", got)
	}
}

func TestDistanceMatrixAIStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid"}`))
	}))
	defer srv.Close()

	p := &DistanceMatrixAI{endpoint: srv.URL}
	res := p.CalculateDistance(context.Background(), testDestination, testOrigin, Settings{"api_key": "bad"})
	if !res.IsError() {
		t.Fatal("expected failure for non-OK status")
	}
	if res.ErrorMessage() != "The provided API key is invalid" {
		t.Errorf("error message = %q", res.ErrorMessage())
	}
}

func TestDistanceMatrixAIElementStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","rows":[{"elements":[{"status":"ZERO_RESULTS"}]}]}`))
	}))
	defer srv.Close()

	p := &DistanceMatrixAI{endpoint: srv.URL}
	res := p.CalculateDistance(context.Background(), testDestination, testOrigin, Settings{"api_key": "dm-key"})
	if !res.IsError() {
		t.Fatal("expected failure for element status")
	}
	if !strings.Contains(res.ErrorMessage(), "ZERO_RESULTS") {
		t.Errorf("error message = %q", res.ErrorMessage())
	}
}

func TestGeoapifyRoutingSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/routing" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("apiKey"); got != "ga-key" {
			t.Errorf("apiKey = %q", got)
		}
		if got := r.URL.Query().Get("waypoints"); !strings.Contains(got, "|") {
			t.Errorf("waypoints = %q, want pipe-separated pair", got)
		}
		w.Write([]byte(`{"features":[{"properties":{"distance":9200,"time":780}}]}`))
	}))
	defer srv.Close()

	p := &GeoapifyRouting{baseURL: srv.URL}
	res := p.CalculateDistance(context.Background(), testDestination, testOrigin, Settings{"api_key": "ga-key"})
	if res.IsError() {
		t.Fatalf("unexpected failure: %s", res.ErrorMessage())
	}
	if got := res.Distance().InM(); got != "9200" {
		t.Errorf("distance = %q m", got)
	}
}

func TestGeoapifyRoutingGeocodesAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/geocode/search" {
			if got := r.URL.Query().Get("text"); got == "" {
				t.Error("geocode text missing")
			}
			w.Write([]byte(`{"features":[{"properties":{"lat":-6.1753924,"lon":106.8271528}}]}`))
			return
		}
		w.Write([]byte(`{"features":[{"properties":{"distance":4100}}]}`))
	}))
	defer srv.Close()

	p := &GeoapifyRouting{baseURL: srv.URL}
	origin := geo.FromAddressComponents(map[string]string{"address_1": "Jl. Thamrin", "city": "Jakarta"})
	res := p.CalculateDistance(context.Background(), testDestination, origin, Settings{"api_key": "ga-key"})
	if res.IsError() {
		t.Fatalf("unexpected failure: %s", res.ErrorMessage())
	}
	if got := res.Distance().InM(); got != "4100" {
		t.Errorf("distance = %q m", got)
	}
}

func TestValidateSettingsMissingKey(t *testing.T) {
	p := NewGoogleRoutes()
	errs := p.ValidateSettings(context.Background(), Settings{})
	if len(errs) != 1 || errs[0].Field != "api_key" {
		t.Fatalf("ValidateSettings = %v, want required api_key error", errs)
	}
}

func TestValidateSettingsTestCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes":[{"distanceMeters":3000}]}`))
	}))
	defer srv.Close()

	p := &GoogleRoutes{endpoint: srv.URL}
	if errs := p.ValidateSettings(context.Background(), Settings{"api_key": "ok"}); errs != nil {
		t.Errorf("ValidateSettings = %v, want nil", errs)
	}
}

func TestValidateSettingsTestCallFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"unauthorized"}}`))
	}))
	defer srv.Close()

	p := &GoogleRoutes{endpoint: srv.URL}
	errs := p.ValidateSettings(context.Background(), Settings{"api_key": "bad"})
	if len(errs) != 1 || errs[0].Field != "api_key" {
		t.Fatalf("ValidateSettings = %v, want api_key field error", errs)
	}
	if errs[0].Message != "unauthorized" {
		t.Errorf("error message = %q", errs[0].Message)
	}
}

func TestRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	want := []string{"google_routes", "mapbox_matrix", "distancematrix_ai", "geoapify_routing"}
	got := r.Slugs()
	if len(got) != len(want) {
		t.Fatalf("Slugs() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Slugs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, ok := r.Get("google_routes"); !ok {
		t.Error("Get(google_routes) not found")
	}
	if _, ok := r.Get("nope"); ok {
		t.Error("Get(nope) should miss")
	}
}
