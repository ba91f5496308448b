package vehicles

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"vinpoint/internal/config"
)

func TestValidateVIN(t *testing.T) {
	tests := []struct {
		name    string
		vin     string
		wantErr bool
	}{
		{name: "valid", vin: "1HGCM82633A004352", wantErr: false},
		{name: "too short", vin: "1HGCM82633A00435", wantErr: true},
		{name: "too long", vin: "1HGCM82633A0043521", wantErr: true},
		{name: "contains I", vin: "1HGCM82633A00435I", wantErr: true},
		{name: "contains O", vin: "1HGCM82633A00435O", wantErr: true},
		{name: "contains Q", vin: "1HGCM82633A00435Q", wantErr: true},
		{name: "contains symbol", vin: "1HGCM82633A00435-", wantErr: true},
		{name: "empty", vin: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVIN(tt.vin)
			if tt.wantErr && !errors.Is(err, ErrInvalidVIN) {
				t.Errorf("ValidateVIN(%q) = %v, want ErrInvalidVIN", tt.vin, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateVIN(%q) = %v, want nil", tt.vin, err)
			}
		})
	}
}

func TestExtractAttributes(t *testing.T) {
	payload := vpicResponse{
		Count: 4,
		Results: []struct {
			Variable string `json:"Variable"`
			Value    string `json:"Value"`
		}{
			{Variable: "Error Code", Value: "0"},
			{Variable: "Make", Value: "HONDA"},
			{Variable: "Model", Value: "Accord"},
			{Variable: "Model Year", Value: "2020"},
			{Variable: "Trim", Value: "EX-L"},
			{Variable: "Body Class", Value: "Sedan/Saloon"},
			{Variable: "Fuel Type - Primary", Value: "Gasoline"},
		},
	}

	attrs, err := extractAttributes(payload)
	if err != nil {
		t.Fatalf("extractAttributes failed: %v", err)
	}

	if attrs.Make != "HONDA" || attrs.Model != "Accord" || attrs.Year != 2020 {
		t.Errorf("decoded %s %s %d, want HONDA Accord 2020", attrs.Make, attrs.Model, attrs.Year)
	}
	if attrs.Trim == nil || *attrs.Trim != "EX-L" {
		t.Errorf("Trim = %v, want EX-L", attrs.Trim)
	}
	if attrs.BodyClass == nil || *attrs.BodyClass != "Sedan/Saloon" {
		t.Errorf("BodyClass = %v, want Sedan/Saloon", attrs.BodyClass)
	}
	if attrs.FuelType == nil || *attrs.FuelType != "Gasoline" {
		t.Errorf("FuelType = %v, want Gasoline", attrs.FuelType)
	}
}

func TestExtractAttributesNotApplicable(t *testing.T) {
	payload := vpicResponse{
		Results: []struct {
			Variable string `json:"Variable"`
			Value    string `json:"Value"`
		}{
			{Variable: "Error Code", Value: "0"},
			{Variable: "Make", Value: "HONDA"},
			{Variable: "Model", Value: "Accord"},
			{Variable: "Model Year", Value: "2020"},
			{Variable: "Trim", Value: "Not Applicable"},
		},
	}

	attrs, err := extractAttributes(payload)
	if err != nil {
		t.Fatalf("extractAttributes failed: %v", err)
	}
	if attrs.Trim != nil {
		t.Errorf("Trim = %q, want nil for Not Applicable", *attrs.Trim)
	}
}

func TestExtractAttributesErrors(t *testing.T) {
	tests := []struct {
		name    string
		results []struct {
			Variable string `json:"Variable"`
			Value    string `json:"Value"`
		}
	}{
		{
			name: "vpic error code",
			results: []struct {
				Variable string `json:"Variable"`
				Value    string `json:"Value"`
			}{
				{Variable: "Error Code", Value: "7"},
				{Variable: "Make", Value: "HONDA"},
				{Variable: "Model", Value: "Accord"},
				{Variable: "Model Year", Value: "2020"},
			},
		},
		{
			name: "missing make",
			results: []struct {
				Variable string `json:"Variable"`
				Value    string `json:"Value"`
			}{
				{Variable: "Error Code", Value: "0"},
				{Variable: "Model", Value: "Accord"},
				{Variable: "Model Year", Value: "2020"},
			},
		},
		{
			name: "unparseable year",
			results: []struct {
				Variable string `json:"Variable"`
				Value    string `json:"Value"`
			}{
				{Variable: "Error Code", Value: "0"},
				{Variable: "Make", Value: "HONDA"},
				{Variable: "Model", Value: "Accord"},
				{Variable: "Model Year", Value: "unknown"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractAttributes(vpicResponse{Results: tt.results})
			if !errors.Is(err, ErrDecodeFailed) {
				t.Errorf("extractAttributes = %v, want ErrDecodeFailed", err)
			}
		})
	}
}

func testDecoder(t *testing.T, baseURL string) Decoder {
	t.Helper()

	cfg := config.DecoderConfig{BaseURL: baseURL, Timeout: "5s", CacheSize: 8}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	d, err := NewDecoder(&cfg, logger)
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	return d
}

func TestDecoderDecode(t *testing.T) {
	var requests atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		if r.URL.Path != "/vehicles/DecodeVin/1HGCM82633A004352" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("format = %q, want json", r.URL.Query().Get("format"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Count": 4,
			"Results": [
				{"Variable": "Error Code", "Value": "0"},
				{"Variable": "Make", "Value": "HONDA"},
				{"Variable": "Model", "Value": "Accord"},
				{"Variable": "Model Year", "Value": "2003"}
			]
		}`))
	}))
	defer srv.Close()

	d := testDecoder(t, srv.URL)

	attrs, err := d.Decode(context.Background(), "1hgcm82633a004352")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if attrs.Make != "HONDA" || attrs.Model != "Accord" || attrs.Year != 2003 {
		t.Errorf("decoded %s %s %d, want HONDA Accord 2003", attrs.Make, attrs.Model, attrs.Year)
	}

	// second decode of the same VIN must come from the cache
	if _, err := d.Decode(context.Background(), "1HGCM82633A004352"); err != nil {
		t.Fatalf("cached Decode failed: %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("upstream requests = %d, want 1", got)
	}
}

func TestDecoderDecodeInvalidVIN(t *testing.T) {
	d := testDecoder(t, "http://localhost:0")

	if _, err := d.Decode(context.Background(), "short"); !errors.Is(err, ErrInvalidVIN) {
		t.Errorf("Decode = %v, want ErrInvalidVIN", err)
	}
}

func TestDecoderDecodeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := testDecoder(t, srv.URL)

	if _, err := d.Decode(context.Background(), "1HGCM82633A004352"); !errors.Is(err, ErrDecodeUnavailable) {
		t.Errorf("Decode = %v, want ErrDecodeUnavailable", err)
	}
}
