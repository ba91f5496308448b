package vehicles

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"vinpoint/internal/config"
)

// Decoder resolves a VIN to its manufacturer-reported attributes.
type Decoder interface {
	Decode(ctx context.Context, vin string) (*DecodedAttributes, error)
}

type vpicDecoder struct {
	baseURL string
	client  *http.Client
	cache   *lru.Cache[string, DecodedAttributes]
	logger  *slog.Logger
}

// NewDecoder creates a vPIC-backed decoder with an LRU decode cache.
// Decoded attributes for a VIN never change, so cached entries have no TTL.
func NewDecoder(cfg *config.DecoderConfig, logger *slog.Logger) (Decoder, error) {
	cache, err := lru.New[string, DecodedAttributes](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create decode cache: %w", err)
	}

	return &vpicDecoder{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.TimeoutDuration()},
		cache:   cache,
		logger:  logger.With("system", "decoder"),
	}, nil
}

// vpicResponse is the envelope returned by the vPIC DecodeVin endpoint.
type vpicResponse struct {
	Count   int    `json:"Count"`
	Message string `json:"Message"`
	Results []struct {
		Variable string `json:"Variable"`
		Value    string `json:"Value"`
	} `json:"Results"`
}

func (d *vpicDecoder) Decode(ctx context.Context, vin string) (*DecodedAttributes, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if err := ValidateVIN(vin); err != nil {
		return nil, err
	}

	if cached, ok := d.cache.Get(vin); ok {
		return &cached, nil
	}

	url := fmt.Sprintf("%s/vehicles/DecodeVin/%s?format=json", d.baseURL, vin)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build decode request: %w", err)
	}
	req.Header.Set("User-Agent", "vinpoint/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrDecodeUnavailable, resp.StatusCode)
	}

	var payload vpicResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeUnavailable, err)
	}

	attrs, err := extractAttributes(payload)
	if err != nil {
		return nil, err
	}

	d.cache.Add(vin, *attrs)
	d.logger.Info("vin decoded", "vin", vin, "year", attrs.Year, "make", attrs.Make, "model", attrs.Model)

	return attrs, nil
}

func extractAttributes(payload vpicResponse) (*DecodedAttributes, error) {
	values := make(map[string]string, len(payload.Results))
	for _, result := range payload.Results {
		if result.Value != "" && result.Value != "Not Applicable" {
			values[result.Variable] = result.Value
		}
	}

	if code, ok := values["Error Code"]; ok && code != "0" {
		return nil, fmt.Errorf("%w: vPIC error code %s", ErrDecodeFailed, code)
	}

	attrs := &DecodedAttributes{
		Make:  values["Make"],
		Model: values["Model"],
	}
	if year, err := strconv.Atoi(values["Model Year"]); err == nil {
		attrs.Year = year
	}
	if attrs.Make == "" || attrs.Model == "" || attrs.Year == 0 {
		return nil, fmt.Errorf("%w: incomplete decode result", ErrDecodeFailed)
	}

	attrs.Trim = optional(values["Trim"])
	attrs.BodyClass = optional(values["Body Class"])
	attrs.FuelType = optional(values["Fuel Type - Primary"])

	return attrs, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ValidateVIN checks structural VIN validity: 17 alphanumeric characters
// excluding I, O, and Q.
func ValidateVIN(vin string) error {
	if len(vin) != 17 {
		return ErrInvalidVIN
	}
	for _, c := range vin {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'Z':
			if c == 'I' || c == 'O' || c == 'Q' {
				return ErrInvalidVIN
			}
		default:
			return ErrInvalidVIN
		}
	}
	return nil
}
