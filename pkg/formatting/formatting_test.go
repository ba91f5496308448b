package formatting_test

import (
	"errors"
	"testing"

	"vinpoint/pkg/formatting"
)

type payload struct {
	Price float64 `json:"price"`
	VIN   string  `json:"vin"`
}

func TestParseDirect(t *testing.T) {
	result, err := formatting.Parse[payload](`{"price": 24500, "vin": "1HGCM82633A004352"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Price != 24500 {
		t.Errorf("price = %v, want 24500", result.Price)
	}
	if result.VIN != "1HGCM82633A004352" {
		t.Errorf("vin = %q", result.VIN)
	}
}

func TestParseFenced(t *testing.T) {
	content := "Here are the results:\n```json\n[{\"price\": 18900, \"vin\": \"\"}]\n```\n"

	result, err := formatting.Parse[[]payload](content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 || result[0].Price != 18900 {
		t.Errorf("result = %+v", result)
	}
}

func TestParseFencedNoLanguage(t *testing.T) {
	content := "```\n{\"price\": 1}\n```"

	result, err := formatting.Parse[payload](content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Price != 1 {
		t.Errorf("price = %v, want 1", result.Price)
	}
}

func TestParseFailure(t *testing.T) {
	_, err := formatting.Parse[payload]("the model refused to answer")
	if !errors.Is(err, formatting.ErrParseFailed) {
		t.Fatalf("error = %v, want ErrParseFailed", err)
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"512", 512},
		{"1KB", 1024},
		{"50MB", 50 * 1024 * 1024},
		{"1.5 GB", int64(1.5 * 1024 * 1024 * 1024)},
		{"2gb", 2 * 1024 * 1024 * 1024},
	}

	for _, tc := range tests {
		got, err := formatting.ParseBytes(tc.input)
		if err != nil {
			t.Errorf("ParseBytes(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseBytes(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestParseBytesInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "10XB"} {
		if _, err := formatting.ParseBytes(input); err == nil {
			t.Errorf("ParseBytes(%q): expected error", input)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	if got := formatting.FormatBytes(0, 2); got != "0 B" {
		t.Errorf("FormatBytes(0) = %q", got)
	}
	if got := formatting.FormatBytes(50*1024*1024, 0); got != "50 MB" {
		t.Errorf("FormatBytes(50MB) = %q", got)
	}
}
