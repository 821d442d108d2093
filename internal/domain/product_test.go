package domain

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{"10", 1000, false},
		{"10.5", 1050, false},
		{"10.50", 1050, false},
		{"0.07", 7, false},
		{"-3.25", -325, false},
		{".50", 50, false},
		{"10.005", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"1.-5", 0, true},
		{"--5", 0, true},
		{"+5.00", 0, true},
		{"1.+5", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMoney(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMoney(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseMoney(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoney_String(t *testing.T) {
	cases := []struct {
		in   Money
		want string
	}{
		{0, "0.00"},
		{7, "0.07"},
		{1000, "10.00"},
		{3000, "30.00"},
		{-325, "-3.25"},
	}

	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("Money(%d).String() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Money(1050))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"10.50"` {
		t.Fatalf("expected \"10.50\", got %s", data)
	}

	var fromString Money
	if err := json.Unmarshal([]byte(`"10.50"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if fromString != 1050 {
		t.Errorf("expected 1050, got %d", fromString)
	}

	// Сервис может отдавать cost числом — принимаем оба варианта.
	var fromNumber Money
	if err := json.Unmarshal([]byte(`10.5`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if fromNumber != 1050 {
		t.Errorf("expected 1050, got %d", fromNumber)
	}
}

func TestFindProduct(t *testing.T) {
	catalog := []Product{
		{ID: 1, Name: "Widget", Cost: 1000},
		{ID: 2, Name: "Gadget", Cost: 2550},
	}

	p, ok := FindProduct(catalog, 2)
	if !ok {
		t.Fatal("expected product 2 to be found")
	}
	if p.Name != "Gadget" {
		t.Errorf("expected Gadget, got %s", p.Name)
	}

	if _, ok := FindProduct(catalog, 99); ok {
		t.Error("expected product 99 to be missing")
	}

	if _, ok := FindProduct(nil, 1); ok {
		t.Error("expected empty catalog to yield nothing")
	}
}
