package models

import "testing"

func TestFullName(t *testing.T) {
	cases := map[string]PersonalDetails{
		"Dana Levi": {FirstName: "Dana", LastName: "Levi"},
		"Dana":      {FirstName: " Dana "},
		"Levi":      {FirstName: "  ", LastName: "Levi"},
		"":          {},
	}
	for want, d := range cases {
		if got := d.FullName(); got != want {
			t.Errorf("FullName(%+v) = %q, want %q", d, got, want)
		}
	}
}
