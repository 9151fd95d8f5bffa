package region

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Washington", "washington"},
		{"Washington, D.C.", "washington_dc"},
		{"Korea, South", "korea_south"},
		{"Cote d'Ivoire", "cote_divoire"},
		{"Guinea-Bissau", "guinea_bissau"},
		{"Bahamas, The", "bahamas_the"},
		{"Congo (Kinshasa)", "congo_kinshasa"},
		{"", ""},
	}
	for _, tt := range tests {
		got := Normalize(tt.input)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if again := Normalize(got); again != got {
			t.Errorf("Normalize not idempotent on %q: %q", got, again)
		}
	}
}

func TestKey(t *testing.T) {
	if got := Key(State, "Washington", "US"); got != "washington_us" {
		t.Errorf("state key = %q", got)
	}
	if got := Key(Country, "US", ""); got != "us" {
		t.Errorf("country key = %q", got)
	}
	if Key(State, "Punjab", "India") == Key(State, "Punjab", "Pakistan") {
		t.Error("same-named states in different countries must not share a key")
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"state": State, "States": State, "country": Country, "COUNTRIES": Country} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseKind("city"); err == nil {
		t.Error("ParseKind(city) should fail")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"3/2/20 23:15", "03/02/2020"},
		{"1/22/2020 17:00", "01/22/2020"},
		{"2/1/2020 19:43", "02/01/2020"},
		{"12/31/20", "12/31/2020"},
		{"2020-03-02T23:15:00", "03/02/2020"},
		{"2020-03-22 23:45:00", "03/22/2020"},
		{"2020-04-01", "04/01/2020"},
		{"  2020-02-29T01:00:00  ", "02/29/2020"},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.input)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tt.input, err)
			continue
		}
		if s := FormatDate(got); s != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.input, s, tt.want)
		}
		if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
			t.Errorf("ParseDate(%q) kept a time of day: %v", tt.input, got)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2020/03/02", "2/30/2020", "2019-02-29T00:00:00", "13/1/20", "03-02-2020"} {
		_, err := ParseDate(in)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("ParseDate(%q) err = %v, want *ParseError", in, err)
		}
	}
}

func TestParseStats(t *testing.T) {
	d := day(2020, 2, 1)
	s, err := ParseStats(d, "5", "1", "")
	if err != nil {
		t.Fatal(err)
	}
	if s.Confirmed != 5 || s.Deaths != 1 || s.Recovered != 0 {
		t.Errorf("got %+v", s)
	}

	for _, bad := range [][3]string{{"x", "0", "0"}, {"1", "-1", "0"}, {"1", "0", "2.5"}} {
		_, err := ParseStats(d, bad[0], bad[1], bad[2])
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("ParseStats(%v) err = %v, want *ParseError", bad, err)
		}
	}
}

func TestInfected(t *testing.T) {
	s := NewStats(day(2020, 2, 1), 5, 1, 1)
	if s.Infected() != 3 {
		t.Errorf("Infected = %d, want 3", s.Infected())
	}
	if n := NewStats(day(2020, 2, 1), 1, 1, 1).Infected(); n != -1 {
		t.Errorf("Infected = %d, want -1", n)
	}
}

func TestMerge(t *testing.T) {
	d := day(2020, 3, 1)
	a := NewStats(d, 10, 1, 2)
	b := NewStats(d, 3, 0, 1)
	c := NewStats(d, 7, 2, 0)

	ab, err := Merge(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if ab != NewStats(d, 13, 1, 3) {
		t.Errorf("Merge = %+v", ab)
	}

	ba, _ := Merge(b, a)
	if ab != ba {
		t.Errorf("not commutative: %+v vs %+v", ab, ba)
	}

	left, _ := Merge(ab, c)
	bc, _ := Merge(b, c)
	right, _ := Merge(a, bc)
	if left != right {
		t.Errorf("not associative: %+v vs %+v", left, right)
	}

	var zero Stats
	if got, _ := Merge(zero, a); got != a {
		t.Errorf("zero is not an identity: %+v", got)
	}
	if got, _ := Merge(a, zero); got != a {
		t.Errorf("zero is not an identity: %+v", got)
	}
}

func TestMerge_DateMismatch(t *testing.T) {
	_, err := Merge(NewStats(day(2020, 3, 1), 1, 0, 0), NewStats(day(2020, 3, 2), 1, 0, 0))
	var me *MergeError
	if !errors.As(err, &me) {
		t.Fatalf("err = %v, want *MergeError", err)
	}
}
