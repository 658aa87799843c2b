package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", "2024-02-29"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", "2023-02-29", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"pause", "resume", "finish"}
	if !IsInSlice("resume", slice) {
		t.Errorf("IsInSlice(resume) = false, want true")
	}
	if IsInSlice("Resume", slice) {
		t.Errorf("IsInSlice(Resume) = true, want false")
	}
	if IsInSlice("", nil) {
		t.Errorf("IsInSlice on nil slice = true, want false")
	}
}

func TestParseDate_Before(t *testing.T) {
	a, err := ParseDate("2025-03-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	b, err := ParseDate("2025-03-02")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Errorf("Before ordering is wrong for %v and %v", a, b)
	}
	if _, err := ParseDate("2025-3-1"); err == nil {
		t.Errorf("ParseDate(2025-3-1) expected error")
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{"2024-01-15T10:30:00Z", "2024-01-15T10:30:00+07:00", "2024-01-15T10:30:00.123456Z"}
	invalid := []string{"2024-01-15 10:30:00", "2024-01-15", "10:30", ""}
	for _, s := range valid {
		if _, ok := IsValidDateTime(s); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDateTime(s); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", s)
		}
	}
}

func TestParseOptionalDateTime(t *testing.T) {
	got, ok := ParseOptionalDateTime("")
	if !ok || got != nil {
		t.Errorf("ParseOptionalDateTime(\"\") = %v, %v, want nil, true", got, ok)
	}

	got, ok = ParseOptionalDateTime("2024-01-15T10:30:00+07:00")
	if !ok || got == nil {
		t.Fatalf("ParseOptionalDateTime returned %v, %v", got, ok)
	}
	want := time.Date(2024, 1, 15, 3, 30, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("ParseOptionalDateTime = %v, want %v in UTC", got, want)
	}

	if _, ok := ParseOptionalDateTime("noon"); ok {
		t.Errorf("ParseOptionalDateTime(noon) ok = true, want false")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "bad date"},
		{Field: "action", Message: "bad action"},
	}
	if errs.Error() != "date: bad date; action: bad action" {
		t.Errorf("Error() = %q", errs.Error())
	}
	m := errs.ToMap()
	if len(m) != 2 || m["action"] != "bad action" {
		t.Errorf("ToMap() = %v", m)
	}
}
