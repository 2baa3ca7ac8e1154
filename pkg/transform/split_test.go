package transform_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfill/pkg/transform"
)

func TestSplitSSN(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  transform.SSN
		warn  bool
	}{
		{name: "dashed", input: "123-45-6789", want: transform.SSN{Area: "123", Group: "45", Serial: "6789"}},
		{name: "spaced", input: "123 45 6789", want: transform.SSN{Area: "123", Group: "45", Serial: "6789"}},
		{name: "short", input: "12345", want: transform.SSN{Area: "123", Group: "45", Serial: ""}, warn: true},
		{name: "very short", input: "12", want: transform.SSN{Area: "12"}, warn: true},
		{name: "long", input: "1234567890", want: transform.SSN{Area: "123", Group: "45", Serial: "6789"}, warn: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, w := transform.SplitSSN(tc.input)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("ssn mismatch (-want +got):\n%s", diff)
			}
			if (w != nil) != tc.warn {
				t.Fatalf("warning = %v, want warning %v", w, tc.warn)
			}
			if w != nil && w.Code != transform.CodeSSNLength {
				t.Fatalf("unexpected warning code %q", w.Code)
			}
		})
	}
}

func TestSplitPhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  transform.Phone
		warn  bool
	}{
		{name: "formatted", input: "(555) 123-4567", want: transform.Phone{Area: "555", Exchange: "123", Line: "4567"}},
		{name: "short padded", input: "555-123", want: transform.Phone{Area: "555", Exchange: "123", Line: "0000"}, warn: true},
		{name: "long truncated", input: "+1 555 123 4567", want: transform.Phone{Area: "155", Exchange: "512", Line: "3456"}, warn: true},
		{name: "empty", input: "", want: transform.Phone{Area: "000", Exchange: "000", Line: "0000"}, warn: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, w := transform.SplitPhone(tc.input)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("phone mismatch (-want +got):\n%s", diff)
			}
			if (w != nil) != tc.warn {
				t.Fatalf("warning = %v, want warning %v", w, tc.warn)
			}
		})
	}
}

func TestSplitDate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  transform.Date
		warn  bool
	}{
		{name: "two digit year before pivot", input: "3/4/99", want: transform.Date{Month: "03", Day: "04", Year: "1999"}},
		{name: "two digit year after pivot", input: "3/4/05", want: transform.Date{Month: "03", Day: "04", Year: "2005"}},
		{name: "pivot itself", input: "12/31/50", want: transform.Date{Month: "12", Day: "31", Year: "2050"}},
		{name: "dashes", input: "01-15-1980", want: transform.Date{Month: "01", Day: "15", Year: "1980"}},
		{name: "iso", input: "1975-06-09", want: transform.Date{Month: "06", Day: "09", Year: "1975"}},
		{name: "no separator", input: "19750609", want: transform.SentinelDate, warn: true},
		{name: "two parts", input: "06/1975", want: transform.SentinelDate, warn: true},
		{name: "letters", input: "June/9/1975", want: transform.SentinelDate, warn: true},
		{name: "month out of range", input: "13/01/1990", want: transform.SentinelDate, warn: true},
		{name: "three digit year", input: "1/1/199", want: transform.SentinelDate, warn: true},
		{name: "empty", input: "", want: transform.SentinelDate, warn: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, w := transform.SplitDate(tc.input)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("date mismatch (-want +got):\n%s", diff)
			}
			if (w != nil) != tc.warn {
				t.Fatalf("warning = %v, want warning %v", w, tc.warn)
			}
		})
	}
}

func TestSplitZIP(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  transform.ZIP
		warn  bool
	}{
		{name: "five", input: "62701", want: transform.ZIP{Zip5: "62701"}},
		{name: "nine dashed", input: "62701-1234", want: transform.ZIP{Zip5: "62701", Zip4: "1234"}},
		{name: "partial extension", input: "6270112", want: transform.ZIP{Zip5: "62701", Zip4: "12"}},
		{name: "short", input: "627", want: transform.ZIP{Zip5: "62700"}, warn: true},
		{name: "too long", input: "62701123456", want: transform.ZIP{Zip5: "62701", Zip4: "1234"}, warn: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, w := transform.SplitZIP(tc.input)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("zip mismatch (-want +got):\n%s", diff)
			}
			if (w != nil) != tc.warn {
				t.Fatalf("warning = %v, want warning %v", w, tc.warn)
			}
		})
	}
}

func TestSplitOverflow(t *testing.T) {
	short := transform.SplitOverflow("short@x.com", 20)
	if diff := cmp.Diff(transform.Overflow{Remainder: "", Chunk: "short@x.com"}, short); diff != "" {
		t.Fatalf("short mismatch (-want +got):\n%s", diff)
	}

	long := transform.SplitOverflow(strings.Repeat("a", 25), 20)
	want := transform.Overflow{Remainder: strings.Repeat("a", 5), Chunk: strings.Repeat("a", 20)}
	if diff := cmp.Diff(want, long); diff != "" {
		t.Fatalf("long mismatch (-want +got):\n%s", diff)
	}

	exact := transform.SplitOverflow(strings.Repeat("b", 20), 20)
	if exact.Remainder != "" || len(exact.Chunk) != 20 {
		t.Fatalf("exact length should fit in chunk: %+v", exact)
	}

	multibyte := transform.SplitOverflow("ééé", 2)
	if multibyte.Chunk != "éé" || multibyte.Remainder != "é" {
		t.Fatalf("expected character based split, got %+v", multibyte)
	}
}

func TestJoinRoundTrips(t *testing.T) {
	ssn, _ := transform.SplitSSN("123-45-6789")
	if got := transform.JoinSSN(ssn); got != "123-45-6789" {
		t.Fatalf("JoinSSN = %q", got)
	}
	phone, _ := transform.SplitPhone("5551234567")
	if got := transform.JoinPhone(phone); got != "555-123-4567" {
		t.Fatalf("JoinPhone = %q", got)
	}
	date, _ := transform.SplitDate("3/4/99")
	if got := transform.JoinDate(date); got != "03/04/1999" {
		t.Fatalf("JoinDate = %q", got)
	}
	if got := transform.JoinDate(transform.Date{Month: "01"}); got != "" {
		t.Fatalf("JoinDate with missing parts = %q", got)
	}
	zip, _ := transform.SplitZIP("62701")
	if got := transform.JoinZIP(zip); got != "62701" {
		t.Fatalf("JoinZIP = %q", got)
	}
	email := "john.doe.veteran@example-mail.com"
	if got := transform.JoinOverflow(transform.SplitOverflow(email, 20)); got != email {
		t.Fatalf("JoinOverflow = %q", got)
	}
	if got := transform.JoinSSN(transform.SSN{}); got != "" {
		t.Fatalf("JoinSSN of empty parts = %q", got)
	}
}

func TestWarningString(t *testing.T) {
	_, w := transform.SplitSSN("12")
	w.Field = "veteran_info.ssn"
	if !strings.HasPrefix(w.String(), "veteran_info.ssn: SSN should be 9 digits") {
		t.Fatalf("unexpected warning text %q", w.String())
	}
}
