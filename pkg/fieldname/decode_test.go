package fieldname_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfill/pkg/fieldname"
)

func TestDecodeName(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want fieldname.Result
	}{
		{
			name: "hex utf16",
			raw:  "<FEFF0046005B0030005D>",
			want: fieldname.Result{Name: "F[0]", Encoding: fieldname.EncodingHexUTF16},
		},
		{
			name: "hex lowercase prefix and digits",
			raw:  "<feff0050006100670065>",
			want: fieldname.Result{Name: "Page", Encoding: fieldname.EncodingHexUTF16},
		},
		{
			name: "surrogate pair",
			raw:  "<FEFFD83DDE00>",
			want: fieldname.Result{Name: "\U0001F600", Encoding: fieldname.EncodingHexUTF16},
		},
		{
			name: "empty hex payload",
			raw:  "<FEFF>",
			want: fieldname.Result{Name: "", Encoding: fieldname.EncodingHexUTF16},
		},
		{
			name: "odd digit count falls back",
			raw:  "<FEFF004>",
			want: fieldname.Result{Name: "<FEFF004>", Encoding: fieldname.EncodingHexUTF16, Fallback: true},
		},
		{
			name: "non hex digits fall back",
			raw:  "<FEFF00ZZ>",
			want: fieldname.Result{Name: "<FEFF00ZZ>", Encoding: fieldname.EncodingHexUTF16, Fallback: true},
		},
		{
			name: "literal parentheses",
			raw:  "(Page_1[0])",
			want: fieldname.Result{Name: "Page_1[0]", Encoding: fieldname.EncodingLiteral},
		},
		{
			name: "only one pair stripped",
			raw:  "((x))",
			want: fieldname.Result{Name: "(x)", Encoding: fieldname.EncodingLiteral},
		},
		{
			name: "plain",
			raw:  "DOB_Month[0]",
			want: fieldname.Result{Name: "DOB_Month[0]", Encoding: fieldname.EncodingPlain},
		},
		{
			name: "lone parenthesis is plain",
			raw:  "(",
			want: fieldname.Result{Name: "(", Encoding: fieldname.EncodingPlain},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := fieldname.DecodeName(tc.raw)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("decode mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_HexAndPlainAreEquivalent(t *testing.T) {
	for _, name := range []string{"F[0]", "#subform[1]", "EMAIL_ADDRESS[1]", "Émile"} {
		encoded := fieldname.Encode(name)
		if got := fieldname.Decode(encoded); got != fieldname.Decode(name) {
			t.Fatalf("decode(%q) = %q, want %q", encoded, got, name)
		}
	}
}

func TestDecode_IdempotentOnPlainNames(t *testing.T) {
	for _, raw := range []string{"Veterans_First_Name[0]", "(COMPENSATION[0])", "<FEFF0046>", "plain text"} {
		once := fieldname.Decode(raw)
		if plain := fieldname.DecodeName(once); plain.Encoding != fieldname.EncodingPlain {
			continue
		}
		if twice := fieldname.Decode(once); twice != once {
			t.Fatalf("decode not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestEncode(t *testing.T) {
	if got, want := fieldname.Encode("F[0]"), "<FEFF0046005B0030005D>"; got != want {
		t.Fatalf("encode = %q, want %q", got, want)
	}
}
