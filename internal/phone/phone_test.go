package phone

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_Format(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "dutch mobile", input: "0612345678", want: "06 12345678"},
		{name: "dutch landline", input: "0101234567", want: "010 123 4567"},
		{name: "dutch with country code", input: "+31612345678", want: "06 12345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diag bytes.Buffer
			f := NewFormatter("NL")
			f.Diagnostics = &diag

			assert.Equal(t, tt.want, f.Format(context.Background(), tt.input))
			assert.Empty(t, diag.String())
		})
	}
}

func TestFormatter_International(t *testing.T) {
	f := NewFormatter("NL")
	f.Diagnostics = &bytes.Buffer{}

	got := f.Format(context.Background(), "+15551234567")
	assert.True(t, strings.HasPrefix(got, "+1 "), got)
}

func TestFormatter_ParseFailure(t *testing.T) {
	var diag bytes.Buffer
	f := NewFormatter("NL")
	f.Diagnostics = &diag

	got := f.Format(context.Background(), "not-a-number")

	assert.Equal(t, "not-a-number", got)
	assert.Equal(t, "Error: not-a-number\n", diag.String())
}

func TestFormatter_DefaultRegion(t *testing.T) {
	f := &Formatter{Diagnostics: &bytes.Buffer{}}
	assert.Equal(t, "06 12345678", f.Format(context.Background(), "0612345678"))
}

func TestFormatter_OtherRegion(t *testing.T) {
	f := NewFormatter("be")
	f.Diagnostics = &bytes.Buffer{}

	// A Dutch number seen from Belgium is foreign.
	assert.Equal(t, "+31 6 12345678", f.Format(context.Background(), "+31612345678"))
}

type fakeLib struct {
	parseErr error
	code     int
}

func (l fakeLib) Parse(text, region string) (*Number, error) {
	if l.parseErr != nil {
		return nil, l.parseErr
	}
	return &Number{}, nil
}
func (l fakeLib) CountryCode(*Number) int { return l.code }
func (l fakeLib) CountryCodeForRegion(string) int { return 31 }
func (l fakeLib) FormatNational(*Number) string { return "national" }
func (l fakeLib) FormatInternational(*Number) string { return "international" }

func TestFormatter_UsesLibrary(t *testing.T) {
	var diag bytes.Buffer

	f := &Formatter{Region: "NL", Lib: fakeLib{code: 31}, Diagnostics: &diag}
	assert.Equal(t, "national", f.Format(context.Background(), "x"))

	f.Lib = fakeLib{code: 1}
	assert.Equal(t, "international", f.Format(context.Background(), "x"))

	f.Lib = fakeLib{parseErr: errors.New("boom")}
	assert.Equal(t, "x", f.Format(context.Background(), "x"))
	require.Equal(t, "Error: x\n", diag.String())
}

func TestSupportedRegion(t *testing.T) {
	assert.True(t, SupportedRegion("NL"))
	assert.True(t, SupportedRegion("us"))
	assert.False(t, SupportedRegion("XX"))
}
