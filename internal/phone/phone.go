// Package phone formats free-text phone numbers for display.
//
// Numbers from the home region are shown in national format, everything else
// in international format. Unparsable input is passed through unchanged.
package phone

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/JonMunkholm/phonebook/internal/logging"
)

// DefaultRegion is used when a Formatter has no region set.
const DefaultRegion = "NL"

// Number is a parsed phone number.
type Number = phonenumbers.PhoneNumber

// Library is the subset of a phone-number library the formatter needs.
type Library interface {
	Parse(text, region string) (*Number, error)
	CountryCode(n *Number) int
	CountryCodeForRegion(region string) int
	FormatNational(n *Number) string
	FormatInternational(n *Number) string
}

// LibPhoneNumber implements Library with github.com/nyaruka/phonenumbers.
type LibPhoneNumber struct{}

func (LibPhoneNumber) Parse(text, region string) (*Number, error) {
	return phonenumbers.Parse(text, region)
}

func (LibPhoneNumber) CountryCode(n *Number) int {
	return int(n.GetCountryCode())
}

func (LibPhoneNumber) CountryCodeForRegion(region string) int {
	return phonenumbers.GetCountryCodeForRegion(strings.ToUpper(region))
}

func (LibPhoneNumber) FormatNational(n *Number) string {
	return phonenumbers.Format(n, phonenumbers.NATIONAL)
}

func (LibPhoneNumber) FormatInternational(n *Number) string {
	return phonenumbers.Format(n, phonenumbers.INTERNATIONAL)
}

// SupportedRegion reports whether region is a region code the library knows.
func SupportedRegion(region string) bool {
	return phonenumbers.GetSupportedRegions()[strings.ToUpper(region)]
}

// Formatter turns free-text numbers into display strings.
type Formatter struct {
	Region string
	Lib    Library

	// Diagnostics receives one "Error: <input>" line per unparsable number.
	// Defaults to os.Stderr.
	Diagnostics io.Writer
}

// NewFormatter returns a Formatter for region backed by LibPhoneNumber.
func NewFormatter(region string) *Formatter {
	return &Formatter{Region: region, Lib: LibPhoneNumber{}}
}

// Format returns s in national format if it belongs to the formatter's
// region, otherwise in international format.
//
// Empty input returns "". Input that cannot be parsed is reported and
// returned as-is.
func (f *Formatter) Format(ctx context.Context, s string) string {
	if s == "" {
		return s
	}

	lib := f.library()
	region := f.region()

	num, err := lib.Parse(s, region)
	if err != nil {
		fmt.Fprintf(f.diagnostics(), "Error: %s\n", s)
		logging.FromContext(ctx).Warn("phone number not parsed",
			"input", s,
			"region", region,
			"error", err,
		)
		return s
	}

	if lib.CountryCode(num) == lib.CountryCodeForRegion(region) {
		return lib.FormatNational(num)
	}
	return lib.FormatInternational(num)
}

func (f *Formatter) library() Library {
	if f.Lib == nil {
		return LibPhoneNumber{}
	}
	return f.Lib
}

func (f *Formatter) region() string {
	if f.Region == "" {
		return DefaultRegion
	}
	return strings.ToUpper(f.Region)
}

func (f *Formatter) diagnostics() io.Writer {
	if f.Diagnostics == nil {
		return os.Stderr
	}
	return f.Diagnostics
}
