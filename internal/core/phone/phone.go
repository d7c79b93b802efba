// Package phone turns user-entered phone numbers into canonical E.164 strings
package phone

import (
	"errors"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalid is returned for anything that cannot be put into E.164 form
var ErrInvalid = errors.New("phone: invalid number")

// e164 is the syntactic E.164 shape, country code first digit non-zero and at most 15 digits
var e164 = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// DefaultRegion is used when a number has no leading + and no region is configured
const DefaultRegion = "IN"

// Normalizer parses numbers relative to a default region
// the zero value parses in DefaultRegion, leniently
type Normalizer struct {
	// Region is the ISO 3166-1 alpha-2 region assumed for national numbers
	Region string
	// Strict rejects numbers that are possible but not assigned in the numbering plan
	Strict bool
}

// Normalize returns the E.164 form of raw or ErrInvalid
//
// lenient mode also accepts an explicit +country value that is syntactically E.164
// even when the numbering plan does not know it, short codes like "+911" included
func (n Normalizer) Normalize(raw string) (string, error) {
	compact := strip(raw)
	if compact == "" {
		return "", ErrInvalid
	}
	if strings.HasPrefix(compact, "00") {
		compact = "+" + compact[2:]
	}

	region := strings.ToUpper(n.Region)
	if region == "" {
		region = DefaultRegion
	}

	num, err := phonenumbers.Parse(compact, region)
	if err == nil && phonenumbers.IsPossibleNumber(num) {
		if !n.Strict || phonenumbers.IsValidNumber(num) {
			return phonenumbers.Format(num, phonenumbers.E164), nil
		}
		return "", ErrInvalid
	}
	if !n.Strict && e164.MatchString(compact) {
		return compact, nil
	}
	return "", ErrInvalid
}

// strip drops the visual separators people type between digit groups
func strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.TrimSpace(s) {
		switch r {
		case ' ', '-', '.', '(', ')', '/', '\u00a0':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
