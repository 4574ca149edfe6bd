package services

import (
	"errors"
	"regexp"
	"strings"
)

var digitsPattern = regexp.MustCompile(`^[0-9]+$`)

var errTaxNumber = errors.New("must be a valid VKN (10 digits) or TCKN (11 digits)")

// ValidateTaxNumber checks a Turkish tax number: a 10-digit company tax
// number (VKN) or an 11-digit citizen number (TCKN), including the check
// digits. An empty value is valid.
func ValidateTaxNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	if !digitsPattern.MatchString(s) {
		return false
	}
	switch len(s) {
	case 10:
		return validVKN(s)
	case 11:
		return validTCKN(s)
	}
	return false
}

// taxNumberRule adapts ValidateTaxNumber to ozzo-validation.
func taxNumberRule(value interface{}) error {
	s, _ := value.(string)
	if !ValidateTaxNumber(s) {
		return errTaxNumber
	}
	return nil
}

func validVKN(s string) bool {
	sum := 0
	for i := 0; i < 9; i++ {
		tmp := (int(s[i]-'0') + 9 - i) % 10
		if tmp == 0 {
			continue
		}
		v := (tmp * (1 << (9 - i))) % 9
		if v == 0 {
			v = 9
		}
		sum += v
	}
	return (10-sum%10)%10 == int(s[9]-'0')
}

func validTCKN(s string) bool {
	if s[0] == '0' {
		return false
	}
	var d [11]int
	for i := range d {
		d[i] = int(s[i] - '0')
	}
	odd := d[0] + d[2] + d[4] + d[6] + d[8]
	even := d[1] + d[3] + d[5] + d[7]
	if ((odd*7-even)%10+10)%10 != d[9] {
		return false
	}
	sum := 0
	for _, v := range d[:10] {
		sum += v
	}
	return sum%10 == d[10]
}
