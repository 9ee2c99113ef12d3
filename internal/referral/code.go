// Package referral derives the short public codes users share to
// attribute signups to themselves.
package referral

import (
	"strconv"
	"strings"

	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/models"
	"gorm.io/gorm"
)

const (
	prefixLen      = 6
	hashLen        = 4
	fallbackPrefix = "USER"
)

// Code returns the deterministic raw code for an email: up to six
// alphanumeric characters of the uppercased local part, followed by four
// base-36 characters of a polynomial hash over the whole address.
func Code(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}

	var prefix strings.Builder
	for _, r := range strings.ToUpper(local) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			prefix.WriteRune(r)
			if prefix.Len() == prefixLen {
				break
			}
		}
	}
	p := prefix.String()
	if p == "" {
		p = fallbackPrefix
	}

	return p + hash(email)
}

func hash(email string) string {
	var h int64 = 7
	for _, r := range email {
		h = h*31 + int64(r)
	}
	u := uint64(h)
	if h < 0 {
		u = uint64(-h)
	}
	s := strings.ToUpper(strconv.FormatUint(u, 36))
	if len(s) < hashLen {
		s = s + strings.Repeat("0", hashLen-len(s))
	}
	return s[:hashLen]
}

// EnsureUnique appends an incrementing numeric suffix to raw until no
// existing user holds the code. The raw code itself is tried first.
func EnsureUnique(db *gorm.DB, raw string) (string, error) {
	code := raw
	for i := 1; ; i++ {
		var count int64
		if err := db.Model(&models.User{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
		code = raw + strconv.Itoa(i)
	}
}
