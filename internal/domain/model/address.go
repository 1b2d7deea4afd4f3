// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

// Package model defines the domain models and entities for the group lifecycle service.
package model

import (
	"strings"

	"github.com/vereinsbot/group-lifecycle-service/pkg/constants"
	errs "github.com/vereinsbot/group-lifecycle-service/pkg/errors"
)

// Address is a canonical identifier for a person or group on the messaging
// platform. The platform exposes the same person under multiple encodings
// across API versions (phone-number form, opaque linked-device form), so
// matching must always go through NumericKey, never raw string equality.
type Address string

// NewMemberAddress builds the canonical person address from a raw phone
// string. All non-digit characters are stripped first.
func NewMemberAddress(phone string) (Address, error) {
	digits := digitsOnly(phone)
	if digits == "" {
		return "", errs.NewValidation("phone number contains no digits")
	}
	return Address(digits + "@" + constants.UserAddressDomain), nil
}

// NewGroupAddress builds the canonical group address from a raw group
// identifier, appending the group-domain suffix when absent.
func NewGroupAddress(raw string) (Address, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errs.NewValidation("group identifier is empty")
	}
	if strings.Contains(trimmed, "@") {
		return Address(trimmed), nil
	}
	return Address(trimmed + "@" + constants.GroupAddressDomain), nil
}

// NumericKey projects the address onto a digits-only comparison key: the
// local part before the domain separator and before any device-index
// separator, stripped of non-digits. An empty key means the address carries
// no usable identity and matches nothing.
func (a Address) NumericKey() string {
	return NumericKeyOf(string(a))
}

// NumericKeyOf is the single projection used for all identity matching,
// regardless of which shape the platform surfaced the identity in.
func NumericKeyOf(raw string) string {
	local := raw
	if at := strings.IndexByte(local, '@'); at >= 0 {
		local = local[:at]
	}
	if colon := strings.IndexByte(local, ':'); colon >= 0 {
		local = local[:colon]
	}
	return digitsOnly(local)
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LastDigits returns at most n trailing digits of a raw phone string.
// Used for the authorization join key and for deduplication, where
// country-code prefixes recorded upstream cannot be trusted.
func LastDigits(raw string, n int) string {
	digits := digitsOnly(raw)
	if len(digits) <= n {
		return digits
	}
	return digits[len(digits)-n:]
}
