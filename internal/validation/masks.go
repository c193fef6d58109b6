// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

package validation

import (
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
)

// registerDomainValidators adds the mask/principal grammar checks used
// by the location-table configuration: "@LOCAL"/"@IF(name)"/a leading
// "."/an IP literal/a bare hostname for authmask fields, and
// "@OWNER"/"@SYSTEM"/"@group"/a bare username for principal fields.
func registerDomainValidators(v *validator.Validate) {
	_ = v.RegisterValidation("authmask", validateAuthmask)
	_ = v.RegisterValidation("principal", validatePrincipal)
}

func validateAuthmask(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return false
	}
	switch {
	case s == "@LOCAL":
		return true
	case strings.HasPrefix(s, "@IF(") && strings.HasSuffix(s, ")") && len(s) > len("@IF()"):
		return true
	case strings.HasPrefix(s, "."):
		return len(s) > 1
	default:
		host := s
		if i := strings.IndexByte(s, '/'); i >= 0 {
			host = s[:i]
		}
		if net.ParseIP(host) != nil {
			return true
		}
		return !strings.ContainsAny(s, " \t")
	}
}

func validatePrincipal(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return false
	}
	if s == "@OWNER" || s == "@SYSTEM" {
		return true
	}
	if strings.HasPrefix(s, "@") {
		return len(s) > 1
	}
	return !strings.ContainsAny(s, " \t")
}
