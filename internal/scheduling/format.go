package scheduling

import (
	"regexp"
	"strings"
)

var (
	registrationRe = regexp.MustCompile(`^[A-Z0-9]{1,2}-[A-Z]{3,4}$`)
	flightNumberRe = regexp.MustCompile(`^[A-Z]{2}[1-9][0-9]{0,3}$`)
	iataRe         = regexp.MustCompile(`^[A-Z]{3}$`)
	usernameRe     = regexp.MustCompile(`^[A-Za-z0-9._-]{3,32}$`)
)

func ValidRegistration(s string) bool { return registrationRe.MatchString(s) }
func ValidFlightNumber(s string) bool { return flightNumberRe.MatchString(s) }
func ValidIATA(s string) bool         { return iataRe.MatchString(s) }
func ValidUsername(s string) bool     { return usernameRe.MatchString(s) }

// Normalize upper-cases and trims a code-like field.
func Normalize(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
