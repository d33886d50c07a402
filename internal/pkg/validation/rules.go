package validation

import (
	"errors"
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Roll numbers are the alphanumeric local part of an institutional email
	RollNoPattern = `^[A-Z0-9]{3,20}$`

	// Room numbers look like A-101, B12 or 204
	RoomPattern = `^[A-Z0-9][A-Z0-9\-]{0,15}$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email  *regexp.Regexp
	RollNo *regexp.Regexp
	Room   *regexp.Regexp
}{
	Email:  regexp.MustCompile(EmailPattern),
	RollNo: regexp.MustCompile(RollNoPattern),
	Room:   regexp.MustCompile(RoomPattern),
}

// ErrInvalidRollNo is returned when an email cannot yield a roll number
var ErrInvalidRollNo = errors.New("email local part is not a valid roll number")

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmail checks the general shape of an email address
func IsEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(NormalizeEmail(email))
}

// NormalizeDomainSuffix strips leading "@" and "." so "@iiitdmj.ac.in",
// ".iiitdmj.ac.in" and "iiitdmj.ac.in" compare the same.
func NormalizeDomainSuffix(suffix string) string {
	suffix = strings.ToLower(strings.TrimSpace(suffix))
	return strings.TrimLeft(suffix, "@.")
}

// IsInstitutionalEmail reports whether the email's domain is the institutional
// domain or one of its subdomains. "evil-iiitdmj.ac.in" does not match "iiitdmj.ac.in".
func IsInstitutionalEmail(email, suffix string) bool {
	suffix = NormalizeDomainSuffix(suffix)
	if suffix == "" {
		return false
	}

	email = NormalizeEmail(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	return domain == suffix || strings.HasSuffix(domain, "."+suffix)
}

// DeriveRollNo derives the roll number from the local part of an email address.
// The mapping is deterministic: the local part upper-cased.
func DeriveRollNo(email string) (string, error) {
	email = NormalizeEmail(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "", ErrInvalidRollNo
	}

	rollNo := strings.ToUpper(email[:at])
	if !CompiledPatterns.RollNo.MatchString(rollNo) {
		return "", ErrInvalidRollNo
	}
	return rollNo, nil
}

// NormalizeRollNo trims and upper-cases a roll number received from a client
func NormalizeRollNo(rollNo string) string {
	return strings.ToUpper(strings.TrimSpace(rollNo))
}

// IsValidRollNo checks a normalized roll number
func IsValidRollNo(rollNo string) bool {
	return CompiledPatterns.RollNo.MatchString(rollNo)
}

// NormalizeRoom trims and upper-cases a room number
func NormalizeRoom(room string) string {
	return strings.ToUpper(strings.TrimSpace(room))
}

// IsValidRoom checks a normalized room number
func IsValidRoom(room string) bool {
	return CompiledPatterns.Room.MatchString(room)
}

// SplitRecipients splits a free-form recipient string on commas, semicolons
// and whitespace, dropping empties and duplicates while keeping order.
func SplitRecipients(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})

	seen := make(map[string]struct{}, len(fields))
	recipients := make([]string, 0, len(fields))
	for _, f := range fields {
		addr := NormalizeEmail(f)
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		recipients = append(recipients, addr)
	}
	return recipients
}
