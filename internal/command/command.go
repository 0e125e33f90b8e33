package command

import (
	"regexp"
	"strings"
)

// Kind classifies an inbound SMS body.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindPostalCode
	KindStoreSelection
)

// Command is the parse result of one inbound SMS body.
type Command struct {
	Kind    Kind
	Value   string // postal code or store id, depending on Kind
	RawText string
}

var (
	// Canadian postal code: letter-digit-letter, optional space or hyphen,
	// digit-letter-digit. D, F, I, O, Q, U never appear.
	postalCodeRe = regexp.MustCompile(`(?i)^[ABCEGHJ-NPRSTVXY]\d[ABCEGHJ-NPRSTV-Z][ -]?\d[ABCEGHJ-NPRSTV-Z]\d$`)
	storeIDRe    = regexp.MustCompile(`^\d+$`)
)

// Interpret parses an inbound SMS body into a Command. Surrounding whitespace
// is trimmed first. Anything that is neither a postal code nor a bare store id
// falls through to KindUnrecognized; Interpret never fails.
func Interpret(text string) Command {
	trimmed := strings.TrimSpace(text)
	switch {
	case postalCodeRe.MatchString(trimmed):
		return Command{Kind: KindPostalCode, Value: trimmed, RawText: text}
	case storeIDRe.MatchString(trimmed):
		return Command{Kind: KindStoreSelection, Value: trimmed, RawText: text}
	default:
		return Command{Kind: KindUnrecognized, RawText: text}
	}
}
