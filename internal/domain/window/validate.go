package window

import (
	"regexp"
	"strings"
	"unicode"
)

// Style values are checked the way a rendering surface would accept them:
// a bad value is rejected at assignment time, never stored and dropped later.

var (
	nameRe  = regexp.MustCompile(`^[\pL\pN _.-]{1,255}$`)
	classRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,127}$`)

	hexColorRe  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColorRe = regexp.MustCompile(`^(?:rgb|rgba|hsl|hsla)\([0-9 ,.%/]+\)$`)
	namedRe     = regexp.MustCompile(`^[a-zA-Z]{3,32}$`)
)

// cursors is the closed set of accepted cursor keywords.
var cursors = map[string]struct{}{
	"auto": {}, "default": {}, "none": {}, "pointer": {}, "text": {},
	"move": {}, "wait": {}, "progress": {}, "help": {}, "crosshair": {},
	"grab": {}, "grabbing": {}, "not-allowed": {}, "col-resize": {},
	"row-resize": {}, "n-resize": {}, "s-resize": {}, "e-resize": {},
	"w-resize": {}, "ne-resize": {}, "nw-resize": {}, "se-resize": {},
	"sw-resize": {}, "ew-resize": {}, "ns-resize": {}, "nesw-resize": {},
	"nwse-resize": {},
}

func validateName(v string) error {
	if !nameRe.MatchString(v) {
		return ErrInvalidName
	}
	return nil
}

func validateClassName(v string) error {
	if !classRe.MatchString(v) {
		return ErrInvalidClass
	}
	return nil
}

func validateColor(v string) error {
	if hexColorRe.MatchString(v) || funcColorRe.MatchString(v) || namedRe.MatchString(v) {
		return nil
	}
	return ErrInvalidColor
}

func validateCursor(v string) error {
	if _, ok := cursors[v]; !ok {
		return ErrInvalidCursor
	}
	return nil
}

func validateFont(v string) error {
	if v == "" || len(v) > 255 {
		return ErrInvalidFont
	}
	if strings.ContainsFunc(v, unicode.IsControl) {
		return ErrInvalidFont
	}
	return nil
}

func validateAlpha(v int) error {
	if v < 0 || v > 255 {
		return ErrInvalidAlpha
	}
	return nil
}
