package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseBrightnessArgs parses the arguments of the backlight command into a
// ConversionMode. Accepted forms:
//
//	50  50%            absolute, 0..100
//	+10 -10 +10% -10%  relative, -100..100
//	incr 10  + 10      relative increase, 0..100
//	decr 10  - 10      relative decrease, 0..100
//
// An empty args slice is an error; callers treat "no arguments" as a read.
func ParseBrightnessArgs(args []string) (ConversionMode, error) {
	switch len(args) {
	case 0:
		return ConversionMode{}, ErrInputValidation("", "missing brightness level")
	case 1:
		return parseLevel(args[0])
	case 2:
		var sign int64
		switch args[0] {
		case "incr", "+":
			sign = 1
		case "decr", "-":
			sign = -1
		default:
			return ConversionMode{}, ErrInputValidation(args[1], "too many arguments")
		}
		v, err := parseNumber(strings.TrimSuffix(args[1], "%"), false)
		if err != nil {
			return ConversionMode{}, err
		}
		if v < 0 || v > 100 {
			return ConversionMode{}, ErrInputValidation(args[1], "brightness level must be 0-100")
		}
		return Relative(int32(sign * v)), nil
	default:
		return ConversionMode{}, ErrInputValidation(args[2], "too many arguments")
	}
}

func parseLevel(arg string) (ConversionMode, error) {
	s := strings.TrimSuffix(arg, "%")
	switch {
	case strings.HasPrefix(s, "+"):
		v, err := parseNumber(s[1:], false)
		if err != nil {
			return ConversionMode{}, err
		}
		if v > 100 {
			return ConversionMode{}, ErrInputValidation(arg, "relative value must be -100 to +100")
		}
		return Relative(int32(v)), nil
	case strings.HasPrefix(s, "-"):
		v, err := parseNumber(s, true)
		if err != nil {
			return ConversionMode{}, err
		}
		if v < -100 {
			return ConversionMode{}, ErrInputValidation(arg, "relative value must be -100 to +100")
		}
		return Relative(int32(v)), nil
	default:
		v, err := parseNumber(s, false)
		if err != nil {
			return ConversionMode{}, err
		}
		if v > 100 {
			return ConversionMode{}, ErrInputValidation(arg, "absolute value must be 0-100")
		}
		return Absolute(int32(v)), nil
	}
}

// parseNumber accepts an optional leading '-' (only when negative is true)
// followed by decimal digits and nothing else.
func parseNumber(s string, negative bool) (int64, error) {
	start := 0
	if negative && strings.HasPrefix(s, "-") {
		start = 1
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, ErrInputValidation(s, fmt.Sprintf("no digits found in %q", s))
	}
	if end != len(s) {
		return 0, ErrInputValidation(s, fmt.Sprintf("trailing garbage after number: %q", s[end:]))
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrInputValidation(s, "number out of range")
		}
		return 0, ErrInputValidation(s, err.Error())
	}
	return v, nil
}

// ParsePowerArg parses the argument of the switch command.
func ParsePowerArg(arg string) (GPUPowerCommand, error) {
	switch strings.ToLower(arg) {
	case "0", "off":
		return PowerOff, nil
	case "1", "on":
		return PowerOn, nil
	default:
		return 0, ErrInputValidation(arg, "expected 0 (power off discrete GPU) or 1 (power on discrete GPU)")
	}
}
