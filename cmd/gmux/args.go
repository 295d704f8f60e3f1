package main

import "strings"

// valueFlags are the common flags that take a separate value argument.
var valueFlags = map[string]bool{
	"config": true,
	"family": true,
}

// splitArgs separates flags from positional arguments. Positional brightness
// levels such as -10 look like flags to the flag package, so anything that
// starts with a sign followed by a digit, or is a bare sign, is positional.
// Everything after "--" is positional.
func splitArgs(args []string) (flags, positional []string) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return flags, append(positional, args[i+1:]...)
		case a == "-" || a == "+" || !strings.HasPrefix(a, "-") || isNumeric(a[1:]):
			positional = append(positional, a)
		default:
			flags = append(flags, a)
			name := strings.TrimLeft(a, "-")
			if valueFlags[name] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		}
	}
	return flags, positional
}

func isNumeric(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
