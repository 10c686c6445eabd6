// Generic data manipulation utilities.

package main

import (
	"strconv"
	"strings"
)

// Parses version of format 1.2.3 or 1.2beta2 or 1.2.3-rc4 into a packed
// int: major in the highest byte, minor in the second highest, trailer
// in the third.
func parseVersionPart(vers string) int {
	end := strings.IndexFunc(vers, func(r rune) bool {
		return r < '0' || r > '9'
	})

	t := 0
	var err error
	if end > 0 {
		t, err = strconv.Atoi(vers[:end])
	} else if len(vers) > 0 {
		t, err = strconv.Atoi(vers)
	}
	if err != nil || t > 0x1fff || t < 0 {
		return 0
	}
	return t
}

// parseVersion parses a semantic version string into a packed int.
func parseVersion(vers string) int {
	var major, minor, trailer int

	if dot := strings.Index(vers, "."); dot >= 0 {
		major = parseVersionPart(vers[:dot])
		vers = vers[dot+1:]
	} else {
		major = parseVersionPart(vers)
		vers = ""
	}

	if dot2 := strings.IndexAny(vers, ".-"); dot2 > 0 {
		minor = parseVersionPart(vers[:dot2])
		trailer = parseVersionPart(vers[dot2+1:])
	} else if len(vers) > 0 {
		minor = parseVersionPart(vers)
	}

	if major == 0 && minor == 0 && trailer == 0 {
		return 0
	}

	return (major << 16) | (minor << 8) | trailer
}

// base10Version converts a packed version into a human-readable decimal,
// e.g. 0x010203 -> 10203.
func base10Version(hex int) int64 {
	major := int64(hex>>16) & 0xff
	minor := int64(hex>>8) & 0xff
	trailer := int64(hex) & 0xff
	return major*10000 + minor*100 + trailer
}
