package display

import (
	"path"
	"strings"
	"time"
	_ "time/tzdata"
)

// zoneinfo directories may carry these alternate trees next to the zones.
var zoneinfoTrees = []string{"posix/", "right/"}

// ResolveZone maps a browser supplied timezone name onto a zone from the tz
// database. Anything it does not recognise, including the empty string,
// resolves to UTC.
func ResolveZone(name string) *time.Location {
	if !zoneIdentifier(name) {
		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}

	return loc
}

// zoneIdentifier reports whether name is shaped like a tz identifier rather
// than a path into the host zoneinfo directory.
func zoneIdentifier(name string) bool {
	switch name {
	case "", "Local", "posixrules":
		return false
	}

	if path.IsAbs(name) || path.Clean(name) != name {
		return false
	}

	for _, tree := range zoneinfoTrees {
		if strings.HasPrefix(name, tree) {
			return false
		}
	}

	return true
}
