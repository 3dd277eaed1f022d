package user

import "strings"

// HandlePrefix starts every public Agenda Hub handle.
const HandlePrefix = "AGENDA-"

// HandleForUID derives the public, shareable handle from an internal uid:
// the prefix plus the first eight characters of the uid, uppercased. The
// handle is the only user-facing token for adding contacts.
func HandleForUID(uid string) string {
	frag := uid
	if len(frag) > 8 {
		frag = frag[:8]
	}
	return HandlePrefix + strings.ToUpper(frag)
}

// ValidHandle reports whether s has the shape of an Agenda Hub handle.
func ValidHandle(s string) bool {
	return strings.HasPrefix(s, HandlePrefix) && len(s) > len(HandlePrefix)
}
