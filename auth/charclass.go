package auth

// charClass is one of the seven character classes the password-file
// parser automaton drives on (spec.md §4.6).
type charClass int

const (
	classUnused charClass = iota
	classUserName
	classNamePassword   // hex digit: valid in both a user-name and an MD5 digest
	classIDNamePassword // decimal digit: valid in a user-name, a digest, and an id/category
	classFieldSep       // ':'
	classMemberSep      // ','
	classRecordTerm     // '\n'
)

// classOf classifies one input byte per spec.md §4.6's 7-class table.
// Decimal digits are the most permissive class since they're legal in a
// user name, a hex digest, and the numeric fields; hex letters a-f/A-F
// are legal in a user name and a digest but not the numeric fields;
// everything else printable-ASCII-excluding-separators is user-name-only.
func classOf(b byte) charClass {
	switch {
	case b == ':':
		return classFieldSep
	case b == ',':
		return classMemberSep
	case b == '\n':
		return classRecordTerm
	case b >= '0' && b <= '9':
		return classIDNamePassword
	case (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F'):
		return classNamePassword
	case validUserNameChar(b):
		return classUserName
	default:
		return classUnused
	}
}
