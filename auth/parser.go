package auth

import (
	"fmt"
	"strconv"
	"strings"
)

// parseState is one state of the password-file parser's 14-state
// automaton (spec.md §4.6). Each record is
// `name:password:id:category:members…\n`; members is zero or more
// comma-separated tokens.
type parseState int

const (
	stName parseState = iota
	stNameSep
	stPassword
	stPasswordSep
	stID
	stIDSep
	stCategory
	stCategorySep
	stMember
	stMemberSep
	stRecordDone
	stError
	stEOFClean
	stEOFPartial
)

// parsedRecord is one decoded (possibly malformed) line.
type parsedRecord struct {
	name     string
	password string
	id       string
	category string
	members  []string
	valid    bool // false if the line was structurally malformed
}

// parsePasswordFile runs the automaton over the full file content,
// producing one parsedRecord per line (spec.md §4.6). An illegal
// character anywhere fails the whole parse with bad-password-file; a
// structurally incomplete record (missing fields) is reported back as an
// invalid parsedRecord rather than failing the parse, so the caller can
// retain its id per spec.md §3 ("A user with category invalid … retained
// so its id is not reused").
//
// The original automaton refills its read buffer instead of erroring
// when a record straddles a buffer boundary; this implementation already
// holds the whole file in memory, so that case collapses to "keep
// scanning" — the behavior it preserves is that an incomplete trailing
// record with no partial field pending (i.e. the file simply ends after
// a clean record terminator) is not an error.
func parsePasswordFile(content string) ([]parsedRecord, error) {
	var records []parsedRecord

	lines := strings.Split(content, "\n")
	// strings.Split on a trailing "\n" produces a final empty string;
	// that represents a clean EOF with no pending partial record.
	for i, line := range lines {
		isLast := i == len(lines)-1
		if line == "" {
			continue
		}
		if isLast {
			// No trailing '\n' terminator: a genuinely incomplete final
			// record. Still try to parse whatever fields are present.
			rec, state, err := parseLine(line)
			if err != nil {
				return nil, err
			}
			if state != stRecordDone && state != stCategorySep && state != stMemberSep {
				rec.valid = false
			}
			records = append(records, rec)
			continue
		}
		rec, state, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		if state != stRecordDone && state != stCategorySep && state != stMemberSep {
			rec.valid = false
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseLine drives the automaton over one line's bytes (the record
// terminator itself is the newline the caller already split on, so the
// final state reached is whichever state was active when the line ended
// — stRecordDone only happens if a member list was present and closed
// cleanly, which this line-oriented wrapper treats as equivalent to a
// terminator).
func parseLine(line string) (parsedRecord, parseState, error) {
	var rec parsedRecord
	var nameB, passB, idB, catB, memberB strings.Builder

	state := stName
	for i := 0; i < len(line); i++ {
		b := line[i]
		class := classOf(b)
		if class == classUnused {
			return rec, stError, fmt.Errorf("%w: illegal character %q", errBadPasswordFile, b)
		}

		switch state {
		case stName:
			if class == classFieldSep {
				state = stNameSep
				continue
			}
			nameB.WriteByte(b)
		case stNameSep:
			if class == classFieldSep {
				// empty password field is legal (-> MD5(""))
				state = stPasswordSep
				continue
			}
			passB.WriteByte(b)
			state = stPassword
		case stPassword:
			if class == classFieldSep {
				state = stPasswordSep
				continue
			}
			passB.WriteByte(b)
		case stPasswordSep:
			if class == classFieldSep {
				state = stIDSep
				continue
			}
			if class != classIDNamePassword {
				return rec, stError, fmt.Errorf("%w: non-digit byte in id field", errBadPasswordFile)
			}
			idB.WriteByte(b)
			state = stID
		case stID:
			if class == classFieldSep {
				state = stIDSep
				continue
			}
			if class != classIDNamePassword {
				return rec, stError, fmt.Errorf("%w: non-digit byte in id field", errBadPasswordFile)
			}
			idB.WriteByte(b)
		case stIDSep:
			if class == classFieldSep {
				state = stCategorySep
				continue
			}
			if class != classIDNamePassword {
				return rec, stError, fmt.Errorf("%w: non-digit byte in category field", errBadPasswordFile)
			}
			catB.WriteByte(b)
			state = stCategory
		case stCategory:
			if class == classFieldSep {
				state = stCategorySep
				continue
			}
			if class != classIDNamePassword {
				return rec, stError, fmt.Errorf("%w: non-digit byte in category field", errBadPasswordFile)
			}
			catB.WriteByte(b)
		case stCategorySep, stMemberSep:
			if class == classMemberSep {
				rec.members = append(rec.members, memberB.String())
				memberB.Reset()
				state = stMemberSep
				continue
			}
			memberB.WriteByte(b)
			state = stMember
		case stMember:
			if class == classMemberSep {
				rec.members = append(rec.members, memberB.String())
				memberB.Reset()
				state = stMemberSep
				continue
			}
			memberB.WriteByte(b)
		}
	}

	if memberB.Len() > 0 {
		rec.members = append(rec.members, memberB.String())
	}

	rec.name = nameB.String()
	rec.password = passB.String()
	rec.id = idB.String()
	rec.category = catB.String()
	rec.valid = true

	switch state {
	case stName, stNameSep, stPassword, stPasswordSep, stID, stIDSep:
		// name/password/id fields never closed: unusable.
		rec.valid = false
	}

	return rec, state, nil
}

// toEntry converts a parsedRecord into a UserEntry, folding structural or
// semantic problems into CategoryInvalid rather than discarding the
// record, so its id stays reserved (spec.md §3/§4.6).
func (r parsedRecord) toEntry() *UserEntry {
	if r.name == "" {
		return nil
	}
	id, err := strconv.Atoi(r.id)
	if err != nil {
		return nil // no id at all: nothing to reserve, drop the line
	}

	catNum, catErr := strconv.Atoi(r.category)
	category := Category(catNum)
	if !r.valid || catErr != nil || category < CategorySuperUser || category > CategoryOSUser {
		category = CategoryInvalid
	}

	var digest [16]byte
	if r.password == "" {
		digest = NewUserEntry("", "", 0, 0).Digest
	} else if d, ok := digestFromHex(r.password); ok {
		digest = d
	} else {
		category = CategoryInvalid
	}

	return &UserEntry{Name: r.name, Digest: digest, ID: id, Category: category}
}
