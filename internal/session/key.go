package session

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date form used inside session keys.
const DateLayout = "2006-01-02"

// Key builds the stable identity of one attendance session: the class,
// division, subject and slot it belongs to, on one calendar date. The same
// five components always produce the same key, and any one differing
// component produces a different key as long as ids avoid the '|' delimiter.
// Not cryptographic and not unique across restarts; it only has to be stable
// for the lock store's cardinality.
func Key(classID, divisionID, subjectID, slotID string, date time.Time) string {
	return strings.Join([]string{
		classID,
		divisionID,
		subjectID,
		slotID,
		date.Format(DateLayout),
	}, "|")
}
