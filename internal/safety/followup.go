package safety

import (
	"hash/fnv"
	"time"
)

// followUpPrompts are gentle check-in questions appended to the
// third-party response path.
var followUpPrompts = []string{
	"How are you holding up while you support them?",
	"Is there someone you trust who can help you with this?",
	"Would it help to talk through what's been happening?",
	"Have you been able to take care of yourself through this?",
}

// pickFollowUp selects a prompt deterministically from the user id and the
// current day, so repeated calls within a day are stable and testable.
func pickFollowUp(userID string, now time.Time) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	h.Write([]byte(now.UTC().Format("2006-01-02")))
	return followUpPrompts[h.Sum32()%uint32(len(followUpPrompts))]
}
