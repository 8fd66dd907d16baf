package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/shopspring/decimal"
)

const auditTimeLayout = "2006-01-02 15:04"

// appendNote adds one line to a reservation's notes. Notes are append-only:
// existing content is never rewritten.
func appendNote(notes, line string) string {
	if strings.TrimSpace(notes) == "" {
		return line
	}
	return notes + "\n" + line
}

// changeNote records a field edit as "old value -> new value" with actor and
// timestamp, so any later reader can reconstruct who changed what.
func changeNote(field, oldValue, newValue string, actor domain.Actor, at time.Time) string {
	return fmt.Sprintf("%s [%s] %s: %s -> %s",
		at.Format(auditTimeLayout), actor.Name, field, oldValue, newValue)
}

// refundNote is the standardized audit tag appended when a reservation is
// cancelled with a refund decision.
func refundNote(choice domain.RefundChoice, amount decimal.Decimal, actor domain.Actor, at time.Time) string {
	return fmt.Sprintf("%s [%s] cancelled, refund=%s amount=%s",
		at.Format(auditTimeLayout), actor.Name, choice, amount.StringFixed(2))
}

// actionNote records a non-field event (reopen, discount, swap) on the trail.
func actionNote(action string, actor domain.Actor, at time.Time) string {
	return fmt.Sprintf("%s [%s] %s", at.Format(auditTimeLayout), actor.Name, action)
}

func dateString(t time.Time) string {
	return t.Format("2006-01-02")
}
