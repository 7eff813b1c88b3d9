// Package dementia formulates the pushback message sent when a user
// rolls again inside their rate limit window. The wording depends on how
// long ago the counted roll happened.
package dementia

import (
	"strconv"
	"time"

	"github.com/sternbild/horoskop/internal/ratelimit/domain"
)

const tenMinuteThreshold = 10 * time.Minute

// Response is the reply to an over-limit roll. ReplyMessageID points at
// the bot's earlier horoscope when it is known, so the user can find what
// they already got.
type Response struct {
	Text           string
	ReplyMessageID *int
}

type Responder interface {
	CreateResponse(currentMessageID int, now time.Time, usage domain.Usage) Response
}

// DayResponder phrases the pushback for a daily limit window.
type DayResponder struct{}

func NewDayResponder() DayResponder {
	return DayResponder{}
}

func (DayResponder) CreateResponse(currentMessageID int, now time.Time, usage domain.Usage) Response {
	return createResponse(now, usage, "Du warst heute schon dran.")
}

// WeekResponder phrases the pushback for a weekly limit window.
type WeekResponder struct{}

func NewWeekResponder() WeekResponder {
	return WeekResponder{}
}

func (WeekResponder) CreateResponse(currentMessageID int, now time.Time, usage domain.Usage) Response {
	return createResponse(now, usage, "Du warst diese Woche schon dran.")
}

func createResponse(now time.Time, usage domain.Usage, windowText string) Response {
	if now.Sub(usage.Time) < tenMinuteThreshold {
		// The roll was moments ago, no need to point back at it.
		return Response{Text: "Es ist nicht mal zehn Minuten her, dass du dran warst."}
	}
	return Response{Text: windowText, ReplyMessageID: replyTarget(usage)}
}

// replyTarget resolves the message the pushback should reply to: the
// bot's response if recorded, otherwise the user's original roll.
func replyTarget(usage domain.Usage) *int {
	for _, id := range []*string{usage.ResponseID, usage.ReferenceID} {
		if id == nil {
			continue
		}
		parsed, err := strconv.Atoi(*id)
		if err != nil {
			continue
		}
		return &parsed
	}
	return nil
}
