package progress

import (
	"time"

	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
)

// Decision is the eligibility outcome for one subscriber on one run.
type Decision int

const (
	Skip Decision = iota
	SendIntro
	SendAdvanced
)

func (d Decision) String() string {
	switch d {
	case SendIntro:
		return "send_intro"
	case SendAdvanced:
		return "send_advanced"
	default:
		return "skip"
	}
}

// Sendable reports whether the decision results in an email.
func (d Decision) Sendable() bool { return d != Skip }

// Classify decides whether sub receives an email on a run happening on
// today. The rules are checked in order:
//
//  1. intro finished and not opted in: skip until the subscriber opts in
//  2. opted in: only send on the advanced cadence day
//  3. otherwise send, advanced content once past the intro
//
// Rule 2 also gates opted-in subscribers who are still inside the intro,
// so their remaining intro days only go out on the cadence day.
func Classify(sub domain.Subscriber, today time.Weekday) Decision {
	if sub.IntroExhausted() && !sub.AdvancedOptIn {
		return Skip
	}
	if sub.AdvancedOptIn && today != domain.AdvancedCadenceDay {
		return Skip
	}
	if sub.IntroExhausted() {
		return SendAdvanced
	}
	return SendIntro
}
