package progress

import (
	"testing"
	"time"

	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
	"github.com/stretchr/testify/assert"
)

var allWeekdays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		sub   domain.Subscriber
		today time.Weekday
		want  Decision
	}{
		{"intro day 1", domain.Subscriber{ProgressDay: 1}, time.Wednesday, SendIntro},
		{"intro last day", domain.Subscriber{ProgressDay: 5}, time.Monday, SendIntro},
		{"intro finished, not opted in", domain.Subscriber{ProgressDay: 6}, time.Sunday, Skip},
		{"opted in, weekday", domain.Subscriber{ProgressDay: 6, AdvancedOptIn: true}, time.Wednesday, Skip},
		{"opted in, sunday", domain.Subscriber{ProgressDay: 6, AdvancedOptIn: true}, time.Sunday, SendAdvanced},
		{"opted in during intro, weekday", domain.Subscriber{ProgressDay: 3, AdvancedOptIn: true}, time.Tuesday, Skip},
		{"opted in during intro, sunday", domain.Subscriber{ProgressDay: 3, AdvancedOptIn: true}, time.Sunday, SendIntro},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.sub, tt.today))
		})
	}
}

func TestClassify_ExhaustedWithoutOptInAlwaysSkips(t *testing.T) {
	for day := domain.IntroCourseDays + 1; day < domain.IntroCourseDays+20; day++ {
		for _, wd := range allWeekdays {
			sub := domain.Subscriber{ProgressDay: day}
			assert.Equal(t, Skip, Classify(sub, wd), "day=%d weekday=%s", day, wd)
		}
	}
}

func TestClassify_OptedInOnlyOnCadenceDay(t *testing.T) {
	for day := 1; day < 20; day++ {
		for _, wd := range allWeekdays {
			sub := domain.Subscriber{ProgressDay: day, AdvancedOptIn: true}
			got := Classify(sub, wd)
			if wd == domain.AdvancedCadenceDay {
				assert.True(t, got.Sendable(), "day=%d should send on %s", day, wd)
			} else {
				assert.Equal(t, Skip, got, "day=%d weekday=%s", day, wd)
			}
		}
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "skip", Skip.String())
	assert.Equal(t, "send_intro", SendIntro.String())
	assert.Equal(t, "send_advanced", SendAdvanced.String())
}
