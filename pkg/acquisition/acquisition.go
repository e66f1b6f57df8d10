// Package acquisition implements the three-box short-term scheduler that
// gates new words before they enter the long-term memory model. Every
// exported function here is pure: (state, rating, now) -> decision. Side
// effects (persisting the decision, seeding the long-term card) live in
// pkg/review.
package acquisition

import (
	"time"

	"github.com/houshuang/alif/pkg/memory"
)

// Config carries the acquisition scheduler's tunables.
type Config struct {
	BoxIntervals           [4]time.Duration `yaml:"box_intervals"` // index 1,2,3 used; 0 unused
	GraduationMinSeen      int              `yaml:"graduation_min_seen"`
	GraduationMinAcc       float64          `yaml:"graduation_min_accuracy"`
	GraduationMinSpan      int              `yaml:"graduation_min_span_days"` // calendar days between earliest and latest review
	FirstCorrectRetryAgain time.Duration    `yaml:"first_correct_retry_again"`
	FirstCorrectRetryHard  time.Duration    `yaml:"first_correct_retry_hard"`
}

// DefaultConfig returns the box intervals and graduation thresholds used
// in production.
func DefaultConfig() Config {
	return Config{
		BoxIntervals: [4]time.Duration{
			0,
			4 * time.Hour,
			24 * time.Hour,
			3 * 24 * time.Hour,
		},
		GraduationMinSeen:      5,
		GraduationMinAcc:       0.60,
		GraduationMinSpan:      2,
		FirstCorrectRetryAgain: 5 * time.Minute,
		FirstCorrectRetryHard:  10 * time.Minute,
	}
}

func (c Config) interval(box memory.Box) time.Duration {
	if box < 1 || int(box) >= len(c.BoxIntervals) {
		return c.BoxIntervals[1]
	}
	return c.BoxIntervals[box]
}

// Decision is the outcome of reviewing an acquiring word.
type Decision struct {
	Box        memory.Box
	NextDueAt  time.Time
	Graduate   bool // if true, Box/NextDueAt are irrelevant: caller transitions to long-term
}

// ReviewInput bundles the fields the acquisition scheduler needs from a
// memory.State, so this package stays decoupled from the store.
type ReviewInput struct {
	Box                memory.Box
	TimesSeen          int // BEFORE this review
	TimesCorrect       int // BEFORE this review
	EnteredAcquiringAt time.Time
	Now                time.Time
	Rating             memory.Rating
	DueImmediately     bool // for newly auto-introduced words entering box 1
}

// Enter produces the initial acquiring decision for a lemma starting
// acquisition at box 1.
func Enter(cfg Config, now time.Time, dueImmediately bool) Decision {
	due := now.Add(cfg.interval(1))
	if dueImmediately {
		due = now
	}
	return Decision{Box: 1, NextDueAt: due}
}

// Review applies one rating to an acquiring word and returns the next
// decision, including graduation. TimesSeen/TimesCorrect in in are the
// pre-review counters; callers update times_seen/times_correct themselves
// (this package only decides box/due/graduate — it stays a pure function
// at the boundary).
func Review(cfg Config, in ReviewInput) Decision {
	timesSeenAfter := in.TimesSeen + 1
	timesCorrectAfter := in.TimesCorrect
	if in.Rating >= memory.RatingGood {
		timesCorrectAfter++
	}

	var d Decision

	switch {
	case in.Rating >= memory.RatingGood:
		newBox := in.Box + 1
		if newBox > 3 {
			newBox = 3
		}
		d = Decision{Box: newBox, NextDueAt: in.Now.Add(cfg.interval(newBox))}

	case in.Rating == memory.RatingHard:
		if in.TimesCorrect == 0 {
			d = Decision{Box: in.Box, NextDueAt: in.Now.Add(cfg.FirstCorrectRetryHard)}
		} else {
			d = Decision{Box: in.Box, NextDueAt: in.Now.Add(cfg.interval(in.Box))}
		}

	default: // RatingAgain
		if in.TimesCorrect == 0 {
			d = Decision{Box: 1, NextDueAt: in.Now.Add(cfg.FirstCorrectRetryAgain)}
		} else {
			d = Decision{Box: 1, NextDueAt: in.Now.Add(cfg.interval(1))}
		}
	}

	// Graduation is evaluated against the box the word was SITTING IN for
	// this review (in.Box), not the box the rating's own transition would
	// produce: a word parked in box 3 that already satisfies the seen/
	// accuracy/span thresholds graduates on its next review regardless of
	// that review's rating. A rating-1 review on a box-3/seen-5/correct-3/
	// span-2 word still graduates, and the long-term scheduler is then
	// seeded with that same Again rating, landing in "lapsed" — not a
	// fabricated "Good".
	if checkGraduation(cfg, in.Box, timesSeenAfter, timesCorrectAfter, in.EnteredAcquiringAt, in.Now) {
		d.Graduate = true
	}
	return d
}

// checkGraduation runs after every acquisition review regardless of the
// current rating. The 2-calendar-day span between the earliest and latest
// review is required in every path, not just the accuracy/seen-count
// thresholds.
func checkGraduation(cfg Config, box memory.Box, timesSeen, timesCorrect int, enteredAt, now time.Time) bool {
	if box != 3 {
		return false
	}
	if timesSeen < cfg.GraduationMinSeen {
		return false
	}
	if float64(timesCorrect)/float64(timesSeen) < cfg.GraduationMinAcc {
		return false
	}
	return calendarDaySpan(enteredAt, now) >= cfg.GraduationMinSpan
}

// calendarDaySpan counts the number of calendar-day boundaries crossed
// between a and b (UTC), so a review at 23:59 followed by one at 00:01 the
// next day counts as a span of 1, matching "calendar-day span" rather than
// a 24h duration.
func calendarDaySpan(a, b time.Time) int {
	if b.Before(a) {
		a, b = b, a
	}
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
