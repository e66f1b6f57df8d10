package acquisition

import (
	"testing"
	"time"

	"github.com/houshuang/alif/pkg/memory"
	"github.com/stretchr/testify/assert"
)

func TestEnter(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("normal entry schedules box-1 interval", func(t *testing.T) {
		d := Enter(cfg, now, false)
		assert.Equal(t, memory.Box(1), d.Box)
		assert.Equal(t, now.Add(4*time.Hour), d.NextDueAt)
	})

	t.Run("due immediately overrides interval", func(t *testing.T) {
		d := Enter(cfg, now, true)
		assert.Equal(t, now, d.NextDueAt)
	})
}

func TestReview_Monotonicity(t *testing.T) {
	// Property 3: for any sequence of ratings >= 3 while acquiring, box is
	// non-decreasing and caps at 3.
	cfg := DefaultConfig()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	box := memory.Box(1)
	seen, correct := 0, 0
	entered := now
	for i := 0; i < 6; i++ {
		in := ReviewInput{
			Box: box, TimesSeen: seen, TimesCorrect: correct,
			EnteredAcquiringAt: entered, Now: now.Add(time.Duration(i) * time.Hour),
			Rating: memory.RatingGood,
		}
		d := Review(cfg, in)
		assert.GreaterOrEqual(t, d.Box, box)
		assert.LessOrEqual(t, d.Box, memory.Box(3))
		box = d.Box
		seen++
		correct++
	}
}

func TestReview_RatingTransitions(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("rating good advances box and schedules the new box interval", func(t *testing.T) {
		in := ReviewInput{Box: 1, TimesSeen: 3, TimesCorrect: 2, EnteredAcquiringAt: now, Now: now, Rating: memory.RatingGood}
		d := Review(cfg, in)
		assert.Equal(t, memory.Box(2), d.Box)
		assert.Equal(t, now.Add(24*time.Hour), d.NextDueAt)
	})

	t.Run("rating easy advances box same as good (box caps at 3)", func(t *testing.T) {
		in := ReviewInput{Box: 3, TimesSeen: 6, TimesCorrect: 5, EnteredAcquiringAt: now.AddDate(0, 0, -3), Now: now, Rating: memory.RatingEasy}
		d := Review(cfg, in)
		assert.Equal(t, memory.Box(3), d.Box)
	})

	t.Run("rating hard after first correct keeps box, normal interval", func(t *testing.T) {
		in := ReviewInput{Box: 2, TimesSeen: 4, TimesCorrect: 1, EnteredAcquiringAt: now, Now: now, Rating: memory.RatingHard}
		d := Review(cfg, in)
		assert.Equal(t, memory.Box(2), d.Box)
		assert.Equal(t, now.Add(24*time.Hour), d.NextDueAt)
	})

	t.Run("rating again resets to box 1", func(t *testing.T) {
		in := ReviewInput{Box: 3, TimesSeen: 6, TimesCorrect: 1, EnteredAcquiringAt: now, Now: now, Rating: memory.RatingAgain}
		d := Review(cfg, in)
		assert.Equal(t, memory.Box(1), d.Box)
		assert.Equal(t, now.Add(4*time.Hour), d.NextDueAt)
	})
}

func TestReview_FirstCorrectRetryException(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("rating again before any correct uses shortened 5m interval", func(t *testing.T) {
		in := ReviewInput{Box: 2, TimesSeen: 2, TimesCorrect: 0, EnteredAcquiringAt: now, Now: now, Rating: memory.RatingAgain}
		d := Review(cfg, in)
		assert.Equal(t, memory.Box(1), d.Box)
		assert.Equal(t, now.Add(5*time.Minute), d.NextDueAt)
	})

	t.Run("rating hard before any correct uses shortened 10m interval and keeps box", func(t *testing.T) {
		in := ReviewInput{Box: 2, TimesSeen: 2, TimesCorrect: 0, EnteredAcquiringAt: now, Now: now, Rating: memory.RatingHard}
		d := Review(cfg, in)
		assert.Equal(t, memory.Box(2), d.Box)
		assert.Equal(t, now.Add(10*time.Minute), d.NextDueAt)
	})

	t.Run("exception does not apply once a correct review has occurred", func(t *testing.T) {
		in := ReviewInput{Box: 2, TimesSeen: 3, TimesCorrect: 1, EnteredAcquiringAt: now, Now: now, Rating: memory.RatingHard}
		d := Review(cfg, in)
		assert.Equal(t, now.Add(24*time.Hour), d.NextDueAt)
	})
}

func TestReview_Graduation(t *testing.T) {
	cfg := DefaultConfig()
	day0 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	day2 := day0.AddDate(0, 0, 2)

	t.Run("graduates on a good rating meeting all thresholds", func(t *testing.T) {
		in := ReviewInput{Box: 3, TimesSeen: 4, TimesCorrect: 3, EnteredAcquiringAt: day0, Now: day2, Rating: memory.RatingGood}
		d := Review(cfg, in)
		assert.True(t, d.Graduate)
	})

	t.Run("scenario C: graduates even on rating 1 when pre-review box/seen/accuracy/span already qualify", func(t *testing.T) {
		// box 3, seen 5 (after this review), correct 3 -> 0.6 accuracy, span 2 days.
		in := ReviewInput{Box: 3, TimesSeen: 4, TimesCorrect: 3, EnteredAcquiringAt: day0, Now: day2, Rating: memory.RatingAgain}
		d := Review(cfg, in)
		assert.True(t, d.Graduate, "graduation must not be blocked by a rating that would otherwise reset the box")
	})

	t.Run("does not graduate below minimum seen", func(t *testing.T) {
		in := ReviewInput{Box: 3, TimesSeen: 2, TimesCorrect: 2, EnteredAcquiringAt: day0, Now: day2, Rating: memory.RatingGood}
		d := Review(cfg, in)
		assert.False(t, d.Graduate)
	})

	t.Run("does not graduate below accuracy threshold", func(t *testing.T) {
		in := ReviewInput{Box: 3, TimesSeen: 4, TimesCorrect: 1, EnteredAcquiringAt: day0, Now: day2, Rating: memory.RatingGood}
		d := Review(cfg, in)
		assert.False(t, d.Graduate)
	})

	t.Run("does not graduate below calendar-day span", func(t *testing.T) {
		in := ReviewInput{Box: 3, TimesSeen: 4, TimesCorrect: 3, EnteredAcquiringAt: day0, Now: day0.Add(6 * time.Hour), Rating: memory.RatingGood}
		d := Review(cfg, in)
		assert.False(t, d.Graduate)
	})

	t.Run("does not graduate outside box 3", func(t *testing.T) {
		in := ReviewInput{Box: 2, TimesSeen: 6, TimesCorrect: 5, EnteredAcquiringAt: day0, Now: day2, Rating: memory.RatingGood}
		d := Review(cfg, in)
		assert.False(t, d.Graduate)
	})
}
