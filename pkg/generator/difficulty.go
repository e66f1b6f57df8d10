package generator

import "time"

// Maturity summarizes how long/how many times a target lemma has been
// reviewed, the input to difficulty-parameter derivation.
type Maturity struct {
	Age       time.Duration // time since the lemma was first encountered
	TimesSeen int
}

// Params is the derived (max_words, difficulty_hint) pair.
type Params struct {
	MaxWords int
	Hint     string
}

// DeriveParams maps the weakest target's maturity onto generation
// parameters, per four maturity bands.
func DeriveParams(weakest Maturity) Params {
	switch {
	case weakest.Age < 2*time.Hour && weakest.TimesSeen < 3:
		return Params{MaxWords: 7, Hint: "simple"}
	case weakest.Age < 24*time.Hour:
		return Params{MaxWords: 9, Hint: "simple"}
	case weakest.Age < 7*24*time.Hour:
		return Params{MaxWords: 11, Hint: "beginner"}
	default:
		return Params{MaxWords: 14, Hint: "intermediate"}
	}
}

// Weakest picks the least mature of a set of target maturities (the
// shortest age, tie-broken by fewest times seen), matching "the weakest
// target's maturity" in
func Weakest(targets []Maturity) Maturity {
	if len(targets) == 0 {
		return Maturity{}
	}
	w := targets[0]
	for _, m := range targets[1:] {
		if m.Age < w.Age || (m.Age == w.Age && m.TimesSeen < w.TimesSeen) {
			w = m
		}
	}
	return w
}
