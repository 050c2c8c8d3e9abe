// Package dosha implements the Ayurvedic constitution quiz: the static
// question set, answer bookkeeping and the max-tally classifier that turns ten
// answers into a single dominant dosha.
package dosha

import (
	"errors"
	"fmt"
)

// Dosha is one of the three Ayurvedic constitution labels.
type Dosha string

const (
	Vata  Dosha = "Vata"
	Pitta Dosha = "Pitta"
	Kapha Dosha = "Kapha"
)

// Order is the fixed enumeration order. When several doshas share the highest
// tally, the one that appears first here wins.
var Order = [...]Dosha{Vata, Pitta, Kapha}

var (
	// ErrUnknownDosha is returned for labels outside Order.
	ErrUnknownDosha = errors.New("unknown dosha")
	// ErrQuestionRange is returned for question indexes outside the quiz.
	ErrQuestionRange = errors.New("question index out of range")
	// ErrIncomplete is returned when finalizing a quiz with unanswered questions.
	ErrIncomplete = errors.New("quiz is incomplete")
)

// Parse validates a label. Matching is exact, the same way labels are stored.
func Parse(s string) (Dosha, error) {
	for _, d := range Order {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDosha, s)
}

// Valid reports whether d is one of the three labels.
func (d Dosha) Valid() bool {
	_, err := Parse(string(d))
	return err == nil
}

func (d Dosha) String() string { return string(d) }

// Answers maps question index to the chosen dosha. Each question holds at most
// one answer; answering again replaces the previous choice.
type Answers map[int]Dosha

// Set records the answer for question i.
func (a Answers) Set(i int, d Dosha) error {
	if i < 0 || i >= QuestionCount {
		return fmt.Errorf("%w: %d", ErrQuestionRange, i)
	}
	if !d.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDosha, d)
	}
	a[i] = d
	return nil
}

// Complete reports whether every question has been answered.
func (a Answers) Complete() bool {
	for i := 0; i < QuestionCount; i++ {
		if _, ok := a[i]; !ok {
			return false
		}
	}
	return true
}

// Tally counts the answers per dosha. Invalid entries are ignored.
func (a Answers) Tally() map[Dosha]int {
	counts := make(map[Dosha]int, len(Order))
	for _, d := range Order {
		counts[d] = 0
	}
	for _, d := range a {
		if _, ok := counts[d]; ok {
			counts[d]++
		}
	}
	return counts
}

// Classify returns the dosha with the highest tally. Ties resolve to the
// earliest dosha in Order, so an empty answer set yields Vata.
func Classify(a Answers) Dosha {
	counts := a.Tally()

	best := Order[0]
	for _, d := range Order[1:] {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}
