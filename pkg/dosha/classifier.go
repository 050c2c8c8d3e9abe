package dosha

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/storage"
)

// Classifier finalizes quizzes and persists the result under storage.KeyDosha.
type Classifier struct {
	store  storage.Store
	logger *slog.Logger
}

// NewClassifier creates a Classifier writing to store.
func NewClassifier(store storage.Store, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{store: store, logger: logger}
}

// Finalize classifies a complete answer set and persists the label.
// The returned dosha is valid even when persisting fails; a write that did
// happen is never rolled back.
func (c *Classifier) Finalize(ctx context.Context, answers Answers) (Dosha, error) {
	if !answers.Complete() {
		return "", fmt.Errorf("%w: %d of %d answered", ErrIncomplete, len(answers), QuestionCount)
	}

	d := Classify(answers)
	if err := c.store.Set(ctx, storage.KeyDosha, d.String()); err != nil {
		return d, fmt.Errorf("persist dosha: %w", err)
	}

	c.logger.Info("quiz classified", "dosha", d, "tally", answers.Tally())
	return d, nil
}

// Current returns the persisted dosha, if one is stored and valid.
func (c *Classifier) Current(ctx context.Context) (Dosha, bool, error) {
	v, ok, err := c.store.Get(ctx, storage.KeyDosha)
	if err != nil || !ok {
		return "", false, err
	}
	d, err := Parse(v)
	if err != nil {
		return "", false, nil
	}
	return d, true, nil
}
