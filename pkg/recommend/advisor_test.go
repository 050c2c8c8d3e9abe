package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/sensor"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/storage"
)

type fakeRequester struct {
	diets    []DietRequest
	predicts []PredictRequest
	raw      json.RawMessage
	err      error
}

func (f *fakeRequester) Diet(_ context.Context, req DietRequest) (json.RawMessage, error) {
	f.diets = append(f.diets, req)
	return f.raw, f.err
}

func (f *fakeRequester) Predict(_ context.Context, req PredictRequest) (json.RawMessage, error) {
	f.predicts = append(f.predicts, req)
	return f.raw, f.err
}

type staticReading struct {
	r  sensor.Reading
	ok bool
}

func (s staticReading) LastReading() (sensor.Reading, bool) { return s.r, s.ok }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAdvisor_DietUsesPersistedLabels(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_ = store.Set(ctx, storage.KeyDosha, "Pitta")
	_ = store.Set(ctx, storage.KeyCondition, "Sleep apnea")

	req := &fakeRequester{raw: json.RawMessage(`{"recommendation_text":"ok"}`)}
	a := NewAdvisor(ModeDiet, req, store, nil, "", discard())

	st, err := a.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(req.diets) != 1 {
		t.Fatalf("Diet called %d times, want 1", len(req.diets))
	}
	if req.diets[0] != (DietRequest{Dosha: "Pitta", Disorder: "Sleep apnea"}) {
		t.Errorf("request = %+v", req.diets[0])
	}
	if st.Error != "" || string(st.Result) != `{"recommendation_text":"ok"}` {
		t.Errorf("state = %+v", st)
	}
	if st.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestAdvisor_DietUnknownFallback(t *testing.T) {
	req := &fakeRequester{raw: json.RawMessage(`{}`)}
	a := NewAdvisor(ModeDiet, req, storage.NewMemoryStore(), nil, "", discard())

	if _, err := a.Generate(context.Background()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if req.diets[0].Dosha != Unknown || req.diets[0].Disorder != Unknown {
		t.Errorf("request = %+v, want Unknown labels", req.diets[0])
	}
}

func TestAdvisor_FailureClearsPreviousResult(t *testing.T) {
	ctx := context.Background()
	req := &fakeRequester{raw: json.RawMessage(`{"recommendation_text":"first"}`)}
	a := NewAdvisor(ModeDiet, req, storage.NewMemoryStore(), nil, "", discard())

	if _, err := a.Generate(ctx); err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}

	req.raw = nil
	req.err = &BackendError{StatusCode: 200, Message: "x"}
	st, err := a.Generate(ctx)
	if err == nil {
		t.Fatal("expected error")
	}
	if st.Result != nil {
		t.Errorf("Result = %s, want cleared", st.Result)
	}
	if st.Error != FailureMessage {
		t.Errorf("Error = %q, want %q", st.Error, FailureMessage)
	}
	if got := a.State(); got.Error != FailureMessage || got.Result != nil {
		t.Errorf("State() = %+v", got)
	}

	// a later success clears the message
	req.err = nil
	req.raw = json.RawMessage(`{}`)
	if st, _ = a.Generate(ctx); st.Error != "" {
		t.Errorf("Error = %q after success", st.Error)
	}
}

func TestAdvisor_Predict(t *testing.T) {
	reading := sensor.Reading{
		HeartRateBPM: 62,
		TemperatureC: 36.7,
		Gyro:         sensor.Vector3{X: 1, Y: 2, Z: 3},
		Accel:        sensor.Vector3{X: 9, Y: 9, Z: 9},
	}
	req := &fakeRequester{raw: json.RawMessage(`{"condition":"Normal"}`)}
	a := NewAdvisor(ModePredict, req, storage.NewMemoryStore(), staticReading{r: reading, ok: true}, "s7", discard())

	if _, err := a.Generate(context.Background()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	want := PredictRequest{BVP: 62, AccX: 1, AccY: 2, AccZ: 3, Temp: 36.7, Subject: "s7"}
	if len(req.predicts) != 1 || req.predicts[0] != want {
		t.Errorf("predicts = %+v, want [%+v]", req.predicts, want)
	}
}

func TestAdvisor_PredictWithoutReading(t *testing.T) {
	req := &fakeRequester{}
	a := NewAdvisor(ModePredict, req, storage.NewMemoryStore(), staticReading{}, "", discard())

	st, err := a.Generate(context.Background())
	if !errors.Is(err, ErrNoReading) {
		t.Errorf("error = %v, want ErrNoReading", err)
	}
	if st.Error != FailureMessage {
		t.Errorf("Error = %q", st.Error)
	}
	if len(req.predicts) != 0 {
		t.Error("backend must not be called without a reading")
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"diet", "predict"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("ParseMode(%q) error = %v", s, err)
		}
	}
	if _, err := ParseMode("both"); err == nil {
		t.Error("ParseMode(both) expected error")
	}
}
