package service

import (
	"context"
	"testing"
	"time"

	perr "vaani/internal/platform/errors"
	"vaani/internal/services/analytics/domain"

	"github.com/rs/zerolog"
)

type fakeStorage struct {
	memWriter
	gotWindow domain.Window
}

func (f *fakeStorage) IntentCounts(_ context.Context, w domain.Window) ([]domain.IntentCount, error) {
	f.gotWindow = w
	return []domain.IntentCount{{Intent: "weather", Count: 3, AvgConfidence: 0.9}}, nil
}

func (f *fakeStorage) LanguageCounts(_ context.Context, w domain.Window) ([]domain.LanguageCount, error) {
	f.gotWindow = w
	return []domain.LanguageCount{{Language: "hi", Count: 2}}, nil
}

func TestService(t *testing.T) {
	st := &fakeStorage{}
	s := New(st, NewRecorder(st, RecorderConfig{Batch: 10, Every: time.Hour}, zerolog.Nop()), Config{MaxWindow: 48 * time.Hour})

	until := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	ok := domain.Window{Since: until.Add(-24 * time.Hour), Until: until}
	if rows, err := s.IntentCounts(context.Background(), ok); err != nil || rows[0].Intent != "weather" || st.gotWindow != ok {
		t.Fatalf("IntentCounts = %+v, %v", rows, err)
	}
	if rows, err := s.LanguageCounts(context.Background(), ok); err != nil || rows[0].Language != "hi" {
		t.Fatalf("LanguageCounts = %+v, %v", rows, err)
	}

	bad := []domain.Window{
		{Since: until, Until: until},
		{Since: until.Add(-72 * time.Hour), Until: until},
	}
	for _, w := range bad {
		if _, err := s.IntentCounts(context.Background(), w); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("window %+v err = %v", w, err)
		}
	}

	if err := s.Record(context.Background(), ev("timer")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if st.total() != 1 {
		t.Fatalf("record not flushed on close")
	}
}
