package pipeline

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"vaani/internal/core/intent"
	"vaani/internal/core/rulepack"
)

var fixed = time.Date(2024, 3, 9, 10, 30, 0, 0, time.FixedZone("IST", 19800))

func newPipeline() *Pipeline {
	return New(rulepack.MustLoad(), WithClock(func() time.Time { return fixed }))
}

func TestProcess_Scenarios(t *testing.T) {
	p := newPipeline()

	t.Run("time in english", func(t *testing.T) {
		r := p.Process("What time is it?")
		if r.Intent != "time_date" || r.Language != "en" {
			t.Fatalf("got %s/%s", r.Intent, r.Language)
		}
	})

	t.Run("weather in hinglish", func(t *testing.T) {
		r := p.Process("Mausam kaisa hai?")
		if r.Intent != "weather" || r.Language != "hi" {
			t.Fatalf("got %s/%s", r.Intent, r.Language)
		}
	})

	t.Run("devanagari script", func(t *testing.T) {
		tests := []struct{ in, want string }{
			{"मौसम कैसा है?", "weather"},
			{"आज का मौसम क्या है", "weather"},
			{"कितने बजे हैं", "time_date"},
			{"लाइट चालू करो", "control_device"},
			{"पंखा बंद करो", "control_device"},
			{"माँ को फोन करो", "call"},
			{"पाँच मिनट का टाइमर लगाओ", "timer"},
		}
		for _, tc := range tests {
			r := p.Process(tc.in)
			if r.Intent != tc.want || r.Language != "hi" || r.Confidence <= 0 {
				t.Fatalf("Process(%q) = %s/%s/%v, want %s/hi", tc.in, r.Intent, r.Language, r.Confidence, tc.want)
			}
		}
	})

	t.Run("device control", func(t *testing.T) {
		r := p.Process("Turn on the lights")
		if r.Intent != "control_device" {
			t.Fatalf("intent = %s", r.Intent)
		}
		if r.Entities.Device != "light" || r.Entities.State == nil || !*r.Entities.State {
			t.Fatalf("entities = %+v", r.Entities)
		}
	})

	t.Run("timer duration", func(t *testing.T) {
		r := p.Process("Set timer for 5 minutes")
		if r.Intent != "timer" {
			t.Fatalf("intent = %s", r.Intent)
		}
		if !reflect.DeepEqual(r.Entities.Numbers, []int{5}) {
			t.Fatalf("numbers = %v", r.Entities.Numbers)
		}
		if r.Entities.Duration == nil || *r.Entities.Duration != 300 {
			t.Fatalf("duration = %v", r.Entities.Duration)
		}
	})

	t.Run("multi intent", func(t *testing.T) {
		r := p.Process("Book a flight to NYC, find a hotel near Central Park")
		if r.Intent != rulepack.IntentMulti || !r.Multi() {
			t.Fatalf("intent = %s", r.Intent)
		}
		if r.Confidence != 0.85 {
			t.Fatalf("confidence = %v", r.Confidence)
		}
		if len(r.Intents) != 2 || r.Intents[0].Intent != "schedule" || r.Intents[1].Intent != "search" {
			t.Fatalf("clauses = %+v", r.Intents)
		}
		if r.Intents[0].Text != "Book a flight to NYC" {
			t.Fatalf("clause text = %q", r.Intents[0].Text)
		}
		if r.Entities.Location != "NYC" {
			t.Fatalf("whole-text location = %q", r.Entities.Location)
		}
	})

	t.Run("empty", func(t *testing.T) {
		r := p.Process("")
		b, err := json.Marshal(r)
		if err != nil {
			t.Fatal(err)
		}
		want := `{"text":"","intent":"unknown","entities":{},"confidence":0}`
		if string(b) != want {
			t.Fatalf("empty result = %s, want %s", b, want)
		}
	})
}

func TestProcess_Timestamp(t *testing.T) {
	r := newPipeline().Process("hello")
	if r.Timestamp != "2024-03-09T05:00:00Z" {
		t.Fatalf("timestamp = %q", r.Timestamp)
	}
	if _, err := time.Parse(time.RFC3339, r.Timestamp); err != nil {
		t.Fatalf("timestamp not RFC 3339: %v", err)
	}
}

func TestProcess_SingleKnownClauseFallsThrough(t *testing.T) {
	r := newPipeline().Process("set a timer for 2 hours and 30 minutes")
	if r.Intent != "timer" || r.Intents != nil {
		t.Fatalf("got %s with %d clauses", r.Intent, len(r.Intents))
	}
	if r.Entities.Duration == nil || *r.Entities.Duration != 9000 {
		t.Fatalf("duration = %v", r.Entities.Duration)
	}
}

func TestProcess_MultiSkipsUnknownClauses(t *testing.T) {
	r := newPipeline().Process("Turn on the lights and blah blah, play some music")
	if !r.Multi() || len(r.Intents) != 2 {
		t.Fatalf("got %s with clauses %+v", r.Intent, r.Intents)
	}
	if r.Intents[0].Intent != "control_device" || r.Intents[1].Intent != "play_music" {
		t.Fatalf("clauses = %+v", r.Intents)
	}
	if r.Intents[0].Entities.Device != "light" {
		t.Fatalf("clause entities = %+v", r.Intents[0].Entities)
	}
}

func TestProcess_Fallback(t *testing.T) {
	r := newPipeline().Process("hotel")
	if r.Intent != "search" || r.Source != intent.SourceKeyword || r.Confidence != 0.7 {
		t.Fatalf("got %+v", r)
	}
}

func TestProcess_Deterministic(t *testing.T) {
	p := newPipeline()
	for _, in := range []string{
		"What time is it?",
		"Book a flight to NYC, find a hotel near Central Park",
		"kal subah 7 baje alarm lagao",
		"मौसम कैसा है",
	} {
		a, b := p.Process(in), p.Process(in)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("Process(%q) differs:\n%+v\n%+v", in, a, b)
		}
	}
}

func TestProcess_Total(t *testing.T) {
	p := newPipeline()
	inputs := []string{
		"", " ", "\t\n", "12345", "???", ",,,", "and and and",
		string([]byte{0xff, 0xfe, 0xfd}),
		"\x00\x01\x02",
		"मौसम कैसा है", "😀😀", "ＴＵＲＮ ＯＮ ＴＨＥ ＬＩＧＨＴＳ",
		"call 99999999999999999999999999",
	}
	for _, in := range inputs {
		r := p.Process(in)
		if r.Intent == "" {
			t.Fatalf("Process(%q) returned no intent", in)
		}
		if r.Confidence < 0 || r.Confidence > 1 {
			t.Fatalf("Process(%q) confidence = %v", in, r.Confidence)
		}
		if _, err := json.Marshal(r); err != nil {
			t.Fatalf("Process(%q) result does not marshal: %v", in, err)
		}
	}
}

func TestProcess_DefaultLanguage(t *testing.T) {
	p := newPipeline()
	if got := p.Language("12345"); got.Code != "en" || got.Confidence != 0 {
		t.Fatalf("Language(12345) = %+v", got)
	}
}

func TestProcess_TieBreak(t *testing.T) {
	pk, err := rulepack.Compile(rulepack.Raw{
		Version: rulepack.Version,
		Scoring: rulepack.RawScoring{Base: 0.95, DecayStep: 0.02, FallbackConfidence: 0.7, MultiConfidence: 0.85},
		Intents: []rulepack.RawIntent{
			{Name: "alpha", Pattern: `\bboth\b`, Priority: 3},
			{Name: "beta", Pattern: `\bboth\b`, Priority: 3},
		},
		Languages: []rulepack.RawLanguage{{Code: "en", StrongWeight: 3, CommonWeight: 1}},
		Entities:  map[string]rulepack.RawKind{},
		Splitter:  rulepack.RawSplitter{Markers: []string{","}},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	p := New(pk)
	if r := p.Process("matches both rules"); r.Intent != "alpha" {
		t.Fatalf("tie-break = %s, want alpha", r.Intent)
	}
}

func TestProcess_Concurrent(t *testing.T) {
	p := newPipeline()
	want := p.Process("Turn off the fan in the bedroom")

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := p.Process("Turn off the fan in the bedroom"); !reflect.DeepEqual(got, want) {
					errs <- fmt.Errorf("concurrent result differs: %+v", got)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
