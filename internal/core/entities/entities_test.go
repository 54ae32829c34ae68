package entities

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"vaani/internal/core/rulepack"
)

func ptr[T any](v T) *T { return &v }

func ruleNamed(t *testing.T, p *rulepack.Pack, name string) *rulepack.Rule {
	t.Helper()
	for i := range p.Rules {
		if p.Rules[i].Name == name {
			return &p.Rules[i]
		}
	}
	t.Fatalf("rule %q not in pack", name)
	return nil
}

func TestExtract_Table(t *testing.T) {
	x := New(rulepack.MustLoad())

	tests := []struct {
		in   string
		want Entities
	}{
		{"Turn on the lights", Entities{Device: "light", State: ptr(true)}},
		{"Turn off the fan in the bedroom", Entities{Location: "bedroom", Device: "fan", State: ptr(false)}},
		{"bedroom ka fan chalao", Entities{Location: "bedroom", Device: "fan", State: ptr(true)}},
		{"Set timer for 5 minutes", Entities{Numbers: []int{5}, Value: ptr(5), Duration: ptr(300)}},
		{"set a timer for 2 hours 30 minutes", Entities{Numbers: []int{2, 30}, Duration: ptr(9000)}},
		{"wake me up at 7:30 am tomorrow", Entities{Date: "tomorrow", Time: "7:30 am", Numbers: []int{7, 30}}},
		{"Send a message to Rahul saying I will be late.", Entities{Location: "Rahul", Contact: "Rahul", Message: "I will be late"}},
		{"Priya ko bolo ki main late hoon", Entities{Contact: "Priya", Message: "main late hoon"}},
		{"text Amit message: running late", Entities{Contact: "Amit", Message: "running late"}},
		{"add eggs to my shopping list", Entities{Task: "eggs"}},
		{"Call mom", Entities{Contact: "mom"}},
		{"see you in January", Entities{}},
		{"", Entities{}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := x.Extract(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Extract(%q)\n got  %s\n want %s", tc.in, dump(got), dump(tc.want))
			}
		})
	}
}

func TestExtract_MultiClauseText(t *testing.T) {
	x := New(rulepack.MustLoad())
	got := x.Extract("Book a flight to NYC, find a hotel near Central Park")
	if got.Location != "NYC" {
		t.Fatalf("location = %q, want NYC (first pattern, leftmost match)", got.Location)
	}
	if got.Contact != "" {
		t.Fatalf("all-caps place must not read as a contact: %q", got.Contact)
	}
	if got.Query != "a hotel near Central Park" {
		t.Fatalf("query = %q", got.Query)
	}
}

func TestExtractFor_LimitsKinds(t *testing.T) {
	p := rulepack.MustLoad()
	x := New(p)

	got := x.ExtractFor("Call mom at 5", ruleNamed(t, p, "call"))
	want := Entities{Contact: "mom", Numbers: []int{5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("call rule: got %s want %s", dump(got), dump(want))
	}

	got = x.ExtractFor("Set timer for 5 minutes", ruleNamed(t, p, "timer"))
	if got.Duration == nil || *got.Duration != 300 || got.Value == nil || *got.Value != 5 {
		t.Fatalf("timer rule: %s", dump(got))
	}

	// a rule without a list gets every kind
	all := x.ExtractFor("Call mom at 5", ruleNamed(t, p, "joke"))
	if all.Time != "5" {
		t.Fatalf("joke rule should extract all kinds: %s", dump(all))
	}
}

func TestExtract_StateNeedsDevice(t *testing.T) {
	x := New(rulepack.MustLoad())
	if got := x.Extract("stop"); got.State != nil {
		t.Fatalf("state without a device: %s", dump(got))
	}
}

func TestExtract_Idempotent(t *testing.T) {
	x := New(rulepack.MustLoad())
	for _, in := range []string{
		"Book a flight to NYC, find a hotel near Central Park",
		"kal subah 7 baje alarm lagao",
		"मौसम कैसा है",
	} {
		a, b := x.Extract(in), x.Extract(in)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("Extract(%q) not idempotent: %s vs %s", in, dump(a), dump(b))
		}
	}
}

func TestExtract_HugeCountsSaturate(t *testing.T) {
	x := New(rulepack.MustLoad())
	tests := []struct {
		in       string
		numbers  []int
		duration int
	}{
		{"set timer for 9999999999999999 days", []int{9999999999999999}, math.MaxInt},
		{"set timer for 99999999999999999999 minutes", []int{math.MaxInt}, math.MaxInt},
		{"timer 9223372036854775807 hours and 5 minutes", []int{math.MaxInt, 5}, math.MaxInt},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			e := x.Extract(tc.in)
			if !reflect.DeepEqual(e.Numbers, tc.numbers) {
				t.Fatalf("numbers = %v, want %v", e.Numbers, tc.numbers)
			}
			if e.Duration == nil || *e.Duration != tc.duration {
				t.Fatalf("duration = %v, want %d", e.Duration, tc.duration)
			}
		})
	}
}

func TestSaturatingMath(t *testing.T) {
	if n, ok := parseCount("123"); !ok || n != 123 {
		t.Fatalf("parseCount(123) = %d, %v", n, ok)
	}
	if n, ok := parseCount("123456789012345678901234567890"); !ok || n != math.MaxInt {
		t.Fatalf("parseCount(huge) = %d, %v", n, ok)
	}
	if _, ok := parseCount(""); ok {
		t.Fatalf("parseCount(empty) should fail")
	}
	if mulSat(math.MaxInt/2, 3) != math.MaxInt || mulSat(0, 60) != 0 || mulSat(7, 60) != 420 {
		t.Fatalf("mulSat misbehaves")
	}
	if addSat(math.MaxInt, 1) != math.MaxInt || addSat(2, 3) != 5 {
		t.Fatalf("addSat misbehaves")
	}
}

func TestKinds(t *testing.T) {
	e := Entities{Date: "today", Numbers: []int{1}, Value: ptr(1), State: ptr(false)}
	if got := strings.Join(e.Kinds(), ","); got != "date,numbers,value,state" {
		t.Fatalf("Kinds = %s", got)
	}
	if !(Entities{}).Empty() || e.Empty() {
		t.Fatalf("Empty misreports")
	}
}

func dump(e Entities) string {
	b, _ := json.Marshal(e)
	return string(b)
}
