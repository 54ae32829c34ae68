package ch

import (
	"context"
	"testing"
)

func TestInsertSQL(t *testing.T) {
	tests := []struct {
		table string
		cols  []string
		want  string
	}{
		{"nlu_events", []string{"ts", "intent", "language"}, "INSERT INTO nlu_events (ts, intent, language)"},
		{"nlu_events", nil, "INSERT INTO nlu_events"},
	}
	for _, tc := range tests {
		if got := InsertSQL(tc.table, tc.cols); got != tc.want {
			t.Fatalf("InsertSQL = %q, want %q", got, tc.want)
		}
	}
}

func TestOpen_BadDSN(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "clickhouse://host:9000/db?dial_timeout=notaduration"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestBuildClientInfo(t *testing.T) {
	ci := BuildClientInfo(" vaani-api ", "")
	if len(ci.Products) != 5 {
		t.Fatalf("products = %d", len(ci.Products))
	}
	if ci.Products[0].Name != "vaani" || ci.Products[0].Version != "dev" {
		t.Fatalf("first product = %+v", ci.Products[0])
	}
	if ci.Products[1].Version != "vaani-api" {
		t.Fatalf("role not trimmed: %q", ci.Products[1].Version)
	}
}
