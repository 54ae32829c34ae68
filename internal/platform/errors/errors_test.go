package errors

import (
	"context"
	"encoding/json"
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodePanic, http.StatusInternalServerError},
		{200, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestErrorRendering(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	base := stderrs.New("boom")
	err := WithOp(Wrap(base, ErrorCodeDB, "insert turn"), "turns.repo")
	if got := err.Error(); got != "turns.repo: insert turn: boom" {
		t.Fatalf("Error() = %q", got)
	}
	if !stderrs.Is(err, base) || Root(err) != base {
		t.Fatalf("cause lost")
	}
	e, ok := As(fmt.Errorf("outer: %w", err))
	if !ok || e.Op() != "turns.repo" || e.Code() != ErrorCodeDB {
		t.Fatalf("As through fmt wrap = %+v, %v", e, ok)
	}
}

func TestWithFieldCopies(t *testing.T) {
	orig := InvalidArgf("too many texts")
	withField := WithField(orig, "texts")
	if e, _ := As(orig); e.Field() != "" {
		t.Fatalf("WithField mutated the original")
	}
	if e, _ := As(withField); e.Field() != "texts" {
		t.Fatalf("field = %q", e.Field())
	}
	foreign := stderrs.New("x")
	if WithField(foreign, "f") != foreign {
		t.Fatalf("foreign errors should pass through")
	}
}

func TestCodeOfContext(t *testing.T) {
	if c := CodeOf(context.DeadlineExceeded); c != ErrorCodeTimeout {
		t.Fatalf("deadline code = %v", c)
	}
	if c := CodeOf(fmt.Errorf("wrapped: %w", context.Canceled)); c != ErrorCodeTimeout {
		t.Fatalf("canceled code = %v", c)
	}
	if c := CodeOf(stderrs.New("plain")); c != ErrorCodeUnknown {
		t.Fatalf("plain code = %v", c)
	}
	if IsCode(nil, ErrorCodeUnknown) {
		t.Fatalf("nil has no code")
	}
	err := FromContext(context.DeadlineExceeded, "nlu process")
	if !IsCode(err, ErrorCodeTimeout) || !stderrs.Is(err, context.DeadlineExceeded) {
		t.Fatalf("FromContext = %v", err)
	}
	if FromContext(nil, "x") != nil {
		t.Fatalf("FromContext(nil) should be nil")
	}
}

func TestWireJSON(t *testing.T) {
	status, w := HTTP(Timeoutf("processing exceeded %s", "2s"))
	if status != http.StatusGatewayTimeout {
		t.Fatalf("status = %d", status)
	}
	b, err := json.Marshal(w)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"code":"timeout","message":"processing exceeded 2s"}` {
		t.Fatalf("wire = %s", b)
	}
	if w := WireFrom(stderrs.New("raw")); w.Code != ErrorCodeUnknown || w.Message != "raw" {
		t.Fatalf("foreign wire = %+v", w)
	}
	if status, w := HTTP(nil); status != http.StatusOK || w != (Wire{}) {
		t.Fatalf("HTTP(nil) = %d %+v", status, w)
	}
}

func TestWrapIf(t *testing.T) {
	if WrapIf(nil, ErrorCodeDB, "x") != nil {
		t.Fatalf("WrapIf(nil) should be nil")
	}
	if !IsCode(WrapIf(stderrs.New("x"), ErrorCodeDB, "y"), ErrorCodeDB) {
		t.Fatalf("WrapIf lost the code")
	}
}
