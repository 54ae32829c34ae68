package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vaani/internal/modkit/httpkit"
	perr "vaani/internal/platform/errors"
	phttp "vaani/internal/platform/net/http"
	"vaani/internal/services/turns/domain"
	turnshttp "vaani/internal/services/turns/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type fakeQuery struct {
	turn      domain.Turn
	gotLimit  int
	gotSessID string
}

func (f *fakeQuery) Get(_ context.Context, id uuid.UUID) (domain.Turn, error) {
	if id != f.turn.ID {
		return domain.Turn{}, perr.NotFoundf("turn %s not found", id)
	}
	return f.turn, nil
}

func (f *fakeQuery) ListBySession(_ context.Context, sid string, limit int) ([]domain.Turn, error) {
	f.gotSessID, f.gotLimit = sid, limit
	return []domain.Turn{f.turn}, nil
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	} `json:"error"`
}

func serve(t *testing.T, q domain.QueryPort, path string) (int, envelope) {
	t.Helper()
	mux := chi.NewRouter()
	httpkit.MountUnder(phttp.AdaptChi(mux), "/turns", nil, func(r httpkit.Router) { turnshttp.Register(r, q) })
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestList(t *testing.T) {
	q := &fakeQuery{turn: domain.Turn{ID: uuid.New(), SessionID: "s-1", Intent: "timer", Entities: json.RawMessage(`{"duration":300}`)}}
	code, env := serve(t, q, "/turns?session_id=s-1&limit=5")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var out domain.ListResponse
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || out.SessionID != "s-1" || string(out.Turns[0].Entities) != `{"duration":300}` {
		t.Fatalf("out = %+v", out)
	}
	if q.gotLimit != 5 || q.gotSessID != "s-1" {
		t.Fatalf("query args = %q %d", q.gotSessID, q.gotLimit)
	}

	code, env = serve(t, q, "/turns?session_id=s-1&limit=many")
	if code != http.StatusUnprocessableEntity || env.Error.Field != "limit" {
		t.Fatalf("bad limit: %d %+v", code, env.Error)
	}
}

func TestGet(t *testing.T) {
	q := &fakeQuery{turn: domain.Turn{ID: uuid.New(), Intent: "weather"}}

	code, env := serve(t, q, "/turns/"+q.turn.ID.String())
	var got domain.Turn
	if err := json.Unmarshal(env.Data, &got); err != nil || code != http.StatusOK || got.Intent != "weather" {
		t.Fatalf("get = %d %s %v", code, env.Data, err)
	}

	if code, env = serve(t, q, "/turns/"+uuid.NewString()); code != http.StatusNotFound || env.Error.Code != "not_found" {
		t.Fatalf("missing = %d %+v", code, env.Error)
	}
	if code, env = serve(t, q, "/turns/not-a-uuid"); code != http.StatusUnprocessableEntity || env.Error.Field != "id" {
		t.Fatalf("bad id = %d %+v", code, env.Error)
	}
}
