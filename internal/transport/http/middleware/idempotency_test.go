package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"kra360/internal/domain/auth"
)

type idemRow struct {
	hash   string
	status int
	body   json.RawMessage
}

type fakeIdemDB struct {
	rows map[string]idemRow
}

type fakeIdemScan struct {
	row idemRow
	err error
}

func (s fakeIdemScan) Scan(dest ...any) error {
	if s.err != nil {
		return s.err
	}
	*(dest[0].(*string)) = s.row.hash
	*(dest[1].(*int)) = s.row.status
	*(dest[2].(*json.RawMessage)) = s.row.body
	return nil
}

func (f *fakeIdemDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if !strings.Contains(sql, "INSERT INTO idempotency_keys") {
		return pgconn.CommandTag{}, errors.New("unexpected statement")
	}
	k := args[0].(string) + "|" + args[1].(string) + "|" + args[2].(string)
	if existing, ok := f.rows[k]; ok && existing.hash != args[3].(string) {
		return pgconn.NewCommandTag("INSERT 0 0"), nil
	}
	f.rows[k] = idemRow{hash: args[3].(string), status: args[4].(int), body: args[5].(json.RawMessage)}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeIdemDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	row, ok := f.rows[args[0].(string)+"|"+args[1].(string)+"|"+args[2].(string)]
	if !ok {
		return fakeIdemScan{err: pgx.ErrNoRows}
	}
	return fakeIdemScan{row: row}
}

func TestRequestHashDeterministic(t *testing.T) {
	hash1 := RequestHash([]byte("payload"))
	hash2 := RequestHash([]byte("payload"))
	hash3 := RequestHash([]byte("other"))

	if hash1 != hash2 {
		t.Fatal("expected deterministic hash")
	}
	if hash1 == hash3 {
		t.Fatal("expected different hash for different payload")
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := NewIdempotencyStore(&fakeIdemDB{rows: map[string]idemRow{}})
	var calls atomic.Int32
	handler := Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"g-1"}}`))
	}))
	ctx := viewerContext(t, auth.Identity{ID: "e-1", Role: auth.RoleEmployee})

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/goals", bytes.NewBufferString(body)).WithContext(ctx)
		req.Header.Set(IdempotencyHeader, "key-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send(`{"goalName":"a"}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}
	replay := send(`{"goalName":"a"}`)
	if replay.Code != http.StatusCreated || replay.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replayed 201, got %d", replay.Code)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls.Load())
	}

	conflict := send(`{"goalName":"b"}`)
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused key, got %d", conflict.Code)
	}
}

func TestIdempotencySkipsWithoutKeyOrStore(t *testing.T) {
	var calls atomic.Int32
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := viewerContext(t, auth.Identity{ID: "e-1", Role: auth.RoleEmployee})

	withStore := Idempotency(NewIdempotencyStore(&fakeIdemDB{rows: map[string]idemRow{}}))(inner)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/goals", bytes.NewBufferString(`{}`)).WithContext(ctx)
		withStore.ServeHTTP(httptest.NewRecorder(), req)
	}
	withoutStore := Idempotency(nil)(inner)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/goals", bytes.NewBufferString(`{}`)).WithContext(ctx)
	req.Header.Set(IdempotencyHeader, "key-1")
	withoutStore.ServeHTTP(httptest.NewRecorder(), req)

	if calls.Load() != 3 {
		t.Fatalf("expected every request to reach the handler, got %d", calls.Load())
	}
}
