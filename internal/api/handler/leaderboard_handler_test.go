package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
)

func TestLeaderboardHandler_Rank_Defaults(t *testing.T) {
	stub := &stubLedger{
		rankFn: func(ctx context.Context, period domain.Period, limit int) ([]ports.LeaderboardEntry, error) {
			if period != domain.PeriodAllTime || limit != 0 {
				t.Fatalf("unexpected args: %s %d", period, limit)
			}
			return []ports.LeaderboardEntry{
				{Rank: 1, Ambassador: domain.Ambassador{ID: "amb1", Score: 45}, Score: 45, LastActivity: time.Now()},
				{Rank: 2, Ambassador: domain.Ambassador{ID: "amb3"}, Score: 0},
			}, nil
		},
	}
	handler := NewLeaderboardHandler(stub)

	e, c, rec := newRequest(http.MethodGet, "/v1/leaderboard", "", "")
	serve(e, c, handler.Rank)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp["period"] != "all-time" {
		t.Fatalf("unexpected period: %v", resp["period"])
	}
	entries, _ := resp["entries"].([]any)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if _, ok := entries[1].(map[string]any)["lastActivity"]; ok {
		t.Fatalf("inactive ambassador should carry no lastActivity")
	}
}

func TestLeaderboardHandler_Rank_PeriodAndLimit(t *testing.T) {
	stub := &stubLedger{
		rankFn: func(ctx context.Context, period domain.Period, limit int) ([]ports.LeaderboardEntry, error) {
			if period != domain.PeriodLast7Days || limit != 3 {
				t.Fatalf("unexpected args: %s %d", period, limit)
			}
			return nil, nil
		},
	}
	handler := NewLeaderboardHandler(stub)

	e, c, rec := newRequest(http.MethodGet, "/v1/leaderboard?period=7d&limit=3", "", "")
	serve(e, c, handler.Rank)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp := decode(t, rec); resp["entries"] == nil {
		t.Fatalf("entries must render as an empty array")
	}
}

func TestLeaderboardHandler_Rank_BadQuery(t *testing.T) {
	handler := NewLeaderboardHandler(&stubLedger{})

	for _, target := range []string{
		"/v1/leaderboard?period=yearly",
		"/v1/leaderboard?limit=500",
		"/v1/leaderboard?limit=abc",
	} {
		e, c, rec := newRequest(http.MethodGet, target, "", "")
		serve(e, c, handler.Rank)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestLeaderboardHandler_Ambassador_NotFound(t *testing.T) {
	stub := &stubLedger{
		ambassadorFn: func(ctx context.Context, id string) (*domain.Ambassador, error) {
			return nil, domain.NotFoundError(domain.ErrAmbassadorNotFound)
		},
	}
	handler := NewLeaderboardHandler(stub)

	e, c, rec := newRequest(http.MethodGet, "/v1/ambassadors/ghost", "", "")
	c.SetParamNames("id")
	c.SetParamValues("ghost")
	serve(e, c, handler.Ambassador)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLeaderboardHandler_VerifyScores(t *testing.T) {
	stub := &stubLedger{
		verifyFn: func(ctx context.Context) ([]ports.ScoreDrift, error) {
			return []ports.ScoreDrift{{AmbassadorID: "amb1", Stored: 50, Replayed: 45}}, nil
		},
	}
	handler := NewLeaderboardHandler(stub)

	e, c, rec := newRequest(http.MethodGet, "/v1/admin/scores/verify", "", "u1")
	serve(e, c, handler.VerifyScores)

	resp := decode(t, rec)
	if resp["consistent"] != false {
		t.Fatalf("expected inconsistent report, got %+v", resp)
	}
}

func TestMeHandler_AttachWallet_RefreshesToken(t *testing.T) {
	const wallet = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	stub := &stubLedger{
		attachFn: func(ctx context.Context, userID, w string) (*domain.Ambassador, error) {
			return &domain.Ambassador{ID: userID, DisplayName: "Carol", WalletAddress: w}, nil
		},
		getUserFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{ID: userID, DisplayName: "Carol", WalletAddress: wallet}, nil
		},
	}
	handler := NewMeHandler(stub, stubTokens{})

	e, c, rec := newRequest(http.MethodPut, "/v1/me/wallet", `{"wallet":"`+wallet+`"}`, "u1")
	serve(e, c, handler.AttachWallet)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if resp := decode(t, rec); resp["token"] != "token-u1-ambassador" {
		t.Fatalf("expected refreshed ambassador token, got %v", resp["token"])
	}
}

func TestMeHandler_AttachWallet_InvalidWallet(t *testing.T) {
	handler := NewMeHandler(&stubLedger{}, stubTokens{})

	e, c, rec := newRequest(http.MethodPut, "/v1/me/wallet", `{"wallet":"GSHORT"}`, "u1")
	serve(e, c, handler.AttachWallet)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealth_Readiness(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "reachable", want: http.StatusOK},
		{name: "unreachable", err: errors.New("connection refused"), want: http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewHealthDependenciesHandler("redis", stubPinger{err: tc.err})

			e, c, rec := newRequest(http.MethodGet, "/health/ready", "", "")
			serve(e, c, handler.Readiness)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			deps, _ := decode(t, rec)["dependencies"].(map[string]any)
			if _, ok := deps["redis"]; !ok {
				t.Fatalf("expected redis dependency in report")
			}
		})
	}
}

type stubCircuit struct {
	stubPinger
	state gobreaker.State
}

func (s stubCircuit) State() gobreaker.State { return s.state }

func TestHealth_Readiness_ReportsCircuit(t *testing.T) {
	cases := []struct {
		state gobreaker.State
		want  int
	}{
		{state: gobreaker.StateClosed, want: http.StatusOK},
		{state: gobreaker.StateHalfOpen, want: http.StatusOK},
		{state: gobreaker.StateOpen, want: http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.state.String(), func(t *testing.T) {
			handler := NewHealthDependenciesHandler("mongo", stubCircuit{state: tc.state})

			e, c, rec := newRequest(http.MethodGet, "/health/ready", "", "")
			serve(e, c, handler.Readiness)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			deps, _ := decode(t, rec)["dependencies"].(map[string]any)
			mongo, _ := deps["mongo"].(map[string]any)
			if mongo["circuit"] != tc.state.String() {
				t.Fatalf("expected circuit %q, got %v", tc.state, mongo["circuit"])
			}
		})
	}
}
