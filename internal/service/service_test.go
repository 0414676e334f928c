package service_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"gameday/internal/api/api"
	"gameday/internal/dto"
	"gameday/internal/model"
	"gameday/internal/repo"
	"gameday/internal/service"
	"gameday/internal/stats"
	"gameday/internal/testutil"
)

const (
	testDB         = "gameday_service_test"
	testAdminToken = "test-admin-token"
)

type envelope struct {
	Status string          `json:"status"`
	Error  *dto.Error      `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*ginext.Engine, repo.Repository) {
	t.Helper()

	r := testutil.NewTestRepo(t, testDB)
	log := zerolog.Nop()
	svc := service.NewService(r, &log, nil)
	app := api.NewRouters(&api.Routers{
		Service:    svc,
		AdminToken: testAdminToken,
		MediaDir:   t.TempDir(),
	})
	return app, r
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()

	var env envelope
	testutil.AssertJSON(t, w, &env)
	if env.Status != "ok" {
		t.Fatalf("expected ok envelope, got %s (%+v)", env.Status, env.Error)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("failed to decode data payload: %v", err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var env envelope
	testutil.AssertJSON(t, w, &env)
	if env.Error == nil {
		t.Fatalf("expected error envelope, body: %s", w.Body.String())
	}
	return env.Error.Code
}

func register(t *testing.T, app *ginext.Engine, fio, team string) int64 {
	t.Helper()

	w := httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("POST", "/api/register", dto.RegisterRequest{
		FIO:  fio,
		Team: team,
	}, nil))
	testutil.AssertStatus(t, w, 201)

	var resp dto.RegisterResponse
	decodeData(t, w, &resp)
	return resp.ID
}

func submitResult(t *testing.T, app *ginext.Engine, registrationID int64, gameType string, score int64) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("POST", "/api/game-result", dto.GameResultRequest{
		RegistrationID: registrationID,
		GameType:       gameType,
		Score:          &score,
	}, nil))
	return w
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func testCtx() context.Context {
	return context.Background()
}

func TestRegisterValidation(t *testing.T) {
	app, _ := newTestServer(t)

	tests := []struct {
		name string
		body dto.RegisterRequest
	}{
		{"short fio", dto.RegisterRequest{FIO: "A", Team: "Red"}},
		{"missing team", dto.RegisterRequest{FIO: "Alice"}},
		{"bad email", dto.RegisterRequest{FIO: "Alice", Team: "Red", Email: "not-an-email"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			app.ServeHTTP(w, testutil.MakeRequest("POST", "/api/register", tc.body, nil))
			testutil.AssertStatus(t, w, 400)
		})
	}
}

func TestSubmitResultFlow(t *testing.T) {
	app, _ := newTestServer(t)

	id := register(t, app, "Alice", "Red")

	w := submitResult(t, app, id, model.GameMemo, 42)
	testutil.AssertStatus(t, w, 201)

	var resp dto.GameResultResponse
	decodeData(t, w, &resp)
	if resp.Score != 42 {
		t.Errorf("expected echoed score 42, got %d", resp.Score)
	}

	// Second submission for the same game is rejected.
	w = submitResult(t, app, id, model.GameMemo, 1)
	testutil.AssertStatus(t, w, 409)
	if code := errorCode(t, w); code != dto.AlreadyPlayed {
		t.Errorf("expected %s, got %s", dto.AlreadyPlayed, code)
	}

	w = httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("GET", "/api/played-games?registration_id="+itoa(id), nil, nil))
	testutil.AssertStatus(t, w, 200)

	var played dto.PlayedGamesResponse
	decodeData(t, w, &played)
	if len(played.Games) != 1 || played.Games[0] != model.GameMemo {
		t.Errorf("expected played games [memo], got %v", played.Games)
	}
}

func TestSubmitResultValidation(t *testing.T) {
	app, _ := newTestServer(t)

	id := register(t, app, "Alice", "Red")

	w := submitResult(t, app, id, "chess", 10)
	testutil.AssertStatus(t, w, 400)
	if code := errorCode(t, w); code != dto.InvalidGameType {
		t.Errorf("expected %s, got %s", dto.InvalidGameType, code)
	}

	w = submitResult(t, app, id, model.GameMemo, 5001)
	testutil.AssertStatus(t, w, 400)
	if code := errorCode(t, w); code != dto.ScoreOutOfRange {
		t.Errorf("expected %s, got %s", dto.ScoreOutOfRange, code)
	}

	w = submitResult(t, app, 99999, model.GameMemo, 10)
	testutil.AssertStatus(t, w, 404)
	if code := errorCode(t, w); code != dto.RegistrantNotFound {
		t.Errorf("expected %s, got %s", dto.RegistrantNotFound, code)
	}
}

func TestStatsEndpoints(t *testing.T) {
	app, _ := newTestServer(t)

	// A(Red) memo=10, B(Red) memo=5 + truth_or_myth=3, C(Blue) memo=2.
	a := register(t, app, "A", "Red")
	b := register(t, app, "B", "Red")
	c := register(t, app, "C", "Blue")
	testutil.AssertStatus(t, submitResult(t, app, a, model.GameMemo, 10), 201)
	testutil.AssertStatus(t, submitResult(t, app, b, model.GameMemo, 5), 201)
	testutil.AssertStatus(t, submitResult(t, app, b, model.GameTruthOrMyth, 3), 201)
	testutil.AssertStatus(t, submitResult(t, app, c, model.GameMemo, 2), 201)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("GET", "/api/stats?game_type=memo", nil, nil))
	testutil.AssertStatus(t, w, 200)

	var individual dto.StatsResponse
	decodeData(t, w, &individual)
	wantOrder := []string{"C", "B", "A"}
	if len(individual.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(individual.Entries))
	}
	for i, fio := range wantOrder {
		if individual.Entries[i].FIO != fio {
			t.Errorf("position %d: expected %s, got %s", i, fio, individual.Entries[i].FIO)
		}
	}

	w = httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("GET", "/api/team-total-stats", nil, nil))
	testutil.AssertStatus(t, w, 200)

	var total dto.TeamTotalStatsResponse
	decodeData(t, w, &total)
	if len(total.Entries) != 2 {
		t.Fatalf("expected 2 team entries, got %d", len(total.Entries))
	}
	red := total.Entries[0]
	if red.Team != "Red" || red.GamesPlayed != 2 || red.TotalScore != 8 {
		t.Errorf("expected Red first with 2 games and total 8, got %+v", red)
	}
	blue := total.Entries[1]
	if blue.Team != "Blue" || blue.GamesPlayed != 1 || blue.TotalScore != 2 {
		t.Errorf("expected Blue second with 1 game and total 2, got %+v", blue)
	}

	w = httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("GET", "/api/stats?game_type=bogus", nil, nil))
	testutil.AssertStatus(t, w, 400)
}

func TestAdminAuth(t *testing.T) {
	app, _ := newTestServer(t)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("POST", "/api/admin/reset-results", nil, nil))
	testutil.AssertStatus(t, w, 401)

	w = httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("POST", "/api/admin/reset-results", nil, map[string]string{
		"X-Admin-Token": "wrong",
	}))
	testutil.AssertStatus(t, w, 401)
}

func TestAdminResetResults(t *testing.T) {
	app, _ := newTestServer(t)

	id := register(t, app, "Alice", "Red")
	testutil.AssertStatus(t, submitResult(t, app, id, model.GameMemo, 10), 201)
	testutil.AssertStatus(t, submitResult(t, app, id, model.GameReaction, 2), 201)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("POST", "/api/admin/reset-results", nil, map[string]string{
		"X-Admin-Token": testAdminToken,
	}))
	testutil.AssertStatus(t, w, 200)

	var reset dto.ResetResultsResponse
	decodeData(t, w, &reset)
	if reset.Deleted != 2 {
		t.Errorf("expected 2 deleted results, got %d", reset.Deleted)
	}

	w = httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("GET", "/api/stats", nil, nil))
	testutil.AssertStatus(t, w, 200)

	var individual dto.StatsResponse
	decodeData(t, w, &individual)
	if len(individual.Entries) != 0 {
		t.Errorf("expected empty leaderboard after reset, got %d entries", len(individual.Entries))
	}
}

func TestAdminTeamEndpoints(t *testing.T) {
	app, r := newTestServer(t)
	adminHeaders := map[string]string{"X-Admin-Token": testAdminToken}

	w := httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("POST", "/api/admin/teams", dto.TeamRequest{
		Team: "Red", MediaPath: "Red/congrats.mp4",
	}, adminHeaders))
	testutil.AssertStatus(t, w, 201)

	w = httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("POST", "/api/admin/teams", dto.TeamRequest{
		Team: "Blue",
	}, adminHeaders))
	testutil.AssertStatus(t, w, 201)

	id := register(t, app, "Alice", "Red")

	// Rename onto an existing team conflicts and mutates nothing.
	w = httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("PUT", "/api/admin/teams/Red", dto.TeamRequest{
		Team: "Blue",
	}, adminHeaders))
	testutil.AssertStatus(t, w, 409)
	if code := errorCode(t, w); code != dto.TeamExists {
		t.Errorf("expected %s, got %s", dto.TeamExists, code)
	}

	// A valid rename cascades to registrants.
	w = httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("PUT", "/api/admin/teams/Red", dto.TeamRequest{
		Team: "Crimson",
	}, adminHeaders))
	testutil.AssertStatus(t, w, 200)

	reg, err := r.GetRegistrantByID(testCtx(), id)
	if err != nil {
		t.Fatalf("GetRegistrantByID failed: %v", err)
	}
	if reg.Team != "Crimson" {
		t.Errorf("expected registrant team Crimson after rename, got %s", reg.Team)
	}

	w = httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("DELETE", "/api/admin/teams/Nope", nil, adminHeaders))
	testutil.AssertStatus(t, w, 404)

	w = httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("DELETE", "/api/admin/teams/Crimson", nil, adminHeaders))
	testutil.AssertStatus(t, w, 200)
}

func TestTeamStatsUsesBestMemberScore(t *testing.T) {
	app, _ := newTestServer(t)

	a := register(t, app, "Alice", "Red")
	b := register(t, app, "Bob", "Red")
	testutil.AssertStatus(t, submitResult(t, app, a, model.GameMemo, 50), 201)
	testutil.AssertStatus(t, submitResult(t, app, b, model.GameMemo, 8), 201)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, testutil.MakeRequest("GET", "/api/team-stats?game_type=memo", nil, nil))
	testutil.AssertStatus(t, w, 200)

	var teams dto.TeamStatsResponse
	decodeData(t, w, &teams)
	if len(teams.Entries) != 1 {
		t.Fatalf("expected 1 team entry, got %d", len(teams.Entries))
	}
	want := stats.TeamEntry{Team: "Red", GamesCount: 2, BestScore: 8}
	got := teams.Entries[0]
	if got.Team != want.Team || got.GamesCount != want.GamesCount || got.BestScore != want.BestScore {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
