package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"dvg-portal/internal/app"
	"dvg-portal/internal/auth"
	"dvg-portal/internal/catalog"
	"dvg-portal/internal/domain"
	pgstore "dvg-portal/internal/infra/postgres"
	pgmigrations "dvg-portal/internal/infra/postgres/migrations"
	redisstore "dvg-portal/internal/infra/redis"
)

func TestPortalEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	applyMigrations(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	authSvc := auth.NewService(pgstore.NewAccountRepository(pool), redisstore.NewRevoker(redisClient), []byte("integration-secret"))
	service := app.NewPortalService(
		pgstore.NewProfileStore(pool),
		pgstore.NewGameResultStore(pool),
		redisstore.NewLeaderboard(redisClient),
	)

	// Sign up, sign in, resolve the token.
	account, err := authSvc.SignUp(ctx, auth.NewAccount{Username: "anna", Email: "anna@example.com", Password: "parole123"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	session, err := authSvc.SignIn(ctx, "anna@example.com", "parole123")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	resolved, err := authSvc.SessionFromToken(ctx, session.Token)
	if err != nil {
		t.Fatalf("resolve token: %v", err)
	}
	if resolved.ID != account.ID {
		t.Fatalf("token resolved to wrong account")
	}

	// Load the session and play a quiz question.
	stats, err := service.LoadSession(ctx, account.ID, account.Username, domain.NewUserStats())
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if stats.XP != 0 || stats.Level != 1 {
		t.Fatalf("fresh profile expected, got %+v", stats)
	}

	question, err := service.StartQuiz(ctx, account.ID, domain.SubjectMath)
	if err != nil {
		t.Fatalf("start quiz: %v", err)
	}
	outcome, err := service.AnswerQuestion(ctx, account.ID, question.Correct)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !outcome.Correct || outcome.Stats.XP != question.XP {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	// The write to Postgres is async; poll until it lands.
	deadline := time.Now().Add(5 * time.Second)
	for {
		row, err := pgstore.NewProfileStore(pool).Get(ctx, account.ID)
		if err == nil && row.XP == question.XP {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("profile row never reached xp=%d (last: %+v, err=%v)", question.XP, row, err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	// The leaderboard in Redis sees the new score.
	board, err := service.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board.Entries) != 1 || board.Entries[0].UserID != account.ID || board.Entries[0].XP != question.XP {
		t.Fatalf("unexpected leaderboard: %+v", board.Entries)
	}

	// Save a game result and read it back through history.
	saved, err := service.SaveGameResult(ctx, account.ID, catalog.DefaultGameSubjectID, domain.GameResult{
		Score: 84, Accuracy: 90, Streak: 4, LevelReached: 3,
	})
	if err != nil {
		t.Fatalf("save game result: %v", err)
	}
	if !saved {
		t.Fatalf("game result not saved")
	}
	rows, err := service.GameHistory(ctx, account.ID, "subject-sprint", catalog.DefaultGameSubjectID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(rows) != 1 || rows[0].GameKey != "subject-sprint" {
		t.Fatalf("unexpected history: %+v", rows)
	}

	// Sign out revokes the token through Redis.
	if err := authSvc.SignOut(ctx, session.Token); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, err := authSvc.SessionFromToken(ctx, session.Token); err == nil {
		t.Fatalf("token must be rejected after sign-out")
	}
}

func applyMigrations(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "portal", "POSTGRES_PASSWORD": "portalpass", "POSTGRES_DB": "portaldb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://portal:portalpass@%s:%s/portaldb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
