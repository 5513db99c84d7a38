package service

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/swapmeet/swapmeet/auth"
	"github.com/swapmeet/swapmeet/cockroach"
	"github.com/swapmeet/swapmeet/cockroach/migrator"
	"github.com/swapmeet/swapmeet/id"
	"github.com/swapmeet/swapmeet/types"
)

var (
	testDB        *pgxpool.Pool
	testCockroach *cockroach.Cockroach
)

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	var skipIntegration bool
	flag.BoolVar(&skipIntegration, "skip-integration", false, "Skip integration tests docker setup")
	flag.Parse()

	if skipIntegration || testing.Short() {
		return m.Run()
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		fmt.Printf("could not create docker pool: %v\n", err)
		return 1
	}

	var cleanup func() error
	testDB, cleanup, err = setupTestDB(pool)
	if err != nil {
		fmt.Printf("could not setup test db: %v\n", err)
		return 1
	}
	testCockroach = cockroach.New(testDB)

	if err := migrator.Migrate(context.Background(), testDB, cockroach.MigrationsFS); err != nil {
		fmt.Printf("could not migrate schema: %v\n", err)
		return 1
	}

	defer func() {
		if err := cleanup(); err != nil {
			fmt.Printf("could not cleanup cockroach container: %v\n", err)
		}
	}()

	return m.Run()
}

func setupTestDB(pool *dockertest.Pool) (*pgxpool.Pool, func() error, error) {
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "cockroachdb/cockroach",
		Tag:        "latest",
		Cmd:        []string{"start-single-node", "--insecure"},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not create cockroach resource: %w", err)
	}

	var db *pgxpool.Pool
	err = pool.Retry(func() (err error) {
		hostPort := resource.GetHostPort("26257/tcp")
		db, err = pgxpool.New(context.Background(), "postgresql://root@"+hostPort+"/swapmeet?sslmode=disable")
		if err != nil {
			return fmt.Errorf("could not open db: %w", err)
		}

		// do not close db

		if err = db.Ping(context.Background()); err != nil {
			return fmt.Errorf("could not ping db: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return db, func() error {
		return pool.Purge(resource)
	}, nil
}

func skipIfNoDB(t *testing.T) {
	t.Helper()
	if testCockroach == nil {
		t.Skip("integration tests disabled")
	}
}

func createTestUser(t *testing.T) types.User {
	t.Helper()

	name := "user_" + id.Generate()
	user, err := testCockroach.UpsertUser(context.Background(), types.UpsertUser{
		Email:    name + "@example.com",
		Username: name,
	})
	if err != nil {
		t.Fatalf("could not create test user: %v", err)
	}

	return user
}

func createTestItem(t *testing.T, userID, title string, status types.ItemStatus) types.Item {
	t.Helper()

	item := types.Item{
		ID:     id.Generate(),
		UserID: userID,
		Title:  title,
		Status: status,
	}
	_, err := testDB.Exec(context.Background(), `
		INSERT INTO items (id, user_id, title, status)
		VALUES ($1, $2, $3, $4)
	`, item.ID, item.UserID, item.Title, item.Status)
	if err != nil {
		t.Fatalf("could not create test item: %v", err)
	}

	return item
}

func asUser(user types.User) context.Context {
	return auth.ContextWithUser(context.Background(), user)
}
