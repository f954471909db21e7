package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andreivolkov/gatechat/internal/auth"
	"github.com/andreivolkov/gatechat/internal/models"
	"github.com/andreivolkov/gatechat/internal/permissions"
	"github.com/andreivolkov/gatechat/internal/snowflake"
)

// Set via -ldflags at build time.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "migrate":
		if hasFlag("--help", os.Args[2:]) {
			fmt.Println("Usage: gatechat-cli migrate")
			fmt.Println()
			fmt.Println("Run database migrations from the migrations/ directory.")
			fmt.Println()
			fmt.Println("Environment:")
			fmt.Println("  DATABASE_URL  PostgreSQL connection string (required)")
			return
		}
		os.Exit(runMigrate())
	case "seed":
		if hasFlag("--help", os.Args[2:]) {
			fmt.Println("Usage: gatechat-cli seed")
			fmt.Println()
			fmt.Println("Seed the database with demo data: 2 users, template roles, an open")
			fmt.Println("channel, a token-gated channel, and token balances.")
			fmt.Println()
			fmt.Println("Environment:")
			fmt.Println("  DATABASE_URL  PostgreSQL connection string (required)")
			return
		}
		os.Exit(runSeed())
	case "health":
		if hasFlag("--help", os.Args[2:]) {
			fmt.Println("Usage: gatechat-cli health")
			fmt.Println()
			fmt.Println("Check if the gatechat server is running.")
			fmt.Println()
			fmt.Println("Environment:")
			fmt.Println("  SERVER_URL  Server base URL (default: http://localhost:8080)")
			return
		}
		os.Exit(runHealth())
	case "version":
		fmt.Printf("gatechat-cli %s\n", version)
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: gatechat-cli <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate  Run database migrations")
	fmt.Println("  seed     Seed demo data (users, channels, roles, balances)")
	fmt.Println("  health   Check if the server is running")
	fmt.Println("  version  Print version info")
	fmt.Println()
	fmt.Println("Run 'gatechat-cli <command> --help' for details on a command.")
}

func hasFlag(flag string, args []string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		fmt.Fprintf(os.Stderr, "error: %s environment variable is required\n", key)
		os.Exit(1)
	}
	return v
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// --- migrate ---

func runMigrate() int {
	dbURL := requireEnv("DATABASE_URL")

	fmt.Println("connecting to database...")
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: migration init failed: %v\n", err)
		return 1
	}
	defer m.Close()

	fmt.Println("running migrations...")
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		fmt.Fprintf(os.Stderr, "error: migration failed: %v\n", err)
		return 1
	}

	v, dirty, _ := m.Version()
	if err == migrate.ErrNoChange {
		fmt.Printf("no new migrations (current version: %d)\n", v)
	} else {
		fmt.Printf("migrations applied (version: %d, dirty: %v)\n", v, dirty)
	}
	return 0
}

// --- seed ---

func permStrings(perms []permissions.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

func runSeed() int {
	dbURL := requireEnv("DATABASE_URL")
	ctx := context.Background()

	fmt.Println("connecting to database...")
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: database connection failed: %v\n", err)
		return 1
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: database ping failed: %v\n", err)
		return 1
	}

	sf, err := snowflake.NewGenerator(0, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: snowflake init failed: %v\n", err)
		return 1
	}

	fmt.Println("hashing passwords...")
	aliceHash, err := auth.HashPassword("password123")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: hashing password: %v\n", err)
		return 1
	}
	bobHash, err := auth.HashPassword("password456")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: hashing password: %v\n", err)
		return 1
	}

	aliceID := sf.Generate().Int64()
	bobID := sf.Generate().Int64()
	loungeID := sf.Generate().Int64()
	vipID := sf.Generate().Int64()

	now := time.Now()

	tx, err := pool.Begin(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: starting transaction: %v\n", err)
		return 1
	}
	defer tx.Rollback(ctx)

	// Users.
	fmt.Println("creating users...")
	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, username, display_name, password_hash, created_at) VALUES ($1,$2,$3,$4,$5), ($6,$7,$8,$9,$10)
		 ON CONFLICT (id) DO NOTHING`,
		aliceID, "alice", "Alice", aliceHash, now,
		bobID, "bob", "Bob", bobHash, now,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating users: %v\n", err)
		return 1
	}

	// Template roles with their fixed IDs.
	fmt.Println("creating template roles...")
	for _, tpl := range models.DefaultTemplateRoles() {
		_, err = tx.Exec(ctx,
			`INSERT INTO roles (id, channel_id, name, permissions, template_type, is_default) VALUES ($1, NULL, $2, $3, $4, true)
			 ON CONFLICT (id) DO NOTHING`,
			tpl.ID, tpl.Name, permStrings(tpl.Permissions), string(tpl.TemplateType),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: creating template role %s: %v\n", tpl.Name, err)
			return 1
		}
	}

	// Channels: one open, one token-gated.
	fmt.Println("creating channels...")
	_, err = tx.Exec(ctx,
		`INSERT INTO channels (id, name, creator_id, max_roles, created_at) VALUES ($1,$2,$3,10,$4), ($5,$6,$7,10,$8)
		 ON CONFLICT (id) DO NOTHING`,
		loungeID, "Demo Lounge", aliceID, now,
		vipID, "VIP Lounge", aliceID, now,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating channels: %v\n", err)
		return 1
	}

	// Activate the five templates in both channels and remember the Owner and
	// Member bindings for role assignments.
	fmt.Println("activating template roles...")
	bindings := map[[2]int64]int64{}
	for _, channelID := range []int64{loungeID, vipID} {
		for _, roleID := range permissions.DefaultTemplateIDs {
			bindingID := sf.Generate().Int64()
			bindings[[2]int64{channelID, roleID}] = bindingID
			_, err = tx.Exec(ctx,
				`INSERT INTO channel_roles (id, channel_id, role_id) VALUES ($1, $2, $3)
				 ON CONFLICT (channel_id, role_id) DO NOTHING`,
				bindingID, channelID, roleID,
			)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: activating role: %v\n", err)
				return 1
			}
		}
	}

	// Subchannels.
	fmt.Println("creating subchannels...")
	generalID := sf.Generate().Int64()
	tradingID := sf.Generate().Int64()
	_, err = tx.Exec(ctx,
		`INSERT INTO subchannels (id, channel_id, name, position) VALUES ($1,$2,'general',0), ($3,$4,'general',0)
		 ON CONFLICT (id) DO NOTHING`,
		generalID, loungeID,
		tradingID, vipID,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating subchannels: %v\n", err)
		return 1
	}

	// Members: alice owns both channels, bob joins the open one.
	fmt.Println("creating members...")
	type membership struct {
		channelID int64
		userID    int64
		roleID    int64
	}
	memberships := []membership{
		{loungeID, aliceID, permissions.TemplateOwnerID},
		{vipID, aliceID, permissions.TemplateOwnerID},
		{loungeID, bobID, permissions.TemplateMemberID},
	}
	for _, ms := range memberships {
		memberID := sf.Generate().Int64()
		_, err = tx.Exec(ctx,
			`INSERT INTO members (id, channel_id, user_id, joined_at) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (channel_id, user_id) DO NOTHING`,
			memberID, ms.channelID, ms.userID, now,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: creating member: %v\n", err)
			return 1
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO member_roles (member_id, channel_role_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			memberID, bindings[[2]int64{ms.channelID, ms.roleID}],
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: assigning role: %v\n", err)
			return 1
		}
	}

	// Token gate on the VIP channel, plus demo balances. Alice clears the
	// gate; bob does not.
	fmt.Println("creating token gate and balances...")
	_, err = tx.Exec(ctx,
		`INSERT INTO token_gates (channel_id, token_symbol, min_balance) VALUES ($1, 'GOLD', 100)
		 ON CONFLICT (channel_id) DO NOTHING`,
		vipID,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating token gate: %v\n", err)
		return 1
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO balances (user_id, token_symbol, amount) VALUES ($1,'GOLD',500), ($2,'GOLD',10)
		 ON CONFLICT (user_id, token_symbol) DO UPDATE SET amount = EXCLUDED.amount`,
		aliceID, bobID,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating balances: %v\n", err)
		return 1
	}

	// Messages.
	fmt.Println("creating messages...")
	_, err = tx.Exec(ctx,
		`INSERT INTO messages (id, subchannel_id, author_id, content, pinned, created_at) VALUES ($1,$2,$3,$4,false,$5), ($6,$7,$8,$9,false,$10)
		 ON CONFLICT (id) DO NOTHING`,
		sf.Generate().Int64(), generalID, aliceID, "Welcome to the Demo Lounge!", now,
		sf.Generate().Int64(), generalID, bobID, "Hey Alice, glad to be here!", now,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating messages: %v\n", err)
		return 1
	}

	if err := tx.Commit(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: committing transaction: %v\n", err)
		return 1
	}

	fmt.Println()
	fmt.Println("seed complete:")
	fmt.Printf("  users:    alice (password: password123), bob (password: password456)\n")
	fmt.Printf("  channels: Demo Lounge (open), VIP Lounge (gated: 100 GOLD)\n")
	fmt.Printf("  balances: alice 500 GOLD, bob 10 GOLD\n")
	fmt.Printf("  messages: 2 messages in Demo Lounge #general\n")
	return 0
}

// --- health ---

func runHealth() int {
	serverURL := envOr("SERVER_URL", "http://localhost:8080")
	url := serverURL + "/health"

	fmt.Printf("checking %s ...\n", url)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("status: %d\n", resp.StatusCode)
	if len(body) > 0 {
		fmt.Printf("body:   %s\n", string(body))
	}

	if resp.StatusCode == http.StatusOK {
		fmt.Println("server is healthy")
		return 0
	}
	fmt.Fprintln(os.Stderr, "server returned non-200 status")
	return 1
}
