package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newID() string { return uuid.New().String() }

func hashPassword(pw string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), 12)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func daysAgo(d int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -d)
}

func randBetween(min, max int) int {
	return min + rand.Intn(max-min+1)
}

func floatPtr(f float64) *float64 { return &f }

// ── main ─────────────────────────────────────────────────────────────────────

func main() {
	_ = godotenv.Load()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "tenderlens"),
		envOr("DB_PASSWORD", "tenderlens"),
		envOr("DB_NAME", "tenderlens"),
		envOr("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}
	fmt.Println("connected to database")

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback(ctx)

	// ── clean up previous seed data ──────────────────────────────────────
	const seedEmail = "seed@tenderlens.dev"
	_, _ = tx.Exec(ctx, `DELETE FROM accounts WHERE email = $1`, seedEmail)
	fmt.Println("cleaned previous seed data")

	// ── 1. account ───────────────────────────────────────────────────────
	accountID := newID()
	createdAt := daysAgo(120)

	_, err = tx.Exec(ctx,
		`INSERT INTO accounts (id, email, name, password_hash, locale, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		accountID, seedEmail, "Selam Construction PLC", hashPassword("password123"), "en", createdAt,
	)
	must(err, "create account")
	fmt.Printf("created account: %s / password123\n", seedEmail)

	// ── 2. company tender profile ────────────────────────────────────────
	profileID := newID()
	_, err = tx.Exec(ctx,
		`INSERT INTO company_tender_profiles (
			id, account_id,
			primary_sector, active_sectors, sub_sectors, preferred_regions, keywords,
			company_size, years_in_operation, certifications, budget_min, budget_max, budget_currency,
			min_match_threshold, scoring_weights,
			discovered_interests, preferred_sources, preferred_languages, min_deadline_days,
			embedding_dirty, completion_percentage, tier1_complete, tier2_complete, onboarding_step,
			created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $25)`,
		profileID, accountID,
		"construction", []string{"construction", "infrastructure"}, []string{"road works", "building works"},
		[]string{"Addis Ababa", "Oromia"}, []string{"road", "asphalt", "bridge", "civil works"},
		"medium", "6-10", []string{"ISO 9001", "Grade 3 Contractor"}, floatPtr(500000), floatPtr(8000000), "ETB",
		0.4, `{"semantic": 0.5, "rule": 0.3, "popularity": 0.2}`,
		[]string{"solar"}, []string{"ethiopian_tender_portal"}, []string{"english", "amharic"}, 5,
		true, 85.0, true, true, 2,
		daysAgo(115),
	)
	must(err, "create company tender profile")
	fmt.Println("created company tender profile")

	// ── 3. tenders ───────────────────────────────────────────────────────
	type tenderDef struct {
		id, title, description, category, region, status string
		budgetMin, budgetMax                              *float64
		deadlineDA                                         int // deadline N days from now (negative = past)
		publishedDA                                        int // days ago published
	}

	tenders := []tenderDef{
		{newID(), "Rehabilitation of Addis Ababa Ring Road Segment 4",
			"The client seeks a qualified civil works contractor to rehabilitate a 12km segment of asphalt road including drainage works.",
			"construction", "Addis Ababa", "published", floatPtr(3500000), floatPtr(5200000), 21, 4},
		{newID(), "Construction of Rural Bridge - Oromia Region",
			"Design and construction of a reinforced concrete bridge spanning the Awash tributary, including approach roads.",
			"construction", "Oromia", "published", floatPtr(1800000), floatPtr(2600000), 35, 10},
		{newID(), "Supply of Office Furniture for Regional Health Bureau",
			"Procurement of desks, chairs, and filing cabinets for newly constructed regional health offices.",
			"supply", "Amhara", "published", floatPtr(90000), floatPtr(150000), 14, 6},
		{newID(), "ICT Infrastructure Upgrade for University Campus",
			"Supply and installation of network switches, fiber backbone, and Wi-Fi access points across three campuses.",
			"ict", "SNNPR", "published", floatPtr(600000), floatPtr(950000), 28, 8},
		{newID(), "Asphalt Resurfacing - Bahir Dar City Roads",
			"Resurfacing of approximately 8km of urban arterial roads with hot-mix asphalt, including line marking.",
			"construction", "Amhara", "published", floatPtr(2100000), floatPtr(3000000), 18, 3},
		{newID(), "Solar Mini-Grid Installation for Rural Kebeles",
			"Design, supply, and installation of solar mini-grids serving five rural kebeles, including community training.",
			"energy", "Tigray", "published", floatPtr(1200000), floatPtr(1900000), 42, 12},
		{newID(), "Water Supply Line Extension - Hawassa",
			"Extension of the municipal water supply network to underserved neighborhoods, including pump station upgrade.",
			"water", "SNNPR", "published", floatPtr(2800000), floatPtr(4100000), 30, 7},
		{newID(), "Consulting Services for Urban Master Plan Review",
			"Engagement of an urban planning consultancy to review and update the city's ten-year master plan.",
			"consulting", "Dire Dawa", "published", floatPtr(400000), floatPtr(650000), 25, 9},
		{newID(), "Renovation of Government Office Complex",
			"General renovation works including roofing, electrical rewiring, and interior finishing of a 4-story office block.",
			"construction", "Addis Ababa", "published", floatPtr(1500000), floatPtr(2200000), 20, 5},
		{newID(), "Supply of Laboratory Equipment for Technical College",
			"Procurement and installation of mechanical and electrical engineering laboratory equipment.",
			"supply", "Oromia", "closed", floatPtr(350000), floatPtr(500000), -5, 40},
		{newID(), "Construction of Community Irrigation Canal",
			"Earthworks and lining of a 6km irrigation canal serving smallholder farms in the Rift Valley.",
			"construction", "Oromia", "published", floatPtr(900000), floatPtr(1400000), 24, 6},
		{newID(), "Draft Tender Under Internal Review",
			"Placeholder description while the procuring entity finalizes scope and budget.",
			"construction", "Addis Ababa", "draft", nil, nil, 60, 1},
	}

	for i, t := range tenders {
		var deadline *time.Time
		if t.deadlineDA != 0 {
			d := time.Now().UTC().AddDate(0, 0, t.deadlineDA)
			deadline = &d
		}
		var publishedAt *time.Time
		if t.status != "draft" {
			p := daysAgo(t.publishedDA)
			publishedAt = &p
		}

		viewCount := randBetween(20, 400)
		saveCount := randBetween(0, viewCount/10+1)
		applyCount := randBetween(0, saveCount/3+1)
		dismissCount := randBetween(0, viewCount/20+1)

		_, err = tx.Exec(ctx,
			`INSERT INTO tenders (
				id, source_url, title, description, category, region,
				budget_min, budget_max, currency, language, deadline, status, published_at,
				view_count, save_count, apply_count, dismiss_count,
				created_at, updated_at
			 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'ETB', 'en', $9, $10, $11, $12, $13, $14, $15, $16, $16)`,
			t.id, fmt.Sprintf("https://tenders.example.et/listing/%d", i+1), t.title, t.description, t.category, t.region,
			t.budgetMin, t.budgetMax, deadline, t.status, publishedAt,
			viewCount, saveCount, applyCount, dismissCount, daysAgo(t.publishedDA),
		)
		must(err, "create tender "+t.title)
	}
	fmt.Printf("created %d tenders\n", len(tenders))

	// ── 4. interactions ──────────────────────────────────────────────────
	type interactionDef struct {
		tenderIdx    int
		kind         string
		weight       float64
		daysAgo      int
		matchScore   *float64
	}

	interactions := []interactionDef{
		{0, "view", 1.0, 4, floatPtr(0.82)},
		{0, "save", 5.0, 4, floatPtr(0.82)},
		{0, "apply", 10.0, 3, floatPtr(0.82)},
		{1, "view", 1.0, 9, floatPtr(0.71)},
		{1, "save", 5.0, 9, floatPtr(0.71)},
		{4, "view", 1.0, 3, floatPtr(0.77)},
		{4, "apply", 10.0, 2, floatPtr(0.77)},
		{6, "view", 1.0, 6, floatPtr(0.58)},
		{6, "dismiss", -5.0, 6, floatPtr(0.58)},
		{8, "view", 1.0, 5, floatPtr(0.64)},
		{8, "save", 5.0, 4, floatPtr(0.64)},
		{10, "view", 1.0, 5, floatPtr(0.69)},
		{2, "view", 1.0, 6, floatPtr(0.31)},
		{2, "dismiss", -5.0, 6, floatPtr(0.31)},
	}

	for _, id := range interactions {
		t := tenders[id.tenderIdx]
		createdAt := daysAgo(id.daysAgo)
		dedupBucket := createdAt.Truncate(time.Hour)

		_, err = tx.Exec(ctx,
			`INSERT INTO user_interactions (
				id, user_id, tender_id, interaction_type, interaction_weight, match_score_at_time,
				tender_category_snapshot, tender_region_snapshot, tender_budget_min_snapshot, tender_budget_max_snapshot,
				dedup_bucket, created_at
			 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 ON CONFLICT (user_id, tender_id, interaction_type, dedup_bucket) DO NOTHING`,
			newID(), accountID, t.id, id.kind, id.weight, id.matchScore,
			t.category, t.region, t.budgetMin, t.budgetMax, dedupBucket, createdAt,
		)
		must(err, "create interaction")
	}
	fmt.Printf("created %d interactions\n", len(interactions))

	// ── commit ───────────────────────────────────────────────────────────
	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}

	fmt.Println("\nseed completed successfully")
	fmt.Printf("  login: %s / password123\n", seedEmail)
	fmt.Println("  note: tender/profile embeddings are not seeded here -- generate them")
	fmt.Println("  through the running API with POST /tenders/{id}/embed and")
	fmt.Println("  POST /recommendations/refresh-profile-embedding.")
}

func must(err error, msg string) {
	if err != nil {
		log.Fatalf("%s: %v", msg, err)
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
