package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"zeko/internal/config"
	"zeko/internal/database"
	"zeko/internal/logger"
	"zeko/internal/models"
	"zeko/internal/repository"
	"zeko/internal/search"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	bookingsCount = flag.Int("bookings", 500, "Number of random bookings to generate")
	usersCount    = flag.Int("users", 50, "Number of random users to generate")
	weeks         = flag.Int("weeks", 4, "Spread bookings over this many past weeks")
	seed          = flag.Int64("seed", 0, "Random seed (0 = current time)")
	dryRun        = flag.Bool("dry-run", false, "Show what would be generated without making changes")
	adminPassword = flag.String("admin-password", "admin", "Password of admin@zeko.com")
)

// concertSeed описывает концерт и его билеты; email клиента видит только этот концерт
type concertSeed struct {
	name        string
	clientEmail string
	password    string
	tickets     []ticketSeed
}

type ticketSeed struct {
	name      string
	price     int64
	available int64
}

var concertSeeds = []concertSeed{
	{
		name:        "Mazzika",
		clientEmail: "mazzika@zeko.com",
		password:    "mazzika",
		tickets: []ticketSeed{
			{name: "VIP", price: 1000, available: 100},
			{name: "Regular", price: 250, available: 500},
			{name: "Backstage", price: 3000, available: 20},
		},
	},
	{
		name:        "Yatch Festival",
		clientEmail: "yatch@zeko.com",
		password:    "yatch",
		tickets: []ticketSeed{
			{name: "Deck", price: 400, available: 40},
			{name: "Cabin", price: 1500, available: 12},
		},
	},
}

type Generator struct {
	repos  *repository.Repositories
	es     *search.ElasticsearchClient
	rng    *rand.Rand
	now    time.Time
	runID  string
	dryRun bool
}

func main() {
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	slog.Info("Starting sales data generator...")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	var esClient *search.ElasticsearchClient
	if cfg.Elasticsearch.Enabled() {
		esClient, err = search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			slog.Error("Failed to connect to Elasticsearch", "error", err)
			os.Exit(1)
		}
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}

	generator := &Generator{
		repos:  repository.NewRepositories(db),
		es:     esClient,
		rng:    rand.New(rand.NewSource(s)),
		now:    time.Now().In(cfg.Location()),
		runID:  uuid.New().String()[:8],
		dryRun: *dryRun,
	}

	if err := generator.Run(context.Background()); err != nil {
		slog.Error("Failed to generate data", "error", err)
		os.Exit(1)
	}

	slog.Info("Data generation completed successfully!", "seed", s, "run_id", generator.runID)
}

func hashPassword(password string) string {
	hash := sha256.Sum256([]byte(password))
	return fmt.Sprintf("%x", hash)
}

func (g *Generator) Run(ctx context.Context) error {
	if g.dryRun {
		slog.Info("[DRY RUN] Would generate data",
			"concerts", len(concertSeeds),
			"users", *usersCount,
			"bookings", *bookingsCount,
			"weeks", *weeks)
		return nil
	}

	if err := g.repos.Clients.Upsert(ctx, &models.Client{
		Email:        "admin@zeko.com",
		PasswordHash: hashPassword(*adminPassword),
		IsActive:     true,
	}); err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}

	var tickets []models.Ticket
	for _, cs := range concertSeeds {
		concert := &models.Concert{ConcertName: cs.name}
		if err := g.repos.ConcertStore.Create(ctx, concert); err != nil {
			return fmt.Errorf("failed to create concert %q: %w", cs.name, err)
		}

		if g.es != nil {
			if err := g.es.IndexConcert(ctx, concert); err != nil {
				return fmt.Errorf("failed to index concert %q: %w", cs.name, err)
			}
		}

		concertID := concert.ID
		if err := g.repos.Clients.Upsert(ctx, &models.Client{
			Email:        cs.clientEmail,
			PasswordHash: hashPassword(cs.password),
			ConcertID:    &concertID,
			IsActive:     true,
		}); err != nil {
			return fmt.Errorf("failed to create client %q: %w", cs.clientEmail, err)
		}

		for _, ts := range cs.tickets {
			ticket := &models.Ticket{
				ConcertID:         concert.ID,
				TicketName:        ts.name,
				Price:             models.NumberFromInt(ts.price),
				AvailableQuantity: ts.available,
			}
			if err := g.repos.Tickets.Create(ctx, ticket); err != nil {
				return fmt.Errorf("failed to create ticket %q: %w", ts.name, err)
			}
			tickets = append(tickets, *ticket)
		}

		slog.Info("Generated concert", "concert_id", concert.ID, "name", cs.name, "tickets", len(cs.tickets))
	}

	userIDs := make([]int64, 0, *usersCount)
	for i := 0; i < *usersCount; i++ {
		user := &models.User{
			Email:     fmt.Sprintf("user-%s-%d@example.com", g.runID, i),
			FirstName: fmt.Sprintf("User%d", i),
			Surname:   "Generated",
		}
		if err := g.repos.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		userIDs = append(userIDs, user.UserID)
	}

	bookings := randomBookings(g.rng, tickets, userIDs, g.now, *weeks, *bookingsCount)
	for i := range bookings {
		if err := g.repos.Bookings.Create(ctx, &bookings[i]); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
	}

	slog.Info("Generated bookings", "count", len(bookings), "users", len(userIDs))
	return nil
}

// randomBookings создает бронирования вразнобой со строковыми и числовыми
// суммами и количествами, как их присылает upstream
func randomBookings(rng *rand.Rand, tickets []models.Ticket, userIDs []int64, now time.Time, weeks, count int) []models.Booking {
	if len(tickets) == 0 || count <= 0 {
		return nil
	}
	if weeks < 1 {
		weeks = 1
	}

	byConcert := make(map[string][]models.Ticket)
	var concerts []models.ID
	for _, t := range tickets {
		key := t.ConcertID.Canonical()
		if _, ok := byConcert[key]; !ok {
			concerts = append(concerts, t.ConcertID)
		}
		byConcert[key] = append(byConcert[key], t)
	}

	span := time.Duration(weeks) * 7 * 24 * time.Hour
	bookings := make([]models.Booking, 0, count)
	for i := 0; i < count; i++ {
		concertID := concerts[rng.Intn(len(concerts))]
		catalog := byConcert[concertID.Canonical()]

		var items models.LineItems
		total := decimal.Zero
		for n := rng.Intn(2) + 1; n > 0; n-- {
			t := catalog[rng.Intn(len(catalog))]
			qty := int64(rng.Intn(4) + 1)
			price, _ := t.Price.Decimal()
			total = total.Add(price.Mul(decimal.NewFromInt(qty)))

			quantity := models.NumberFromInt(qty)
			if rng.Intn(2) == 0 {
				quantity = models.NumberFromString(fmt.Sprint(qty))
			}
			items = append(items, models.LineItem{TicketID: t.ID, Quantity: quantity})
		}

		b := models.Booking{
			Status:    rng.Intn(100) < 70,
			ConcertID: concertID,
			CreatedAt: now.Add(-time.Duration(rng.Int63n(int64(span)))),
			LineItems: items,
		}

		switch rng.Intn(10) {
		case 0:
			// мусор вместо суммы встречается в реальных данных
			b.Total = models.NumberFromString("n/a")
		case 1, 2, 3:
			b.Total = models.NumberFromDecimal(total)
		default:
			b.Total = models.NumberFromString(total.StringFixed(2))
		}

		if len(userIDs) > 0 {
			id := userIDs[rng.Intn(len(userIDs))]
			b.UserID = &id
		}

		bookings = append(bookings, b)
	}
	return bookings
}
