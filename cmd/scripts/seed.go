package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/config"
	"github.com/MigraSafe/migrasafe-backend/internal/models"
	mongorepo "github.com/MigraSafe/migrasafe-backend/internal/repositories/mongodb"
	"github.com/MigraSafe/migrasafe-backend/pkg/mongodb"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a back-office admin user and, optionally, a demo draw with members and
// entries for local development.
func main() {
	adminEmail := flag.String("admin-email", "admin@migrasafe.io", "Admin user email")
	adminPassword := flag.String("admin-password", "", "Admin user password (required)")
	demo := flag.Bool("demo", false, "Also seed a demo draw with members and entries")
	flag.Parse()

	if *adminPassword == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -admin-password <password> [-admin-email <email>] [-demo]")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB.Database)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	adminRepo := mongorepo.NewAdminUserRepository(db)
	if existing, err := adminRepo.FindByEmail(ctx, *adminEmail); err == nil && existing != nil {
		log.Printf("Admin user %s already exists, skipping", *adminEmail)
	} else {
		admin := &models.AdminUser{
			Email:    *adminEmail,
			Password: string(hash),
			Role:     "admin",
		}
		if err := adminRepo.Create(ctx, admin); err != nil {
			log.Fatalf("Failed to create admin user: %v", err)
		}
		log.Printf("Created admin user %s", *adminEmail)
	}

	if !*demo {
		return
	}

	memberRepo := mongorepo.NewMemberRepository(db)
	membershipRepo := mongorepo.NewMembershipRepository(db)
	entryRepo := mongorepo.NewEntryRepository(db)
	drawRepo := mongorepo.NewDrawRepository(db)
	prizeRepo := mongorepo.NewPrizeRepository(db)

	draw := &models.PrizeDraw{
		Country:            "GB",
		ScheduledAt:        time.Now().Add(5 * time.Minute),
		Status:             models.DrawStatusActive,
		EstimatedPoolSize:  20,
		EstimatedPrizeFund: 500,
	}
	if err := drawRepo.Create(ctx, draw); err != nil {
		log.Fatalf("Failed to create demo draw: %v", err)
	}

	prize := &models.Prize{
		DrawID:          draw.ID,
		Name:            "Monthly cash prize",
		Value:           100,
		AwardType:       models.AwardTypeRandomDraw,
		NumberOfWinners: 3,
		Active:          true,
	}
	if err := prizeRepo.Create(ctx, prize); err != nil {
		log.Fatalf("Failed to create demo prize: %v", err)
	}

	for i := 0; i < 20; i++ {
		member := &models.Member{
			Email:        fmt.Sprintf("member%02d@example.com", i),
			FullName:     fmt.Sprintf("Demo Member %02d", i),
			Country:      "GB",
			Role:         models.MemberRoleMember,
			ReadyToClaim: i%4 != 0, // leave some members unverified
		}
		if !member.ReadyToClaim {
			member.MissingRequirements = []string{"proof of address"}
		}
		if err := memberRepo.Create(ctx, member); err != nil {
			log.Fatalf("Failed to create demo member: %v", err)
		}

		membership := &models.Membership{
			UserID:  member.ID,
			Status:  models.MembershipStatusActive,
			EndDate: time.Now().AddDate(1, 0, 0),
		}
		if err := membershipRepo.Create(ctx, membership); err != nil {
			log.Fatalf("Failed to create demo membership: %v", err)
		}

		entry := &models.PrizeDrawEntry{
			DrawID:       draw.ID,
			UserID:       member.ID,
			MembershipID: membership.ID,
			EnteredAt:    time.Now(),
		}
		if _, err := entryRepo.Ensure(ctx, entry); err != nil {
			log.Fatalf("Failed to create demo entry: %v", err)
		}
	}

	log.Printf("Seeded demo draw %s with 1 prize and 20 entries", draw.ID.Hex())
}
