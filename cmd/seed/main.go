package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookit/internal/hostrequests"
	"bookit/internal/seats"
	"bookit/internal/shared/config"
	"bookit/internal/shared/database"
	"bookit/internal/users"
	"bookit/internal/venues"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting BookIt database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db.GetPostgreSQL()); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"venues",
		"host_requests",
		"users",
	}

	gormDB := s.db.GetPostgreSQL()
	for _, table := range tables {
		if err := gormDB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	admin, owner, user, err := s.seedUsers(ctx)
	if err != nil {
		return err
	}
	_ = admin

	approved, pending, err := s.seedHostRequests(ctx, owner)
	if err != nil {
		return err
	}
	_ = pending

	return s.seedVenue(ctx, approved, user)
}

func (s *Seeder) seedUsers(ctx context.Context) (admin, owner, user *users.User, err error) {
	gormDB := s.db.GetPostgreSQL()

	hash := func(password string) (string, error) {
		bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return string(bytes), err
	}

	adminHash, err := hash("admin123")
	if err != nil {
		return nil, nil, nil, err
	}
	ownerHash, err := hash("owner123")
	if err != nil {
		return nil, nil, nil, err
	}
	userHash, err := hash("user123")
	if err != nil {
		return nil, nil, nil, err
	}

	admin = &users.User{
		FirstName: "Ava",
		LastName:  "Admin",
		Email:     "admin@bookit.dev",
		Password:  adminHash,
		Role:      users.RoleAdmin,
	}
	owner = &users.User{
		FirstName: "Omar",
		LastName:  "Owner",
		Email:     "owner@bookit.dev",
		Password:  ownerHash,
		Role:      users.RoleOwner,
	}
	user = &users.User{
		FirstName: "Uma",
		LastName:  "User",
		Email:     "user@bookit.dev",
		Password:  userHash,
		Role:      users.RoleUser,
	}

	for _, u := range []*users.User{admin, owner, user} {
		if err := gormDB.WithContext(ctx).Create(u).Error; err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
		fmt.Printf("  user: %s (%s)\n", u.Email, u.Role)
	}
	return admin, owner, user, nil
}

func (s *Seeder) seedHostRequests(ctx context.Context, owner *users.User) (approved, pending *hostrequests.HostRequest, err error) {
	gormDB := s.db.GetPostgreSQL()

	approvedSeats := seats.Normalize(nil, 6)
	for i := range approvedSeats {
		approvedSeats[i].Label = fmt.Sprintf("Desk %d", i+1)
		approvedSeats[i].Price = 12.5
	}

	approved = &hostrequests.HostRequest{
		OwnerID:          owner.ID,
		OwnerEmail:       owner.Email,
		Name:             "Harborview Studio",
		Description:      "A bright co-working studio near the harbor.",
		Address:          "12 Quay Street, Portside",
		Capacity:         6,
		PricePerSeatHour: 12.5,
		Images:           []string{"https://images.bookit.dev/harborview/main.jpg"},
		Availability: []hostrequests.AvailabilitySlot{
			{Day: "monday", Open: "08:00", Close: "20:00"},
			{Day: "tuesday", Open: "08:00", Close: "20:00"},
		},
		Seats:  approvedSeats,
		Status: hostrequests.StatusApproved,
	}

	pending = &hostrequests.HostRequest{
		OwnerID:          owner.ID,
		OwnerEmail:       owner.Email,
		Name:             "Old Mill Hall",
		Description:      "Event hall awaiting review.",
		Address:          "3 Mill Lane, Riverbend",
		Capacity:         40,
		PricePerSeatHour: 8,
		Seats:            seats.Normalize(nil, 40),
		Status:           hostrequests.StatusPending,
	}

	for _, hr := range []*hostrequests.HostRequest{approved, pending} {
		if err := gormDB.WithContext(ctx).Create(hr).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to create host request %s: %w", hr.Name, err)
		}
		fmt.Printf("  host request: %s (%s)\n", hr.Name, hr.Status)
	}
	return approved, pending, nil
}

func (s *Seeder) seedVenue(ctx context.Context, approved *hostrequests.HostRequest, user *users.User) error {
	gormDB := s.db.GetPostgreSQL()

	venueSeats := approved.Seats.Clone()
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	booking, err := seats.NewBooking(tomorrow, "14:00", 2, seats.OriginUser, user.Email)
	if err != nil {
		return err
	}
	venueSeats.AppendBooking(2, booking)

	venue := &venues.Venue{
		ID:               uuid.New(),
		HostRequestID:    approved.ID,
		OwnerID:          approved.OwnerID,
		OwnerEmail:       approved.OwnerEmail,
		Name:             approved.Name,
		Description:      approved.Description,
		Address:          approved.Address,
		Capacity:         approved.Capacity,
		PricePerSeatHour: approved.PricePerSeatHour,
		Images:           approved.Images,
		Availability:     approved.Availability,
		Seats:            venueSeats,
	}

	if err := gormDB.WithContext(ctx).Create(venue).Error; err != nil {
		return fmt.Errorf("failed to create venue %s: %w", venue.Name, err)
	}
	fmt.Printf("  venue: %s (seat 2 booked %s 14:00-16:00)\n", venue.Name, tomorrow)
	return nil
}
