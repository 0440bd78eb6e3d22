package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/wanderly/tours-api/config"
	"github.com/wanderly/tours-api/internal/domain/entity"
	"github.com/wanderly/tours-api/pkg/helpers"
)

type seedTour struct {
	name       string
	duration   int
	groupSize  int
	difficulty string
	rating     float64
	ratings    int
	price      float64
	summary    string
}

var sampleTours = []seedTour{
	{"The Forest Hiker", 5, 25, "easy", 4.7, 37, 397, "Breathtaking hike through the Canadian Banff National Park"},
	{"The Sea Explorer", 7, 15, "medium", 4.8, 23, 497, "Exploring the jaw-dropping US east coast by foot and by boat"},
	{"The Snow Adventurer", 4, 10, "difficult", 4.5, 13, 997, "Exciting adventure in the snow with snowboarding and skiing"},
	{"The City Wanderer", 9, 20, "easy", 4.6, 54, 1197, "Living the life of Wanderlust in the US' most beautiful cities"},
	{"The Park Camper", 10, 15, "medium", 4.9, 19, 1497, "Breathing in Nature in America's most spectacular National Parks"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@example.com"
	password := "password123"
	hash, err := helpers.NewBcryptHasher().Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role
		RETURNING id
	`, "Admin", email, hash, entity.RoleAdmin).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", id, email, password)

	for _, t := range sampleTours {
		var tourID string
		err := db.QueryRow(`
			INSERT INTO tours (name, duration, max_group_size, difficulty, rating_average, ratings_quantity, price, summary)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (name) DO UPDATE SET
				duration = EXCLUDED.duration,
				max_group_size = EXCLUDED.max_group_size,
				difficulty = EXCLUDED.difficulty,
				price = EXCLUDED.price,
				summary = EXCLUDED.summary,
				updated_at = now()
			RETURNING id
		`, t.name, t.duration, t.groupSize, t.difficulty, t.rating, t.ratings, t.price, t.summary).Scan(&tourID)
		if err != nil {
			log.Fatalf("failed to seed tour %q: %v", t.name, err)
		}
		fmt.Printf("seeded tour: id=%s name=%s\n", tourID, t.name)
	}
}
