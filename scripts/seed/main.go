package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/andrifar/lemdik-sched-api/internal/models"
	"github.com/andrifar/lemdik-sched-api/internal/repository"
	"github.com/andrifar/lemdik-sched-api/pkg/config"
	"github.com/andrifar/lemdik-sched-api/pkg/database"
)

// seed loads reference data from a JSON fixture into the database. Meant
// for local development and fresh environments, not for production.
type fixture struct {
	Courses   []models.Course   `json:"courses"`
	Teams     []models.Team     `json:"teams"`
	Subjects  []models.Subject  `json:"subjects"`
	Lecturers []models.Lecturer `json:"lecturers"`
	Locations []models.Location `json:"locations"`
	Holidays  []models.Holiday  `json:"holidays"`
}

func main() {
	path := flag.String("fixture", "scripts/seed/fixture.json", "path to the fixture file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("failed to read fixture: %v", err)
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		log.Fatalf("failed to parse fixture: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	courses := repository.NewCourseRepository(db)
	teams := repository.NewTeamRepository(db)
	subjects := repository.NewSubjectRepository(db)
	lecturers := repository.NewLecturerRepository(db)
	locations := repository.NewLocationRepository(db)
	holidays := repository.NewHolidayRepository(db)

	for i := range fx.Courses {
		if err := courses.Create(ctx, &fx.Courses[i]); err != nil {
			log.Fatalf("seed course %s: %v", fx.Courses[i].Name, err)
		}
	}
	for i := range fx.Teams {
		if err := teams.Create(ctx, &fx.Teams[i]); err != nil {
			log.Fatalf("seed team %s: %v", fx.Teams[i].Name, err)
		}
	}
	for i := range fx.Subjects {
		if err := subjects.Create(ctx, &fx.Subjects[i]); err != nil {
			log.Fatalf("seed subject %s: %v", fx.Subjects[i].Name, err)
		}
	}
	for i := range fx.Lecturers {
		if err := lecturers.Create(ctx, &fx.Lecturers[i]); err != nil {
			log.Fatalf("seed lecturer %s: %v", fx.Lecturers[i].Name, err)
		}
	}
	for i := range fx.Locations {
		if err := locations.Create(ctx, &fx.Locations[i]); err != nil {
			log.Fatalf("seed location %s: %v", fx.Locations[i].Name, err)
		}
	}
	for i := range fx.Holidays {
		if err := holidays.Create(ctx, &fx.Holidays[i]); err != nil {
			log.Fatalf("seed holiday %s: %v", fx.Holidays[i].Name, err)
		}
	}

	log.Printf("seeded %d courses, %d teams, %d subjects, %d lecturers, %d locations, %d holidays",
		len(fx.Courses), len(fx.Teams), len(fx.Subjects), len(fx.Lecturers), len(fx.Locations), len(fx.Holidays))
}
