package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/techincepto/portal-backend/internal/config"
	"github.com/techincepto/portal-backend/internal/database"
	"github.com/techincepto/portal-backend/internal/logger"
	"github.com/techincepto/portal-backend/internal/model"
	"github.com/techincepto/portal-backend/internal/repository"
)

var sampleCourses = []model.Course{
	{
		Title:       "Full-Stack Web Development",
		Description: "Build and deploy modern web applications from the browser to the database.",
		CourseIncludes: []string{
			"40 hours of video lessons",
			"12 hands-on projects",
			"Certificate of completion",
		},
		Price:        4999,
		ThumbnailURL: "https://images.unsplash.com/photo-1498050108023-c5249f4df085",
	},
	{
		Title:       "Data Science with Python",
		Description: "Clean, analyse and visualise data, then train your first machine learning models.",
		CourseIncludes: []string{
			"35 hours of video lessons",
			"Jupyter notebooks for every module",
			"Capstone project review",
		},
		Price:        5999,
		ThumbnailURL: "https://images.unsplash.com/photo-1551288049-bebda4e38f71",
	},
	{
		Title:       "Cloud Fundamentals",
		Description: "Core cloud concepts: compute, storage, networking and cost control.",
		CourseIncludes: []string{
			"20 hours of video lessons",
			"Guided labs",
		},
		Price:        2999,
		ThumbnailURL: "https://images.unsplash.com/photo-1451187580459-43490279c0fa",
	},
}

var sampleAnnouncements = []model.Announcement{
	{
		Title:   "Welcome to Tech Incepto",
		Message: "Browse the course catalogue and enroll to start learning today.",
	},
	{
		Title:   "New batch starting",
		Message: "The next Full-Stack Web Development batch starts on the first Monday of next month.",
	},
}

func main() {
	skipAnnouncements := flag.Bool("courses-only", false, "seed courses only")
	createdBy := flag.String("created-by", "seed", "createdBy value for seeded announcements")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// ─── Connect to Firebase ───────────────────────────────────────────
	fb, err := database.NewFirebase(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Firebase")
	}
	defer fb.Close()

	courseRepo := repository.NewCourseRepository(fb.Firestore)
	announcementRepo := repository.NewAnnouncementRepository(fb.Firestore)

	// ─── Courses ───────────────────────────────────────────────────────
	for i := range sampleCourses {
		id, err := courseRepo.Create(ctx, &sampleCourses[i])
		if err != nil {
			log.Fatal().Err(err).Str("title", sampleCourses[i].Title).Msg("Failed to seed course")
		}
		fmt.Printf("course   %s  %s\n", id, sampleCourses[i].Title)
	}

	if *skipAnnouncements {
		return
	}

	// ─── Announcements ─────────────────────────────────────────────────
	now := time.Now().UTC()
	for i := range sampleAnnouncements {
		a := &sampleAnnouncements[i]
		a.CreatedBy = *createdBy
		a.CreatedAt = now.Add(time.Duration(i) * time.Second)
		if err := announcementRepo.Create(ctx, a); err != nil {
			log.Fatal().Err(err).Str("title", a.Title).Msg("Failed to seed announcement")
		}
		fmt.Printf("notice   %s  %s\n", a.ID, a.Title)
	}

	log.Info().
		Int("courses", len(sampleCourses)).
		Int("announcements", len(sampleAnnouncements)).
		Msg("Seed complete")
}
