package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/techincepto/portal-backend/internal/config"
	"github.com/techincepto/portal-backend/internal/database"
	"github.com/techincepto/portal-backend/internal/logger"
	"github.com/techincepto/portal-backend/internal/model"
	"github.com/techincepto/portal-backend/internal/repository"
	"github.com/techincepto/portal-backend/internal/service"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to Firebase ───────────────────────────────────────────
	fb, err := database.NewFirebase(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Firebase")
	}
	defer fb.Close()

	adminRepo := repository.NewAdminRepository(fb.Firestore)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin ===")

	name := prompt(reader, "Enter Name: ")
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	username := prompt(reader, "Enter Username: ")
	if username == "" || strings.ContainsAny(username, "@ ") {
		fmt.Println("Error: Username is required and must not contain '@' or spaces")
		return
	}

	email := prompt(reader, "Enter Email: ")
	if !strings.Contains(email, "@") {
		fmt.Println("Error: A valid email is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	password := string(bytePassword)
	if len(password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	for _, check := range []struct {
		label string
		find  func(context.Context, string) (*model.Admin, error)
		value string
	}{
		{"username", adminRepo.GetByUsername, username},
		{"email", adminRepo.GetByEmail, email},
	} {
		existing, err := check.find(ctx, check.value)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to check existing admins")
		}
		if existing != nil {
			fmt.Printf("Error: an admin with this %s already exists\n", check.label)
			return
		}
	}

	hash, err := service.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	admin := &model.Admin{
		AdminID:      uuid.NewString(),
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		CreatedAt:    time.Now().UTC(),
	}

	if err := adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			fmt.Println("Error: admin id collision, please retry")
			return
		}
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %s\n", admin.Username, admin.Email, admin.AdminID)
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	s, _ := r.ReadString('\n')
	return strings.TrimSpace(s)
}
