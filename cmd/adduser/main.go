// Command adduser registers a publishing user from the terminal. The
// password is read without echo and never appears in shell history.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/dmitrijs2005/newsletter/internal/domain"
	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/password"
	"github.com/dmitrijs2005/newsletter/internal/secret"
	"github.com/dmitrijs2005/newsletter/internal/server/config"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories"
	"github.com/dmitrijs2005/newsletter/internal/server/services"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	ctx := context.Background()
	cfg := config.LoadConfig()

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("error reading username: %w", err)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username must not be empty")
	}

	fmt.Print("Email: ")
	rawEmail, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("error reading email: %w", err)
	}
	email, err := domain.ParseSubscriberEmail(strings.TrimSpace(rawEmail))
	if err != nil {
		return err
	}

	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("error reading password: %w", err)
	}
	if len(pw) == 0 {
		return fmt.Errorf("password must not be empty")
	}

	storage, err := repositories.NewPostgresManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer storage.Close()

	hasher, err := password.NewHasher(password.DefaultParams())
	if err != nil {
		return fmt.Errorf("hasher init error: %w", err)
	}

	svc := services.NewUserService(storage.Users(), hasher, logging.NewDefault())

	user, err := svc.Register(ctx, username, email, secret.NewString(string(pw)))
	if err != nil {
		return fmt.Errorf("error registering user: %w", err)
	}

	fmt.Printf("user %s created with id %s\n", user.Username, user.ID)
	return nil
}
