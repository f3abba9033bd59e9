// Package cli implements zlemon's command-line subcommands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/zarlcorp/zlemon/internal/config"
	"github.com/zarlcorp/zlemon/internal/menu"
	"github.com/zarlcorp/zlemon/internal/profile"
	"github.com/zarlcorp/zlemon/internal/securestore"
	"golang.org/x/term"
)

// ReadPassword prompts for a password on w and reads it without echo.
func ReadPassword(prompt string, w io.Writer) (string, error) {
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// ReadNewPassword prompts for a new password with confirmation.
func ReadNewPassword(w io.Writer) (string, error) {
	pass, err := ReadPassword("master password: ", w)
	if err != nil {
		return "", err
	}
	confirm, err := ReadPassword("confirm password: ", w)
	if err != nil {
		return "", err
	}
	if pass != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return pass, nil
}

// IsFirstRun checks whether the configured store has been initialized.
func IsFirstRun(ctx context.Context, cfg config.Config) bool {
	if cfg.Store.Backend == config.BackendRedis {
		client := newRedisClient(cfg.Store.Redis)
		defer client.Close()

		ok, err := securestore.RedisInitialized(ctx, client, cfg.Store.Redis.Prefix)
		if err != nil {
			// unreachable redis surfaces on open; ask for a single password
			slog.Warn("check redis store", "err", err)
			return false
		}
		return !ok
	}

	_, err := os.Stat(filepath.Join(cfg.DataDir, "salt"))
	return err != nil
}

// OpenStore opens the configured secure store with password.
func OpenStore(ctx context.Context, cfg config.Config, password string) (securestore.Store, error) {
	if cfg.Store.Backend == config.BackendRedis {
		client := newRedisClient(cfg.Store.Redis)
		s, err := securestore.OpenRedis(ctx, client, cfg.Store.Redis.Prefix, []byte(password))
		if err != nil {
			client.Close()
			return nil, err
		}
		return s, nil
	}

	s, err := securestore.OpenLocal(cfg.DataDir, []byte(password))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// PromptStore prompts for the master password and opens the store.
func PromptStore(ctx context.Context, cfg config.Config) (securestore.Store, error) {
	var pass string
	var err error
	if IsFirstRun(ctx, cfg) {
		pass, err = ReadNewPassword(os.Stderr)
	} else {
		pass, err = ReadPassword("master password: ", os.Stderr)
	}
	if err != nil {
		return nil, err
	}

	return OpenStore(ctx, cfg, pass)
}

func newRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// CmdProfile prints the stored profile.
func CmdProfile(ctx context.Context, cfg config.Config, args []string) {
	s, err := PromptStore(ctx, cfg)
	if err != nil {
		fail(err)
	}
	defer s.Close()

	p, err := profile.Load(ctx, s)
	if err != nil {
		fail(err)
	}

	if hasFlag(args, "--json") {
		printJSON(os.Stdout, p)
		return
	}
	printProfile(os.Stdout, p)
}

// CmdMenu fetches and prints the menu.
func CmdMenu(ctx context.Context, cfg config.Config, args []string) {
	items, err := menu.NewClient(cfg.MenuURL).Fetch(ctx)
	if err != nil {
		fail(err)
	}

	if hasFlag(args, "--json") {
		printJSON(os.Stdout, items)
		return
	}
	printMenu(os.Stdout, items, cfg.ImageBaseURL)
}

// CmdLogout removes every stored profile key and the onboarding flag.
func CmdLogout(ctx context.Context, cfg config.Config) {
	s, err := PromptStore(ctx, cfg)
	if err != nil {
		fail(err)
	}
	defer s.Close()

	if err := profile.Clear(ctx, s); err != nil {
		fail(err)
	}
	fmt.Println("logged out")
}

func printProfile(w io.Writer, p profile.Profile) {
	phone := p.Phone
	if f := profile.FormatPhone(p.Phone); f != "" {
		phone = f
	}

	fmt.Fprintf(w, "  name:       %s\n", p.DisplayName())
	fmt.Fprintf(w, "  email:      %s\n", p.Email)
	fmt.Fprintf(w, "  phone:      %s\n", phone)
	fmt.Fprintf(w, "  avatar:     %s\n", avatarOrInitials(p))
	fmt.Fprintf(w, "  newsletter: %s\n", yesNo(p.Newsletter))
	fmt.Fprintf(w, "  promotions: %s\n", yesNo(p.Promotions))
}

func printMenu(w io.Writer, items []menu.Item, imageBase string) {
	if len(items) == 0 {
		fmt.Fprintln(w, "menu is empty")
		return
	}

	for _, it := range items {
		fmt.Fprintf(w, "  %-3s %-24s %8s\n", it.ID, it.Name, it.DisplayPrice())
		if it.Description != "" {
			fmt.Fprintf(w, "      %s\n", it.Description)
		}
		if u := it.ImageURL(imageBase); u != "" {
			fmt.Fprintf(w, "      %s\n", u)
		}
	}
}

func avatarOrInitials(p profile.Profile) string {
	if p.AvatarRef != "" {
		return p.AvatarRef
	}
	return "(" + profile.Initials(p) + ")"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fail(fmt.Errorf("encode json: %w", err))
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "zlemon: %v\n", err)
	os.Exit(1)
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if strings.EqualFold(a, flag) {
			return true
		}
	}
	return false
}
