// Package cli реализует консольные команды клиента
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/razetka2010/telegram-password-manager/internal/client/api"
	"github.com/razetka2010/telegram-password-manager/internal/client/storage"
	"github.com/razetka2010/telegram-password-manager/internal/client/vault"
)

// Cli связывает API клиент, локальное хранилище сессии и vault
type Cli struct {
	apiClient *api.Client
	sessions  storage.SessionStorage
	io        IO
}

// New создает Cli поверх готовых зависимостей
func New(apiClient *api.Client, sessions storage.SessionStorage, io IO) *Cli {
	return &Cli{
		apiClient: apiClient,
		sessions:  sessions,
		io:        io,
	}
}

// Run выполняет команду и завершает процесс с кодом 1 при ошибке
func (c *Cli) Run(ctx context.Context, command string, args []string) {
	var err error

	switch command {
	case "auth":
		err = c.runAuth(ctx)
	case "status":
		err = c.runStatus(ctx)
	case "logout":
		err = c.runLogout(ctx)
	case "list":
		err = c.runList(ctx, args)
	case "add":
		err = c.runAdd(ctx)
	case "update":
		err = c.runUpdate(ctx, args)
	case "delete":
		err = c.runDelete(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		PrintUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openVault восстанавливает сессию из локального хранилища,
// настраивает API клиент и выводит мастер-ключ
func (c *Cli) openVault(ctx context.Context) (*storage.SessionData, *vault.Vault, error) {
	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if err == storage.ErrSessionNotFound {
			return nil, nil, fmt.Errorf("not authenticated, run 'auth' first")
		}
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}

	c.apiClient.SetSessionToken(session.SessionToken)

	v, err := vault.New(session.TelegramID)
	if err != nil {
		return nil, nil, err
	}

	return session, v, nil
}

// PrintUsage выводит справку по командам
func PrintUsage() {
	fmt.Println("Telegram Password Manager Client")
	fmt.Println()
	fmt.Println("Usage: client [flags] <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  auth            Authenticate with Telegram initData")
	fmt.Println("  status          Show current session")
	fmt.Println("  logout          Remove local session")
	fmt.Println("  list [-show]    List stored passwords")
	fmt.Println("  add             Add a new password")
	fmt.Println("  update <id>     Update login and password of a record")
	fmt.Println("  delete <id>     Delete a record")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -server URL     Server URL (default http://localhost:8080)")
	fmt.Println("  -db PATH        Path to local database")
	fmt.Println("  -version        Show version information")
}
