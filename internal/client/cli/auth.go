package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/razetka2010/telegram-password-manager/internal/client/storage"
)

func (c *Cli) runAuth(ctx context.Context) error {
	c.io.Println("=== Authentication ===")
	c.io.Println()

	// initData выдается Telegram Mini App окружением,
	// для отладки его можно скопировать из window.Telegram.WebApp.initData
	initData, err := c.io.ReadInput("Telegram initData: ")
	if err != nil {
		return fmt.Errorf("failed to read initData: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	resp, err := c.apiClient.Authenticate(ctx, initData)
	if err != nil {
		return err
	}

	session := &storage.SessionData{
		TelegramID:   resp.User.TelegramID,
		UserID:       resp.User.ID,
		Username:     resp.User.Username,
		SessionToken: resp.SessionToken,
		MaxPasswords: resp.Permissions.MaxPasswords,
		ExpiresAt:    time.Now().Add(7 * 24 * time.Hour).Unix(),
	}

	if err := c.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticated!")
	c.io.Printf("Account:       %s (telegram id %d)\n", resp.User.FirstName, resp.User.TelegramID)
	c.io.Printf("Password slots: %d\n", resp.Permissions.MaxPasswords)

	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if err == storage.ErrSessionNotFound {
			c.io.Println("Not authenticated")
			return nil
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	c.io.Printf("Account:        %s (telegram id %d)\n", session.Username, session.TelegramID)
	c.io.Printf("Password slots: %d\n", session.MaxPasswords)

	if session.Expired(time.Now()) {
		c.io.Println("Session:        expired, run 'auth' again")
	} else {
		c.io.Printf("Session:        valid until %s\n",
			time.Unix(session.ExpiresAt, 0).Format(time.RFC3339))
	}

	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.sessions.DeleteSession(ctx); err != nil {
		if err == storage.ErrSessionNotFound {
			c.io.Println("Not authenticated")
			return nil
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	c.io.Println("Session removed")
	return nil
}
