package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/razetka2010/telegram-password-manager/pkg/api"
)

func (c *Cli) runUpdate(ctx context.Context, args []string) error {
	id, err := recordID(args)
	if err != nil {
		return err
	}

	_, v, err := c.openVault(ctx)
	if err != nil {
		return err
	}

	login, err := c.io.ReadInput("New login: ")
	if err != nil {
		return fmt.Errorf("failed to read login: %w", err)
	}

	password, err := c.io.ReadPassword("New password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	ciphertext, nonce, err := v.Seal(password)
	if err != nil {
		return err
	}

	_, err = c.apiClient.UpdatePassword(ctx, id, api.UpdatePasswordRequest{
		Login:      login,
		Ciphertext: ciphertext,
		Nonce:      nonce,
	})
	if err != nil {
		return err
	}

	c.io.Printf("Record %d updated\n", id)
	return nil
}

// recordID разбирает обязательный позиционный аргумент <id>
func recordID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("record id is required")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id: %s", args[0])
	}

	return id, nil
}
