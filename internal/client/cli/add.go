package cli

import (
	"context"
	"fmt"

	"github.com/razetka2010/telegram-password-manager/pkg/api"
)

func (c *Cli) runAdd(ctx context.Context) error {
	_, v, err := c.openVault(ctx)
	if err != nil {
		return err
	}

	serviceName, err := c.io.ReadInput("Service name: ")
	if err != nil {
		return fmt.Errorf("failed to read service name: %w", err)
	}

	login, err := c.io.ReadInput("Login: ")
	if err != nil {
		return fmt.Errorf("failed to read login: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	ciphertext, nonce, err := v.Seal(password)
	if err != nil {
		return err
	}

	resp, err := c.apiClient.CreatePassword(ctx, api.CreatePasswordRequest{
		ServiceName: serviceName,
		Login:       login,
		Ciphertext:  ciphertext,
		Nonce:       nonce,
	})
	if err != nil {
		return err
	}

	c.io.Printf("Saved record %d for %s\n", resp.ID, serviceName)
	return nil
}
