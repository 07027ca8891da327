package cli

import (
	"context"
	"fmt"
	"strings"
)

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	id, err := recordID(args)
	if err != nil {
		return err
	}

	if _, _, err := c.openVault(ctx); err != nil {
		return err
	}

	confirm, err := c.io.ReadInput(fmt.Sprintf("Delete record %d? [y/N]: ", id))
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !strings.EqualFold(confirm, "y") {
		c.io.Println("Canceled")
		return nil
	}

	if _, err := c.apiClient.DeletePassword(ctx, id); err != nil {
		return err
	}

	c.io.Printf("Record %d deleted\n", id)
	return nil
}
