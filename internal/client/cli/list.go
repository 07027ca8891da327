package cli

import (
	"context"
	"flag"
)

func (c *Cli) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	show := fs.Bool("show", false, "print decrypted passwords")
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, v, err := c.openVault(ctx)
	if err != nil {
		return err
	}

	resp, err := c.apiClient.ListPasswords(ctx)
	if err != nil {
		return err
	}

	if resp.Count == 0 {
		c.io.Println("No passwords stored")
		return nil
	}

	c.io.Printf("%-6s %-24s %-24s %s\n", "ID", "SERVICE", "LOGIN", "PASSWORD")

	for _, entry := range v.OpenAll(resp.Passwords) {
		password := "********"
		switch {
		case !entry.Decryptable:
			password = "<cannot decrypt>"
		case *show:
			password = entry.Password
		}
		c.io.Printf("%-6d %-24s %-24s %s\n", entry.ID, entry.ServiceName, entry.Login, password)
	}

	c.io.Println()
	c.io.Printf("Total: %d\n", resp.Count)

	return nil
}
