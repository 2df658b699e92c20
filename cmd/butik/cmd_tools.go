package main

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/chiquebutik/butik/config"
	"github.com/chiquebutik/butik/pkg/auth"
	"github.com/chiquebutik/butik/pkg/storage"
)

var (
	tokenEmailFlag string
	tokenTTLFlag   time.Duration
)

// butik auth:token <user-id>
var authTokenCmd = &cobra.Command{
	Use:   "auth:token <user-id>",
	Short: "Issue a development session token signed with AUTH_JWT_SECRET",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		secret := config.IdentitySecret()
		if secret == "" {
			return errors.New("AUTH_JWT_SECRET is not set")
		}
		token, err := auth.IssueToken(secret, args[0], tokenEmailFlag, tokenTTLFlag)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

// butik storage:put <file> [key]
var storagePutCmd = &cobra.Command{
	Use:   "storage:put <file> [key]",
	Short: "Upload a product image to the configured disk and print its URL",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		disk, err := storage.New(ctx, config.StorageDefault())
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		key := "products/" + filepath.Base(args[0])
		if len(args) == 2 {
			key = args[1]
		}
		if err := disk.Put(ctx, key, f, mime.TypeByExtension(filepath.Ext(key))); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", key, disk.URL(ctx, key))
		return nil
	},
}

func init() {
	authTokenCmd.Flags().StringVar(&tokenEmailFlag, "email", "", "Email claim")
	authTokenCmd.Flags().DurationVar(&tokenTTLFlag, "ttl", 24*time.Hour, "Token lifetime")
}
