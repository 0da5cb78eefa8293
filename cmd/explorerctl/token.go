package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/interface/rest"
)

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a bearer token with JWT_SECRET for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is not set")
		}
		if tokenSubject == "" {
			return fmt.Errorf("--sub is required")
		}
		role, ok := entity.ParseRole(tokenRole)
		if !ok {
			return fmt.Errorf("unknown role %q", tokenRole)
		}

		token, err := rest.NewAuthenticator(cfg.JWTSecret).IssueToken(entity.Actor{ID: tokenSubject, Role: role}, tokenTTL)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "", "actor id")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(entity.RoleExplorer), "explorer|manager|sponsor|admin")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}
