package main

import (
	"fmt"
	"time"

	"github.com/phrazzld/odata-api/internal/idm"
	"github.com/phrazzld/odata-api/internal/service/auth"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		clientID string
		subject  string
		roles    []string
		lifetime time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a service token for a server running in jwt auth mode",
		Long: `Issue a service token signed with the server's JWT secret.

The secret is read from --secret or ODATA_AUTH_JWT_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env := newEnv()
			if err := env.BindPFlag("auth.jwt_secret", cmd.Flags().Lookup("secret")); err != nil {
				return err
			}

			decoder, err := auth.NewJWTDecoder(env.GetString("auth.jwt_secret"), lifetime)
			if err != nil {
				return err
			}

			tok := idm.AccessToken{ClientID: clientID, Role: roles}
			if subject != "" {
				tok.Sub = idm.StringList{subject}
			}

			signed, err := decoder.IssueToken(cmd.Context(), tok)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
			return err
		},
	}

	cmd.Flags().String("secret", "", "HMAC signing secret (at least 32 characters)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "client_id claim; must be in the server's whitelist")
	cmd.Flags().StringVar(&subject, "sub", "", "subject claim")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "role claim, repeatable")
	cmd.Flags().DurationVar(&lifetime, "lifetime", time.Hour, "token validity")
	_ = cmd.MarkFlagRequired("client-id")
	return cmd
}
