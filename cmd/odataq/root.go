package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "odataq",
		Short:         "Parse OData query strings and manage the people API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newParseCmd(), newTokenCmd(), newSeedCmd())
	return root
}

// newEnv returns a viper instance that resolves keys like "auth.jwt_secret"
// from ODATA_AUTH_JWT_SECRET, matching the server's environment variables.
func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ODATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}
