package cmd

import (
	"fmt"

	"rainbow-recipes/core/config"
	"rainbow-recipes/core/middleware/auth"

	"github.com/spf13/cobra"
)

var tokenSession auth.Session

// tokenCmd mints a session token for local development and scripting.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed session token",
	Long: `Prints a bearer token signed with the configured AUTH_JWT_SECRET.

Examples:
  # Admin token
  token --user 1 --role admin

  # Approved vendor
  token --user 7 --role merchant --merchant --approved`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		role, _ := cmd.Flags().GetString("role")
		tokenSession.Role = auth.Role(role)
		switch tokenSession.Role {
		case auth.RoleUser, auth.RoleMerchant, auth.RoleAdmin:
		default:
			return fmt.Errorf("unknown role %q", role)
		}

		tok, err := auth.Issue(cfg.Auth.JWTSecret, tokenSession, cfg.Auth.TTL())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().IntVar(&tokenSession.UserID, "user", 0, "User id")
	tokenCmd.Flags().StringVar(&tokenSession.Email, "email", "", "Email address")
	tokenCmd.Flags().String("role", string(auth.RoleUser), "Role: user, merchant or admin")
	tokenCmd.Flags().BoolVar(&tokenSession.IsMerchant, "merchant", false, "Mark the user as a merchant")
	tokenCmd.Flags().BoolVar(&tokenSession.MerchantApproved, "approved", false, "Mark the merchant as approved")
	_ = tokenCmd.MarkFlagRequired("user")
	RootCmd.AddCommand(tokenCmd)
}
