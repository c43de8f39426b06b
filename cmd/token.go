package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
)

var (
	tokenUserID    string
	tokenCompanyID string
	tokenRole      string
	tokenEmail     string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development access token",
	Long:  `Sign an access token with the configured secret, for calling the API without the identity provider.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		role, ok := auth.ParseRole(tokenRole)
		if !ok {
			return fmt.Errorf("unknown role %q", tokenRole)
		}

		token, err := auth.NewJWTTokenGenerator(cfg.Security).Issue(auth.Principal{
			UserID:    tokenUserID,
			CompanyID: tokenCompanyID,
			Role:      role,
			Email:     tokenEmail,
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "user id (subject)")
	tokenCmd.Flags().StringVar(&tokenCompanyID, "company", "", "company id")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "employee", "admin, manager or employee")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	_ = tokenCmd.MarkFlagRequired("user")
	_ = tokenCmd.MarkFlagRequired("company")
}
