package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"

	"github.com/poliscope/poliscope/internal/config"
	"github.com/poliscope/poliscope/internal/database"
	"github.com/poliscope/poliscope/internal/identity"
)

var (
	resolveFirstName  string
	resolveLastName   string
	resolveBirthDate  string
	resolveSource     string
	resolveSourceRef  string
	resolveDepartment string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve one observation against the politician store and print the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve()
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFirstName, "first-name", "", "observed first name (required)")
	resolveCmd.Flags().StringVar(&resolveLastName, "last-name", "", "observed last name (required)")
	resolveCmd.Flags().StringVar(&resolveBirthDate, "birth-date", "", "observed birth date (YYYY-MM-DD)")
	resolveCmd.Flags().StringVar(&resolveSource, "source", "", "source name (required, e.g. RNE)")
	resolveCmd.Flags().StringVar(&resolveSourceRef, "source-ref", "", "source record id (required)")
	resolveCmd.Flags().StringVar(&resolveDepartment, "department", "", "observed department code")
}

func runResolve() error {
	obs := identity.Observation{
		FirstName:  resolveFirstName,
		LastName:   resolveLastName,
		Source:     resolveSource,
		SourceRef:  resolveSourceRef,
		Department: resolveDepartment,
	}
	if resolveBirthDate != "" {
		t, err := time.Parse("2006-01-02", resolveBirthDate)
		if err != nil {
			return fmt.Errorf("invalid birth date %q: %w", resolveBirthDate, err)
		}
		obs.BirthDate = &t
	}
	if err := obs.Validate(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := database.Connect(cfg.DatabaseURL, logger.Warn); err != nil {
		return err
	}
	defer database.Close()

	db := database.GetDB()
	resolver := identity.NewResolver(
		database.NewPersonStore(db),
		database.NewDecisionLogStore(db),
		cfg.ResolverConfig(),
	)

	result, err := resolver.Resolve(obs)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
