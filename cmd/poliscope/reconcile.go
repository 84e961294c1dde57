package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"

	"github.com/poliscope/poliscope/internal/affairs"
	"github.com/poliscope/poliscope/internal/config"
	"github.com/poliscope/poliscope/internal/database"
)

var (
	reconcileAutoMerge bool
	reconcileDryRun    bool
	reconcileLimit     int
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one affair reconciliation pass and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile()
	},
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileAutoMerge, "auto-merge", false, "merge certain/high duplicate pairs")
	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "report what would be merged without writing")
	reconcileCmd.Flags().IntVar(&reconcileLimit, "limit", 0, "cap the number of merges in this pass (0 = no cap)")
}

func runReconcile() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := database.Connect(cfg.DatabaseURL, logger.Warn); err != nil {
		return err
	}
	defer database.Close()

	reconciler := affairs.NewReconciler(database.GetDB())
	report, err := reconciler.Reconcile(affairs.ReconcileOptions{
		AutoMerge: reconcileAutoMerge,
		DryRun:    reconcileDryRun,
		Limit:     reconcileLimit,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
