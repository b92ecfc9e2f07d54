package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/reconcile/internal/database"
)

// MaintenanceService houses destructive cache actions surfaced through the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset forgets every remembered payee. The schema stays intact.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM payee_destinations"); err != nil {
			return fmt.Errorf("reset payee_destinations: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
