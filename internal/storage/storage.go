// Package storage defines persistence for validation reports and
// orchestration sessions.
package storage

import (
	"context"
	"errors"

	"github.com/voltcraft/certify/internal/models"
)

// ErrNotFound is returned when a report does not exist.
var ErrNotFound = errors.New("report not found")

// Store defines report and session persistence operations.
type Store interface {
	SaveReport(ctx context.Context, report *models.StoredReport) error
	GetReport(ctx context.Context, id string) (*models.StoredReport, error)
	ListReports(ctx context.Context, limit int) ([]*models.StoredReport, error)
	CountReports(ctx context.Context) (int64, error)

	SaveSession(ctx context.Context, session *models.Session) error

	Close() error
}
