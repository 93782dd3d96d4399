package ports

import (
	"context"

	"github.com/bnema/ncdrift/internal/domain"
)

type ReportRepository interface {
	Save(ctx context.Context, report domain.Report) error
	GetByID(ctx context.Context, id domain.RunID) (domain.Report, error)
	List(ctx context.Context) ([]domain.Report, error)
}
