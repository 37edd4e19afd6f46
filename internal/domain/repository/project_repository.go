package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProjectRepository puerto de solo lectura hacia el servicio de proyectos.
type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Project, error)
}
