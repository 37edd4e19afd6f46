package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo proyectos registrados con Store.AddProject.
type ProjectRepo struct {
	v *view
}

// GetByID obtiene un proyecto o nil.
func (r *ProjectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	var out *entity.Project
	err := r.v.do(func(st *state) error {
		if p, ok := st.projects[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}
