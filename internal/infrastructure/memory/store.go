// Package memory implementa el ledger de stock en memoria con transacciones por snapshot.
// Se usa con STORE_DRIVER=memory (desarrollo) y en los tests de casos de uso y handlers.
//
// Las transacciones comparten un único mutex: los movimientos sobre productos distintos también
// se serializan. El bloqueo por producto solo existe con el driver postgres (SELECT ... FOR UPDATE).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	products  map[string]entity.Product
	movements map[string]entity.StockMovement
	order     map[string]int64 // orden de inserción, desempata movimientos con la misma fecha
	seq       int64
	projects  map[string]entity.Project
	users     map[string]string
	partners  map[string]string
}

func newState() state {
	return state{
		products:  make(map[string]entity.Product),
		movements: make(map[string]entity.StockMovement),
		order:     make(map[string]int64),
		projects:  make(map[string]entity.Project),
		users:     make(map[string]string),
		partners:  make(map[string]string),
	}
}

// clone copia los mapas mutables por el ledger; proyectos, usuarios y socios son de solo lectura.
func (s state) clone() state {
	c := s
	c.products = make(map[string]entity.Product, len(s.products))
	for k, v := range s.products {
		c.products[k] = v
	}
	c.movements = make(map[string]entity.StockMovement, len(s.movements))
	for k, v := range s.movements {
		c.movements[k] = v
	}
	c.order = make(map[string]int64, len(s.order))
	for k, v := range s.order {
		c.order[k] = v
	}
	return c
}

// Store almacén en memoria. Run serializa las transacciones con un mutex global
// y restaura el snapshot previo si fn falla (todo o nada).
type Store struct {
	mu sync.Mutex
	st state
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState()}
}

// AddProject registra un proyecto (lo provee el servicio de proyectos en producción).
func (s *Store) AddProject(p entity.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.projects[p.ID] = p
}

// AddUser registra el nombre de un usuario para resolver actores y solicitantes.
func (s *Store) AddUser(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[id] = name
}

// AddPartner registra el nombre de un proveedor o socio de destino.
func (s *Store) AddPartner(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.partners[id] = name
}

// Run ejecuta fn con repositorios atados a la transacción.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	v := &view{s: s, locked: true}
	if err := fn(&MovementRepo{v: v}, &ProductRepo{v: v}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo {
	return &ProductRepo{v: &view{s: s}}
}

// Movements repositorio del ledger fuera de transacción.
func (s *Store) Movements() *MovementRepo {
	return &MovementRepo{v: &view{s: s}}
}

// Projects repositorio de proyectos.
func (s *Store) Projects() *ProjectRepo {
	return &ProjectRepo{v: &view{s: s}}
}

// view acceso al estado: dentro de Run el mutex ya está tomado.
type view struct {
	s      *Store
	locked bool
}

func (v *view) do(fn func(st *state) error) error {
	if !v.locked {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return fn(&v.s.st)
}
