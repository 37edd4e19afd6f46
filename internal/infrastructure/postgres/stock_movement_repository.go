package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// selectMovement resuelve producto, actor, proveedor, solicitante, socio de destino y proyecto.
const selectMovement = `
	SELECT m.id, m.type, m.product_id, m.quantity, m.actor_id, m.comment, m.created_at,
	       m.supplier_id, m.condition, m.requester_id, m.destination_type, m.destination_partner_id,
	       m.destination, m.contact, m.sale_price, m.serial_numbers, m.project_id,
	       m.justificatif_file, m.justificatif_path, m.justificatif_mime, m.justificatif_at,
	       COALESCE(p.name, ''), COALESCE(p.sku, ''), COALESCE(u.name, ''), COALESCE(s.name, ''),
	       COALESCE(rq.name, ''), COALESCE(d.name, ''), COALESCE(pr.reference, '')
	FROM stock_movements m
	LEFT JOIN products p ON p.id = m.product_id
	LEFT JOIN users u ON u.id = m.actor_id
	LEFT JOIN partners s ON s.id = m.supplier_id
	LEFT JOIN users rq ON rq.id = m.requester_id
	LEFT JOIN partners d ON d.id = m.destination_partner_id
	LEFT JOIN projects pr ON pr.id = m.project_id`

// StockMovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del ledger.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	serials := m.SerialNumbers
	if serials == nil {
		serials = []string{}
	}
	query := `
		INSERT INTO stock_movements (id, type, product_id, quantity, actor_id, comment, created_at,
			supplier_id, condition, requester_id, destination_type, destination_partner_id,
			destination, contact, sale_price, serial_numbers, project_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Type, m.ProductID, m.Quantity, m.ActorID, m.Comment, m.CreatedAt,
		m.SupplierID, m.Condition, m.RequesterID, m.DestinationType, m.DestinationPartnerID,
		m.Destination, m.Contact, m.SalePrice, serials, m.ProjectID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento con referencias resueltas.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, selectMovement+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Delete elimina un movimiento (compensación de una asignación).
func (r *StockMovementRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("movimiento", id)
	}
	return nil
}

// List lista movimientos del más reciente al más antiguo con filtros opcionales.
func (r *StockMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := selectMovement + ` WHERE 1 = 1`
	args := []any{}
	pos := 1
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND m.product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND m.type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.ProjectID != "" {
		query += fmt.Sprintf(" AND m.project_id = $%d", pos)
		args = append(args, filter.ProjectID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY m.created_at DESC, m.seq DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Totals suma las cantidades de entradas y salidas de un producto.
func (r *StockMovementRepo) Totals(ctx context.Context, productID string) (repository.LedgerTotals, error) {
	var t repository.LedgerTotals
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity) FILTER (WHERE type = 'ENTREE'), 0),
		       COALESCE(SUM(quantity) FILTER (WHERE type = 'SORTIE'), 0)
		FROM stock_movements WHERE product_id = $1`, productID).Scan(&t.Entries, &t.Exits)
	if err != nil {
		return t, fmt.Errorf("ledger totals: %w", err)
	}
	return t, nil
}

// AttachJustificatif adjunta el documento de soporte (única columna mutable del ledger).
func (r *StockMovementRepo) AttachJustificatif(ctx context.Context, id string, doc entity.Justificatif) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_movements
		SET justificatif_file = $2, justificatif_path = $3, justificatif_mime = $4, justificatif_at = $5
		WHERE id = $1`,
		id, doc.FileName, doc.StoragePath, doc.MimeType, doc.AttachedAt,
	)
	if err != nil {
		return fmt.Errorf("attach justificatif: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("movimiento", id)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var docFile, docPath, docMime *string
	var docAt *time.Time
	err := row.Scan(
		&m.ID, &m.Type, &m.ProductID, &m.Quantity, &m.ActorID, &m.Comment, &m.CreatedAt,
		&m.SupplierID, &m.Condition, &m.RequesterID, &m.DestinationType, &m.DestinationPartnerID,
		&m.Destination, &m.Contact, &m.SalePrice, &m.SerialNumbers, &m.ProjectID,
		&docFile, &docPath, &docMime, &docAt,
		&m.Refs.ProductName, &m.Refs.ProductSKU, &m.Refs.ActorName, &m.Refs.SupplierName,
		&m.Refs.RequesterName, &m.Refs.DestinationPartnerName, &m.Refs.ProjectReference,
	)
	if err != nil {
		return nil, err
	}
	if docFile != nil && docPath != nil {
		m.Justificatif = &entity.Justificatif{FileName: *docFile, StoragePath: *docPath}
		if docMime != nil {
			m.Justificatif.MimeType = *docMime
		}
		if docAt != nil {
			m.Justificatif.AttachedAt = *docAt
		}
	}
	if len(m.SerialNumbers) == 0 {
		m.SerialNumbers = nil
	}
	return &m, nil
}
