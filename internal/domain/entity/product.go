package entity

import "time"

// Product representa un producto físico con su saldo corriente.
// Quantity es el saldo desnormalizado (quantite): siempre igual a Σ ENTREE − Σ SORTIE del ledger
// y solo lo modifica el motor de movimientos. AlertThreshold (seuilAlerte) es opcional.
type Product struct {
	ID             string
	SKU            string
	Name           string
	Quantity       int64
	AlertThreshold *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasThreshold indica si el producto tiene umbral de alerta configurado.
func (p *Product) HasThreshold() bool {
	return p != nil && p.AlertThreshold != nil
}
