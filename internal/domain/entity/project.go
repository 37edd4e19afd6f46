package entity

// Project es la vista mínima de un proyecto que consume material (el ledger solo guarda su ID).
type Project struct {
	ID        string
	Reference string
	Name      string
}

// DisplayName devuelve la referencia del proyecto o su ID si no tiene referencia.
func (p *Project) DisplayName() string {
	if p.Reference != "" {
		return p.Reference
	}
	return p.ID
}
