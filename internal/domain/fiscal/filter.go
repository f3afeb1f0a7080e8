package fiscal

import (
	"time"

	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/pkg/textnorm"
)

// Criteria filtros del listado. Campos vacíos no filtran.
type Criteria struct {
	Status string
	Type   string
	From   *time.Time // inclusive, por IssueDate
	To     *time.Time // inclusive
	Search string     // número, cliente, documento del cliente o chave; sin acentos ni mayúsculas
}

// IsZero informa si no hay ningún filtro activo.
func (c Criteria) IsZero() bool {
	return c.Status == "" && c.Type == "" && c.From == nil && c.To == nil && c.Search == ""
}

// Matches evalúa un documento contra los criterios.
func (c Criteria) Matches(doc entity.FiscalDocument) bool {
	if c.Status != "" && doc.Status != c.Status {
		return false
	}
	if c.Type != "" && doc.Type != c.Type {
		return false
	}
	if c.From != nil && doc.IssueDate.Before(*c.From) {
		return false
	}
	if c.To != nil && doc.IssueDate.After(*c.To) {
		return false
	}
	if c.Search == "" {
		return true
	}
	digits := textnorm.OnlyDigits(c.Search)
	return textnorm.Contains(doc.Number, c.Search) ||
		textnorm.Contains(doc.CustomerName, c.Search) ||
		textnorm.Contains(doc.CustomerDocument, c.Search) ||
		textnorm.Contains(doc.AccessKey, c.Search) ||
		(digits != "" && len(digits) == len(c.Search) && textnorm.Contains(textnorm.OnlyDigits(doc.CustomerDocument), digits))
}

// Filter devuelve el subconjunto que cumple los criterios, en el mismo orden. No modifica docs.
func Filter(docs []entity.FiscalDocument, c Criteria) []entity.FiscalDocument {
	out := make([]entity.FiscalDocument, 0, len(docs))
	for _, d := range docs {
		if c.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}
