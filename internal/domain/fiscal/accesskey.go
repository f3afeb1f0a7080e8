// Package fiscal: ciclo de vida de notas fiscales simuladas (NF-e, NFC-e, NFS-e).
//
// La chave de acesso generada aquí es cosmética: respeta el largo de 44 dígitos y el
// orden de los campos de una chave real, pero el dígito verificador es fijo y el CNPJ
// es un marcador configurable. No tiene validez fiscal.
package fiscal

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/pkg/textnorm"
)

// AccessKeyLength largo de la chave de acesso.
const AccessKeyLength = 44

// Valores por defecto de los campos fijos de la chave.
const (
	DefaultStateCode  = "35"             // cUF São Paulo
	DefaultIssuerCNPJ = "11222333000181" // marcador, no es el CNPJ de la organización
	DefaultSeries     = 1
	fixedCheckDigit   = "0"
)

// Códigos de modelo por tipo de documento.
var modelCodes = map[string]string{
	entity.FiscalTypeNF:   "55",
	entity.FiscalTypeNFCe: "65",
	entity.FiscalTypeNFS:  "99",
}

// KeyParams contiene los campos de la chave en el orden en que se concatenan:
//
//	cUF(2) + AAMM(4) + CNPJ(14) + modelo(2) + serie(3) + número(9) + código(9) + DV(1)
type KeyParams struct {
	StateCode string
	IssuedAt  time.Time
	CNPJ      string
	Model     string
	Series    int
	Sequence  int64
	Code      int64 // dígitos derivados del timestamp
}

// ComposeAccessKey concatena los campos en el orden fijo. Siempre devuelve 44 dígitos o error.
func ComposeAccessKey(p KeyParams) (string, error) {
	state := textnorm.OnlyDigits(p.StateCode)
	if len(state) != 2 {
		return "", fmt.Errorf("fiscal: código de estado debe tener 2 dígitos, recibido %q", p.StateCode)
	}
	cnpj := textnorm.OnlyDigits(p.CNPJ)
	if len(cnpj) != 14 {
		return "", fmt.Errorf("fiscal: CNPJ del emisor debe tener 14 dígitos, recibido %d", len(cnpj))
	}
	if len(p.Model) != 2 {
		return "", fmt.Errorf("fiscal: modelo inválido %q", p.Model)
	}
	if p.Series < 0 || p.Series > 999 {
		return "", fmt.Errorf("fiscal: serie fuera de rango: %d", p.Series)
	}
	if p.Sequence < 0 || p.Sequence > 999_999_999 || p.Code < 0 || p.Code > 999_999_999 {
		return "", fmt.Errorf("fiscal: número o código fuera de rango")
	}

	key := state +
		p.IssuedAt.Format("0601") +
		cnpj +
		p.Model +
		fmt.Sprintf("%03d", p.Series) +
		fmt.Sprintf("%09d", p.Sequence) +
		fmt.Sprintf("%09d", p.Code) +
		fixedCheckDigit

	if len(key) != AccessKeyLength {
		return "", fmt.Errorf("fiscal: chave con largo %d", len(key))
	}
	return key, nil
}

// IsValidAccessKey informa si la chave tiene exactamente 44 dígitos.
func IsValidAccessKey(key string) bool {
	return len(key) == AccessKeyLength && textnorm.OnlyDigits(key) == key
}

// FormatAccessKey agrupa la chave en bloques de 4 dígitos (como en el DANFE).
func FormatAccessKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Identifiers resultado de Generator.Next.
type Identifiers struct {
	Number    string
	Series    int
	Sequence  int64
	AccessKey string
}

// GeneratorConfig campos fijos configurables de la chave.
type GeneratorConfig struct {
	StateCode  string
	IssuerCNPJ string
}

// Generator produce número y chave de acesso a partir del reloj y dígitos aleatorios.
type Generator struct {
	cfg   GeneratorConfig
	now   func() time.Time
	randN func(n int64) int64
}

// NewGenerator construye el generador. Campos vacíos toman los valores por defecto.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.StateCode == "" {
		cfg.StateCode = DefaultStateCode
	}
	if cfg.IssuerCNPJ == "" {
		cfg.IssuerCNPJ = DefaultIssuerCNPJ
	}
	return &Generator{cfg: cfg, now: time.Now, randN: rand.Int64N}
}

// WithClock reemplaza reloj y fuente aleatoria (tests).
func (g *Generator) WithClock(now func() time.Time, randN func(n int64) int64) *Generator {
	cp := *g
	if now != nil {
		cp.now = now
	}
	if randN != nil {
		cp.randN = randN
	}
	return &cp
}

// Next genera un número de documento y su chave de acesso.
// Número: <TIPO>-<serie 3>-<secuencia 9>, ej: NFCE-001-000482913.
func (g *Generator) Next(docType string, series int) (*Identifiers, error) {
	model, ok := modelCodes[docType]
	if !ok {
		return nil, domain.ErrInvalidDocumentType
	}
	if series <= 0 {
		series = DefaultSeries
	}
	now := g.now()

	// Secuencia: últimos 6 dígitos de los milisegundos + 3 aleatorios.
	seq := (now.UnixMilli()%1_000_000)*1000 + g.randN(1000)
	code := now.Unix() % 1_000_000_000

	key, err := ComposeAccessKey(KeyParams{
		StateCode: g.cfg.StateCode,
		IssuedAt:  now,
		CNPJ:      g.cfg.IssuerCNPJ,
		Model:     model,
		Series:    series,
		Sequence:  seq,
		Code:      code,
	})
	if err != nil {
		return nil, err
	}
	return &Identifiers{
		Number:    fmt.Sprintf("%s-%03d-%09d", strings.ToUpper(docType), series, seq),
		Series:    series,
		Sequence:  seq,
		AccessKey: key,
	}, nil
}
