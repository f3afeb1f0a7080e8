package nfe

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	appfiscal "github.com/jhoicas/reparo-api/internal/application/fiscal"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/reparo-api/internal/domain/fiscal"
	"github.com/jhoicas/reparo-api/pkg/brdoc"
	"github.com/jhoicas/reparo-api/pkg/textnorm"
)

var _ appfiscal.XMLBuilder = (*XMLBuilder)(nil)

// XMLBuilder construye el XML <nfeProc> de un documento emitido.
// La firma es simulada: se calcula el DigestValue del <infNFe> canonicalizado,
// sin SignatureValue ni certificado.
type XMLBuilder struct {
	loc *time.Location
}

// NewXMLBuilder crea el builder con horario de Brasília para las fechas.
func NewXMLBuilder() *XMLBuilder {
	return &XMLBuilder{loc: time.FixedZone("BRT", -3*60*60)}
}

// BuildXML genera los bytes del documento.
func (b *XMLBuilder) BuildXML(doc *entity.FiscalDocument, issuer *entity.Organization) ([]byte, error) {
	if doc == nil || issuer == nil {
		return nil, fmt.Errorf("nfe: faltan documento o emisor")
	}
	if !domfiscal.IsValidAccessKey(doc.AccessKey) {
		return nil, fmt.Errorf("nfe: chave de acesso inválida %q", doc.AccessKey)
	}

	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	proc := out.CreateElement("nfeProc")
	proc.CreateAttr("xmlns", NamespaceNFe)
	proc.CreateAttr("versao", layoutVersion)

	nfe := proc.CreateElement("NFe")
	inf := b.buildInfNFe(nfe, doc, issuer)

	digestValue := writeSignature(nfe, inf.SelectAttrValue("Id", ""))
	b.writeProtocol(proc, doc)

	// el digest se calcula después de indentar: los espacios forman parte de la forma canónica.
	out.Indent(2)
	digest, err := DigestElement(inf)
	if err != nil {
		return nil, err
	}
	digestValue.SetText(digest)

	data, err := out.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("nfe: serializar XML: %w", err)
	}
	return data, nil
}

// ── infNFe ────────────────────────────────────────────────────────────────────

func (b *XMLBuilder) buildInfNFe(parent *etree.Element, doc *entity.FiscalDocument, issuer *entity.Organization) *etree.Element {
	inf := parent.CreateElement("infNFe")
	inf.CreateAttr("Id", "NFe"+doc.AccessKey)
	inf.CreateAttr("versao", layoutVersion)

	ide := inf.CreateElement("ide")
	text(ide, "cUF", doc.AccessKey[:2])
	text(ide, "natOp", natureOfOperation(doc.Type))
	text(ide, "mod", doc.AccessKey[20:22])
	text(ide, "serie", strconv.Itoa(doc.Series))
	text(ide, "nNF", doc.Number)
	text(ide, "dhEmi", doc.IssueDate.In(b.loc).Format(time.RFC3339))
	text(ide, "tpAmb", "2") // homologação
	text(ide, "cDV", doc.AccessKey[len(doc.AccessKey)-1:])

	emit := inf.CreateElement("emit")
	text(emit, "CNPJ", textnorm.OnlyDigits(issuer.Document))
	text(emit, "xNome", issuer.Name)
	if issuer.Email != "" {
		text(emit, "email", issuer.Email)
	}
	if issuer.Phone != "" {
		text(emit, "fone", textnorm.OnlyDigits(issuer.Phone))
	}

	if doc.CustomerName != "" || doc.CustomerDocument != "" {
		dest := inf.CreateElement("dest")
		if kind := brdoc.Kind(doc.CustomerDocument); kind != "" {
			text(dest, kind, textnorm.OnlyDigits(doc.CustomerDocument))
		}
		if doc.CustomerName != "" {
			text(dest, "xNome", doc.CustomerName)
		}
	}

	for i, it := range doc.Items {
		det := inf.CreateElement("det")
		det.CreateAttr("nItem", strconv.Itoa(i+1))
		prod := det.CreateElement("prod")
		text(prod, "cProd", strconv.Itoa(i+1))
		text(prod, "xProd", it.Description)
		text(prod, "qCom", it.Quantity.StringFixed(4))
		text(prod, "vUnCom", it.UnitPrice.StringFixed(2))
		text(prod, "vProd", it.Total.StringFixed(2))
	}

	tot := inf.CreateElement("total").CreateElement("ICMSTot")
	text(tot, "vProd", doc.TotalValue.StringFixed(2))
	text(tot, "vNF", doc.TotalValue.StringFixed(2))

	if doc.Description != "" {
		text(inf.CreateElement("infAdic"), "infCpl", doc.Description)
	}
	return inf
}

// ── Signature ─────────────────────────────────────────────────────────────────

// writeSignature agrega el bloque <Signature> y devuelve su <DigestValue> vacío.
func writeSignature(parent *etree.Element, refID string) *etree.Element {
	sig := parent.CreateElement("Signature")
	sig.CreateAttr("xmlns", NamespaceDS)
	si := sig.CreateElement("SignedInfo")
	si.CreateElement("CanonicalizationMethod").CreateAttr("Algorithm", AlgC14N)
	ref := si.CreateElement("Reference")
	ref.CreateAttr("URI", "#"+refID)
	tr := ref.CreateElement("Transforms")
	tr.CreateElement("Transform").CreateAttr("Algorithm", TransformEnvel)
	tr.CreateElement("Transform").CreateAttr("Algorithm", AlgC14N)
	ref.CreateElement("DigestMethod").CreateAttr("Algorithm", AlgSHA256)
	return ref.CreateElement("DigestValue")
}

// ── protNFe ───────────────────────────────────────────────────────────────────

func (b *XMLBuilder) writeProtocol(parent *etree.Element, doc *entity.FiscalDocument) {
	prot := parent.CreateElement("protNFe")
	prot.CreateAttr("versao", layoutVersion)
	inf := prot.CreateElement("infProt")
	text(inf, "tpAmb", "2")
	text(inf, "chNFe", doc.AccessKey)

	received := doc.IssueDate
	if doc.AuthorizationDate != nil {
		received = *doc.AuthorizationDate
	}
	switch doc.Status {
	case entity.FiscalStatusCanceled:
		if doc.CancelationDate != nil {
			received = *doc.CancelationDate
		}
		text(inf, "dhRecbto", received.In(b.loc).Format(time.RFC3339))
		text(inf, "nProt", protocolNumber(doc.AccessKey))
		text(inf, "cStat", statCanceled)
		text(inf, "xMotivo", "Cancelamento de NF-e homologado")
		if doc.CancelReason != "" {
			text(inf, "xJust", doc.CancelReason)
		}
	case entity.FiscalStatusPending:
		text(inf, "dhRecbto", received.In(b.loc).Format(time.RFC3339))
		text(inf, "cStat", statPending)
		text(inf, "xMotivo", "Lote em processamento")
	default:
		text(inf, "dhRecbto", received.In(b.loc).Format(time.RFC3339))
		text(inf, "nProt", protocolNumber(doc.AccessKey))
		text(inf, "cStat", statAuthorized)
		text(inf, "xMotivo", "Autorizado o uso da NF-e")
	}
}

// protocolNumber deriva un nProt de 15 dígitos estable a partir de la chave.
func protocolNumber(key string) string {
	sum := sha256.Sum256([]byte(key))
	var n uint64
	for _, c := range sum[:8] {
		n = n<<8 | uint64(c)
	}
	return fmt.Sprintf("1%014d", n%100000000000000)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func text(parent *etree.Element, tag, value string) {
	parent.CreateElement(tag).SetText(value)
}

func natureOfOperation(docType string) string {
	if docType == entity.FiscalTypeNFS {
		return "Prestação de serviço"
	}
	return "Venda de mercadoria"
}

// DigestElement devuelve el SHA-256 en Base64 de la forma canónica (C14N) del elemento.
func DigestElement(el *etree.Element) (string, error) {
	canonical, err := Canonicalize(el)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}
