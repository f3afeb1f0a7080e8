// Package nfe genera el XML simulado de las notas (layout NF-e 4.00 simplificado)
// y consulta el estado de documentos importados.
package nfe

// Namespaces y algoritmos XMLDSig usados en el bloque <Signature>.
const (
	NamespaceNFe   = "http://www.portalfiscal.inf.br/nfe"
	NamespaceDS    = "http://www.w3.org/2000/09/xmldsig#"
	AlgC14N        = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgSHA256      = "http://www.w3.org/2001/04/xmlenc#sha256"
	TransformEnvel = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"

	layoutVersion = "4.00"
)

// cStat de la autorización simulada.
const (
	statAuthorized = "100"
	statCanceled   = "101"
	statPending    = "105"
)
