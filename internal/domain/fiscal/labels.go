package fiscal

import "github.com/jhoicas/reparo-api/internal/domain/entity"

// TypeLabel nombre comercial del tipo (NF-e, NFC-e, NFS-e).
func TypeLabel(docType string) string {
	switch docType {
	case entity.FiscalTypeNF:
		return "NF-e"
	case entity.FiscalTypeNFCe:
		return "NFC-e"
	case entity.FiscalTypeNFS:
		return "NFS-e"
	}
	return docType
}

// StatusLabel estado en portugués, como se imprime en el comprobante.
func StatusLabel(status string) string {
	switch status {
	case entity.FiscalStatusDraft:
		return "Rascunho"
	case entity.FiscalStatusPending:
		return "Pendente"
	case entity.FiscalStatusAuthorized:
		return "Autorizada"
	case entity.FiscalStatusCanceled:
		return "Cancelada"
	}
	return status
}
