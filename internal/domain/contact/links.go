// Package contact arma los enlaces de contacto rápido (llamada, SMS, e-mail, WhatsApp).
package contact

import (
	"net/url"
	"strings"

	"github.com/jhoicas/reparo-api/pkg/textnorm"
)

// DefaultCountryCode prefijo internacional aplicado a teléfonos nacionales (Brasil).
const DefaultCountryCode = "55"

// Links enlaces listos para usar en href.
type Links struct {
	Tel      string `json:"tel,omitempty"`
	SMS      string `json:"sms,omitempty"`
	Mailto   string `json:"mailto,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
}

// InternationalPhone devuelve el teléfono en formato E.164 sin "+".
// Números de 10 u 11 dígitos (DDD + número) reciben el prefijo del país.
func InternationalPhone(phone string) string {
	d := textnorm.OnlyDigits(phone)
	d = strings.TrimLeft(d, "0")
	if len(d) == 10 || len(d) == 11 {
		return DefaultCountryCode + d
	}
	return d
}

// Build arma los enlaces. Si whatsapp está vacío se usa phone.
func Build(phone, whatsapp, email, message string) Links {
	var l Links
	if p := InternationalPhone(phone); p != "" {
		l.Tel = "tel:+" + p
		l.SMS = "sms:+" + p
		if message != "" {
			l.SMS += "?body=" + url.QueryEscape(message)
		}
	}
	if whatsapp == "" {
		whatsapp = phone
	}
	l.WhatsApp = WhatsAppLink(whatsapp, message)
	if email = strings.TrimSpace(email); email != "" {
		l.Mailto = MailtoLink(email, "", message)
	}
	return l
}

// WhatsAppLink enlace wa.me; sin teléfono abre el selector de contacto.
func WhatsAppLink(phone, message string) string {
	p := InternationalPhone(phone)
	link := "https://wa.me/" + p
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	if p == "" && message == "" {
		return ""
	}
	return link
}

// MailtoLink enlace mailto con asunto y cuerpo opcionales.
func MailtoLink(email, subject, body string) string {
	q := url.Values{}
	if subject != "" {
		q.Set("subject", subject)
	}
	if body != "" {
		q.Set("body", body)
	}
	link := "mailto:" + email
	if len(q) > 0 {
		// mailto espera %20, no "+".
		link += "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
	}
	return link
}
