package nfe

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"
)

// Canonicalize devuelve la forma C14N inclusiva del elemento. Los xmlns declarados
// en los ancestros se copian al elemento, como exige C14N para un subconjunto.
func Canonicalize(el *etree.Element) ([]byte, error) {
	if el == nil {
		return nil, fmt.Errorf("nfe: elemento nulo")
	}
	cp := el.Copy()
	for p := el.Parent(); p != nil; p = p.Parent() {
		for _, a := range p.Attr {
			if !isNamespaceAttr(a) || cp.SelectAttr(a.FullKey()) != nil {
				continue
			}
			cp.CreateAttr(a.FullKey(), a.Value)
		}
	}

	doc := etree.NewDocument()
	doc.SetRoot(cp)
	raw, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("nfe: serializar elemento: %w", err)
	}
	return canonicalizeBytes(raw)
}

func canonicalizeBytes(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("nfe: canonicalizar: %w", err)
	}
	return out, nil
}

func isNamespaceAttr(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") || strings.HasPrefix(a.FullKey(), "xmlns:")
}
