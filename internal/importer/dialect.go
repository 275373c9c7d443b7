package importer

import (
	"regexp"
	"strings"

	"github.com/kz-accountant/accountant/internal/tabular"
)

// Dialect is one of the recognized statement shapes.
type Dialect string

const (
	DialectForte        Dialect = "forte"
	DialectKaspi        Dialect = "kaspi"
	DialectOneC         Dialect = "onec"
	DialectOneCExchange Dialect = "onec-exchange"
	DialectGeneric      Dialect = "generic"
)

var exchangeSignature = regexp.MustCompile(`(?i)1CClientBankExchange`)

const exchangeDocumentMarker = "СекцияДокумент="

// Header markers per dialect, lower-case. Checked in the order Forte, Kaspi, 1C.
var (
	forteMarkers = []string{"күні", "дебет / дебет", "дебет/дебет", "кредит / кредит", "кредит/кредит"}
	kaspiMarkers = []string{"дата операции", "сумма списания", "сумма пополнения", "категория"}
	oneCMarkers  = []string{"дата", "дебет", "кредит", "контрагент", "назначение"}
)

// IsExchangeText reports whether text is a 1C client-bank exchange file.
func IsExchangeText(text string) bool {
	return exchangeSignature.MatchString(text) || strings.Contains(text, exchangeDocumentMarker)
}

// DetectHeaders classifies a tabular header row. The result does not depend
// on column order.
func DetectHeaders(headers []string) Dialect {
	norm := make([]string, 0, len(headers))
	for _, h := range headers {
		if n := tabular.NormalizeHeader(h); n != "" {
			norm = append(norm, n)
		}
	}

	switch {
	case anyContains(norm, forteMarkers):
		return DialectForte
	case anyContains(norm, kaspiMarkers):
		return DialectKaspi
	case anyContains(norm, oneCMarkers):
		return DialectOneC
	}
	return DialectGeneric
}

// Detect classifies a source. Exchange text wins over any tabular headers.
func Detect(src Source) Dialect {
	if src.Text != "" && IsExchangeText(src.Text) {
		return DialectOneCExchange
	}
	if src.Table != nil {
		return DetectHeaders(src.Table.Headers)
	}
	return DialectGeneric
}

func anyContains(headers, markers []string) bool {
	for _, h := range headers {
		for _, m := range markers {
			if strings.Contains(h, m) {
				return true
			}
		}
	}
	return false
}
