package importer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// The 1C client-bank exchange format is a flat list of Key=Value lines.
// A header section precedes one block per payment document:
//
//	1CClientBankExchange
//	СекцияРасчСчет
//	РасчСчет=KZ...
//	ВсегоПоступило=100.00
//	ВсегоСписано=40.00
//	КонецРасчСчет
//	СекцияДокумент=Платежное поручение
//	Номер=118
//	...
//	КонецДокумента
const (
	exchangeDocumentEnd = "КонецДокумента"
	exchangeFileEnd     = "КонецФайла"
)

var (
	exchangeKeyValue = regexp.MustCompile(`^\s*([^=\s]+)\s*=(.*)$`)
	declaredReceived = regexp.MustCompile(`(?m)^\s*ВсегоПоступило\s*=\s*(\S.*?)\s*$`)
	declaredSpent    = regexp.MustCompile(`(?m)^\s*ВсегоСписано\s*=\s*(\S.*?)\s*$`)
)

// exchangeBlock holds the Key=Value pairs of one section. Repeated keys keep
// their first value.
type exchangeBlock map[string]string

func (b exchangeBlock) get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(b[k]); v != "" {
			return v
		}
	}
	return ""
}

type exchangeFile struct {
	header    exchangeBlock
	documents []exchangeBlock
}

// parseExchange splits the text on the document marker and reads Key=Value
// pairs per block. Lines after КонецДокумента belong to no block.
func parseExchange(text string) exchangeFile {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	chunks := strings.Split(text, exchangeDocumentMarker)

	f := exchangeFile{header: parseExchangeBlock(chunks[0])}
	for _, chunk := range chunks[1:] {
		if i := strings.Index(chunk, exchangeDocumentEnd); i >= 0 {
			chunk = chunk[:i]
		} else if i := strings.Index(chunk, exchangeFileEnd); i >= 0 {
			chunk = chunk[:i]
		}
		block := parseExchangeBlock(chunk)
		// The marker consumed "СекцияДокумент=", leaving the document kind
		// as the first line.
		kind, _, _ := strings.Cut(chunk, "\n")
		block["СекцияДокумент"] = strings.TrimSpace(kind)
		f.documents = append(f.documents, block)
	}
	return f
}

func parseExchangeBlock(chunk string) exchangeBlock {
	b := exchangeBlock{}
	for _, line := range strings.Split(chunk, "\n") {
		m := exchangeKeyValue.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if _, seen := b[m[1]]; !seen {
			b[m[1]] = strings.TrimSpace(m[2])
		}
	}
	return b
}

// statementAccount is the account the statement was issued for, if declared.
func (f exchangeFile) statementAccount() string {
	return f.header.get("РасчСчет", "ИИК")
}

// parseExchangeDocument normalizes one СекцияДокумент block. Dates are
// "DD.MM.YYYY"; the amount is unsigned, direction comes from the IIKs.
func parseExchangeDocument(index int, doc exchangeBlock) (Row, SkipReason) {
	r := Row{
		Index:          index,
		DocumentNumber: doc.get("Номер"),
		PayerName:      doc.get("Плательщик", "Плательщик1", "ПлательщикНаименование"),
		ReceiverName:   doc.get("Получатель", "Получатель1", "ПолучательНаименование"),
		PayerIIK:       doc.get("ПлательщикИИК", "ПлательщикСчет", "ПлательщикРасчСчет"),
		ReceiverIIK:    doc.get("ПолучательИИК", "ПолучательСчет", "ПолучательРасчСчет"),
		Amount:         amountOrZero(doc.get("Сумма")).Abs(),
		Purpose:        doc.get("НазначениеПлатежа", "НазначениеПлатежа1", "Назначение"),
		Currency:       doc.get("Валюта", "КодВалюты"),
	}
	r.Date, _ = ParseSourceDate(doc.get("Дата", "ДатаСписано", "ДатаПоступило", "ДатаДокумента"))

	switch {
	case r.Date.IsZero():
		return r, SkipMissingDate
	case r.Amount.IsZero():
		return r, SkipZeroAmount
	}
	return r, ""
}

// ExtractDeclaredTotals reads ВсегоПоступило / ВсегоСписано from source text.
// It returns nil when neither is present.
func ExtractDeclaredTotals(text string) *DeclaredTotals {
	var d DeclaredTotals
	if m := declaredReceived.FindStringSubmatch(text); m != nil {
		if v, ok := ParseLocaleAmount(m[1]); ok {
			d.Received = decimal.NewNullDecimal(v)
		}
	}
	if m := declaredSpent.FindStringSubmatch(text); m != nil {
		if v, ok := ParseLocaleAmount(m[1]); ok {
			d.Spent = decimal.NewNullDecimal(v)
		}
	}
	if !d.Received.Valid && !d.Spent.Valid {
		return nil
	}
	return &d
}
