package importer

import "github.com/kz-accountant/accountant/internal/tabular"

// parseForteRow reads a ForteBank statement line. Forte headers are
// bilingual ("Күні/Дата", "Дебет / Дебет") and often carry long suffixes
// with requisites, so columns are matched by fragment.
func parseForteRow(index int, rec tabular.Record) (Row, SkipReason) {
	r := Row{
		Index:          index,
		DocumentNumber: rec.Find("номер документа", "құжат нөмірі", "№ док"),
		PayerName:      rec.Find("отправитель", "жіберуші"),
		ReceiverName:   rec.Find("получатель", "алушы"),
		Debit:          amountOrZero(rec.Find("дебет")).Abs(),
		Credit:         amountOrZero(rec.Find("кредит")).Abs(),
		Purpose:        rec.Find("назначение", "мақсаты"),
		Currency:       rec.Get("валюта", "валюта/валюта"),
		AccountIIK:     rec.Get("иик", "счет", "шот/счет"),
	}
	r.Date, _ = ParseSourceDate(rec.Find("күні", "дата"))
	return r, checkColumns(r)
}
