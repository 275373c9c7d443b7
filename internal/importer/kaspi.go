package importer

import "github.com/kz-accountant/accountant/internal/tabular"

// parseKaspiRow reads a Kaspi Business or Kaspi Gold export line. Business
// exports have separate write-off/top-up columns; Gold exports have a single
// signed "Сумма" where a minus means a write-off.
func parseKaspiRow(index int, rec tabular.Record) (Row, SkipReason) {
	details := rec.Find("описание", "детали", "назначение")
	party := rec.Find("контрагент")
	if party == "" {
		party = details
	}

	r := Row{
		Index:          index,
		DocumentNumber: rec.Get("номер документа", "номер"),
		PayerName:      party,
		ReceiverName:   party,
		Purpose:        details,
		CategoryHint:   rec.Get("категория"),
		Currency:       rec.Get("валюта"),
		AccountIIK:     rec.Get("иик", "счет", "номер счета"),
	}
	r.Date, _ = ParseSourceDate(rec.Find("дата операции", "дата"))

	if rec.Has("списан") || rec.Has("пополнен") {
		r.Debit = amountOrZero(rec.Find("списан")).Abs()
		r.Credit = amountOrZero(rec.Find("пополнен")).Abs()
	} else {
		signed := amountOrZero(rec.Get("сумма"))
		if signed.IsNegative() {
			r.Debit = signed.Abs()
		} else {
			r.Credit = signed
		}
	}
	return r, checkColumns(r)
}
