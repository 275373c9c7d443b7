package importer

import "github.com/kz-accountant/accountant/internal/tabular"

// parseOneCRow reads a statement exported from 1C:Accounting as a table.
func parseOneCRow(index int, rec tabular.Record) (Row, SkipReason) {
	party := rec.Find("контрагент")
	r := Row{
		Index:          index,
		DocumentNumber: rec.Get("номер", "номер документа", "№", "№ документа"),
		PayerName:      party,
		ReceiverName:   party,
		Debit:          amountOrZero(rec.Find("дебет")).Abs(),
		Credit:         amountOrZero(rec.Find("кредит")).Abs(),
		Purpose:        rec.Find("назначение", "содержание", "комментарий"),
		Currency:       rec.Get("валюта"),
		AccountIIK:     rec.Get("счет", "иик", "расчетный счет", "банковский счет"),
	}
	r.Date, _ = ParseSourceDate(rec.Get("дата", "дата документа", "дата операции"))
	return r, checkColumns(r)
}
