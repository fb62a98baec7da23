package format

import "github.com/leekchan/accounting"

var rupiah = accounting.Accounting{Symbol: "Rp", Precision: 0, Thousand: ".", Decimal: ","}

// Rupiah renders a whole-rupiah amount, e.g. 16000 -> "Rp16.000".
func Rupiah(amount int64) string {
	return rupiah.FormatMoneyInt(int(amount))
}
