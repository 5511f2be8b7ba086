package focus

// iso4217 holds the active ISO 4217 alphabetic codes the mapping
// accepts for BillingCurrency / PricingCurrency. The set covers every
// currency the HCS deployments bill in plus the majors; extend as new
// deployments appear.
var iso4217 = map[string]struct{}{
	"AED": {}, "ARS": {}, "AUD": {}, "BRL": {}, "BWP": {}, "CAD": {},
	"CHF": {}, "CNY": {}, "COP": {}, "CZK": {}, "DKK": {}, "EGP": {},
	"EUR": {}, "GBP": {}, "GHS": {}, "HKD": {}, "HUF": {}, "IDR": {},
	"ILS": {}, "INR": {}, "JPY": {}, "KES": {}, "KRW": {}, "KWD": {},
	"MAD": {}, "MXN": {}, "MYR": {}, "NGN": {}, "NOK": {}, "NZD": {},
	"PHP": {}, "PKR": {}, "PLN": {}, "QAR": {}, "RON": {}, "RUB": {},
	"RWF": {}, "SAR": {}, "SEK": {}, "SGD": {}, "THB": {}, "TRY": {},
	"TZS": {}, "UGX": {}, "USD": {}, "VND": {}, "XAF": {}, "XOF": {},
	"ZAR": {}, "ZMW": {},
}

// ValidCurrency reports whether code is a recognised ISO 4217
// alphabetic currency code.
func ValidCurrency(code string) bool {
	_, ok := iso4217[code]
	return ok
}
