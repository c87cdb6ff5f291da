package enum

// Currency is an ISO 4217 style currency code.
type Currency uint8

const (
	_currency_beg Currency = iota
	CurrencyAUD
	CurrencyCAD
	CurrencyCHF
	CurrencyCNY
	CurrencyCNH
	CurrencyCZK
	CurrencyEUR
	CurrencyGBP
	CurrencyHKD
	CurrencyJPY
	CurrencyMXN
	CurrencyNOK
	CurrencyNZD
	CurrencyPLN
	CurrencyRUB
	CurrencySAR
	CurrencySEK
	CurrencySGD
	CurrencyTHB
	CurrencyTRY
	CurrencyUSD
	CurrencyXAG
	CurrencyXAU
	CurrencyZAR
	_currency_end
)

var currencyNames = newNames("currency", _currency_beg, _currency_end,
	"AUD", "CAD", "CHF", "CNY", "CNH", "CZK", "EUR", "GBP",
	"HKD", "JPY", "MXN", "NOK", "NZD", "PLN", "RUB", "SAR",
	"SEK", "SGD", "THB", "TRY", "USD", "XAG", "XAU", "ZAR",
)

func (c Currency) IsAvailable() bool {
	return c > _currency_beg && c < _currency_end
}

func (c Currency) String() string {
	return currencyNames.name(c)
}

func ParseCurrency(s string) (Currency, error) {
	return currencyNames.parse(s)
}

func Currencies() []Currency {
	return currencyNames.all()
}

// Broker identifies the brokerage behind an account.
type Broker uint8

const (
	_broker_beg Broker = iota
	BrokerSimulated
	BrokerFXCM
	BrokerDukascopy
	BrokerIB
	BrokerLMAX
	_broker_end
)

var brokerNames = newNames("broker", _broker_beg, _broker_end,
	"SIMULATED",
	"FXCM",
	"DUKASCOPY",
	"IB",
	"LMAX",
)

func (b Broker) IsAvailable() bool {
	return b > _broker_beg && b < _broker_end
}

func (b Broker) String() string {
	return brokerNames.name(b)
}

func ParseBroker(s string) (Broker, error) {
	return brokerNames.parse(s)
}

func Brokers() []Broker {
	return brokerNames.all()
}

// SecurityType forex, bond, equity, future, cfd, option, crypto
type SecurityType uint8

const (
	_security_type_beg SecurityType = iota
	SecurityTypeForex
	SecurityTypeBond
	SecurityTypeEquity
	SecurityTypeFuture
	SecurityTypeCFD
	SecurityTypeOption
	SecurityTypeCrypto
	_security_type_end
)

var securityTypeNames = newNames("security type", _security_type_beg, _security_type_end,
	"FOREX",
	"BOND",
	"EQUITY",
	"FUTURE",
	"CFD",
	"OPTION",
	"CRYPTO",
)

func (t SecurityType) IsAvailable() bool {
	return t > _security_type_beg && t < _security_type_end
}

func (t SecurityType) String() string {
	return securityTypeNames.name(t)
}

func ParseSecurityType(s string) (SecurityType, error) {
	return securityTypeNames.parse(s)
}

func SecurityTypes() []SecurityType {
	return securityTypeNames.all()
}
