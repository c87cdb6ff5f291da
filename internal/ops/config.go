package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"tradecore/internal/broker/backend"
	"tradecore/internal/broker/paper"
	"tradecore/internal/model"
	"tradecore/internal/model/enum"
	"tradecore/pkg/conn"
	"tradecore/pkg/exception"
)

const (
	DefaultQueueCapacity = 1024
	DefaultSocket        = "/tmp/tradecore-backend.sock"
	DefaultApplication   = "tradecore.trader"
	defaultAccountCash   = "100000.00"
)

// Format is the encoding of a config file.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf picks the format from the file extension; anything that is not
// .yaml or .yml is read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FileConfig mirrors the config file layout.
type FileConfig struct {
	TraderID      string          `json:"trader_id" yaml:"trader_id"`
	Strategies    []string        `json:"strategies" yaml:"strategies"`
	Registry      RegistryConfig  `json:"registry" yaml:"registry"`
	Account       AccountConfig   `json:"account" yaml:"account"`
	Backend       BackendConfig   `json:"backend" yaml:"backend"`
	Journal       JournalConfig   `json:"journal" yaml:"journal"`
	QueueCapacity int             `json:"queue_capacity" yaml:"queue_capacity"`
	Profiling     ProfilingConfig `json:"profiling" yaml:"profiling"`
	Paper         PaperConfig     `json:"paper" yaml:"paper"`
}

// RegistryConfig defines venues and the instruments traded on them.
type RegistryConfig struct {
	Venues      []string           `json:"venues" yaml:"venues"`
	Instruments []InstrumentConfig `json:"instruments" yaml:"instruments"`
}

// InstrumentConfig describes an instrument entry. Decimals are strings so
// they keep their scale.
type InstrumentConfig struct {
	Symbol                string `json:"symbol" yaml:"symbol"`
	BrokerSymbol          string `json:"broker_symbol" yaml:"broker_symbol"`
	QuoteCurrency         string `json:"quote_currency" yaml:"quote_currency"`
	SecurityType          string `json:"security_type" yaml:"security_type"`
	TickPrecision         int    `json:"tick_precision" yaml:"tick_precision"`
	TickSize              string `json:"tick_size" yaml:"tick_size"`
	RoundLotSize          int64  `json:"round_lot_size" yaml:"round_lot_size"`
	MinStopDistanceEntry  int    `json:"min_stop_distance_entry" yaml:"min_stop_distance_entry"`
	MinLimitDistanceEntry int    `json:"min_limit_distance_entry" yaml:"min_limit_distance_entry"`
	MinStopDistance       int    `json:"min_stop_distance" yaml:"min_stop_distance"`
	MinLimitDistance      int    `json:"min_limit_distance" yaml:"min_limit_distance"`
	MinTradeSize          int64  `json:"min_trade_size" yaml:"min_trade_size"`
	MaxTradeSize          int64  `json:"max_trade_size" yaml:"max_trade_size"`
	MarginRequirement     string `json:"margin_requirement" yaml:"margin_requirement"`
	RolloverInterestBuy   string `json:"rollover_interest_buy" yaml:"rollover_interest_buy"`
	RolloverInterestSell  string `json:"rollover_interest_sell" yaml:"rollover_interest_sell"`
}

// AccountConfig describes the trading account.
type AccountConfig struct {
	ID       string `json:"id" yaml:"id"`
	Broker   string `json:"broker" yaml:"broker"`
	Number   string `json:"number" yaml:"number"`
	Currency string `json:"currency" yaml:"currency"`
	Cash     string `json:"cash" yaml:"cash"`
}

// BackendConfig locates the broker backend socket.
type BackendConfig struct {
	Socket         string `json:"socket" yaml:"socket"`
	MaxFrameSize   int    `json:"max_frame_size" yaml:"max_frame_size"`
	WriteTimeoutMS int    `json:"write_timeout_ms" yaml:"write_timeout_ms"`
}

// JournalConfig selects the frame journal database.
type JournalConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Driver   string `json:"driver" yaml:"driver"`
	Path     string `json:"path" yaml:"path"`
	DSN      string `json:"dsn" yaml:"dsn"`
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`
	SSLMode  string `json:"ssl_mode" yaml:"ssl_mode"`
}

// ProfilingConfig controls continuous profiling.
type ProfilingConfig struct {
	Enabled       bool              `json:"enabled" yaml:"enabled"`
	Application   string            `json:"application" yaml:"application"`
	ServerAddress string            `json:"server_address" yaml:"server_address"`
	Tags          map[string]string `json:"tags" yaml:"tags"`
}

// PaperConfig tunes the simulated broker.
type PaperConfig struct {
	MaxFillQuantity int64             `json:"max_fill_quantity" yaml:"max_fill_quantity"`
	Marks           map[string]string `json:"marks" yaml:"marks"`
}

// Journal is the resolved journal setting.
type Journal struct {
	Enabled bool
	Option  conn.Option
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	TraderID      model.TraderID
	Strategies    []model.StrategyID
	Registry      *model.Registry
	Backend       backend.Config
	Journal       Journal
	QueueCapacity int
	Profiling     ProfilingConfig
	Paper         paper.Config
	Marks         map[model.Symbol]model.Price
}

// Load reads a config file, choosing the decoder by extension.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	loaded, err := Decode(data, FormatOf(path))
	if err != nil {
		return Loaded{}, fmt.Errorf("config %s: %w", path, err)
	}
	return loaded, nil
}

// Decode parses and resolves a config document.
func Decode(data []byte, format Format) (Loaded, error) {
	var cfg FileConfig
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Loaded{}, err
		}
	default:
		if err := sonic.Unmarshal(data, &cfg); err != nil {
			return Loaded{}, err
		}
	}
	return Resolve(cfg)
}

// Resolve validates cfg and fills in defaults.
func Resolve(cfg FileConfig) (Loaded, error) {
	traderID, err := model.NewTraderID(cfg.TraderID)
	if err != nil {
		return Loaded{}, invalid(err)
	}
	strategies := make([]model.StrategyID, 0, len(cfg.Strategies))
	for _, s := range cfg.Strategies {
		id, err := model.NewStrategyID(s)
		if err != nil {
			return Loaded{}, invalid(err)
		}
		strategies = append(strategies, id)
	}
	registry, err := buildRegistry(cfg.Registry)
	if err != nil {
		return Loaded{}, err
	}
	account, err := resolveAccount(cfg.Account)
	if err != nil {
		return Loaded{}, err
	}
	journal, err := resolveJournal(cfg.Journal)
	if err != nil {
		return Loaded{}, err
	}
	marks, err := resolveMarks(cfg.Paper.Marks, registry)
	if err != nil {
		return Loaded{}, err
	}
	if cfg.Paper.MaxFillQuantity < 0 {
		return Loaded{}, invalidf("paper max_fill_quantity must be >= 0")
	}

	loaded := Loaded{
		TraderID:   traderID,
		Strategies: strategies,
		Registry:   registry,
		Backend: backend.Config{
			Socket:       cfg.Backend.Socket,
			MaxFrameSize: cfg.Backend.MaxFrameSize,
			WriteTimeout: time.Duration(cfg.Backend.WriteTimeoutMS) * time.Millisecond,
		},
		Journal:       journal,
		QueueCapacity: cfg.QueueCapacity,
		Profiling:     cfg.Profiling,
		Paper: paper.Config{
			Account:         account,
			MaxFillQuantity: model.Quantity(cfg.Paper.MaxFillQuantity),
		},
		Marks: marks,
	}
	if loaded.Backend.Socket == "" {
		loaded.Backend.Socket = DefaultSocket
	}
	if loaded.QueueCapacity <= 0 {
		loaded.QueueCapacity = DefaultQueueCapacity
	}
	if loaded.Profiling.Application == "" {
		loaded.Profiling.Application = DefaultApplication
	}
	if loaded.Profiling.Enabled && loaded.Profiling.ServerAddress == "" {
		return Loaded{}, invalidf("profiling server_address is empty")
	}
	return loaded, nil
}

func buildRegistry(cfg RegistryConfig) (*model.Registry, error) {
	reg := model.NewRegistry()
	for _, venue := range cfg.Venues {
		if err := reg.AddVenue(model.Venue(venue)); err != nil {
			return nil, invalid(err)
		}
	}
	for _, ic := range cfg.Instruments {
		inst, err := resolveInstrument(ic)
		if err != nil {
			return nil, fmt.Errorf("instrument %q: %w", ic.Symbol, err)
		}
		if err := reg.AddInstrument(inst); err != nil {
			return nil, invalid(err)
		}
	}
	return reg, nil
}

func resolveInstrument(cfg InstrumentConfig) (model.Instrument, error) {
	var (
		inst model.Instrument
		err  error
	)
	if inst.Symbol, err = model.ParseSymbol(cfg.Symbol); err != nil {
		return model.Instrument{}, invalid(err)
	}
	if inst.QuoteCurrency, err = enum.ParseCurrency(cfg.QuoteCurrency); err != nil {
		return model.Instrument{}, invalid(err)
	}
	if inst.SecurityType, err = enum.ParseSecurityType(cfg.SecurityType); err != nil {
		return model.Instrument{}, invalid(err)
	}
	decimals := []struct {
		name  string
		value string
		dst   *model.Decimal
	}{
		{"tick_size", cfg.TickSize, &inst.TickSize},
		{"margin_requirement", cfg.MarginRequirement, &inst.MarginRequirement},
		{"rollover_interest_buy", cfg.RolloverInterestBuy, &inst.RolloverInterestBuy},
		{"rollover_interest_sell", cfg.RolloverInterestSell, &inst.RolloverInterestSell},
	}
	for _, d := range decimals {
		value := d.value
		if value == "" {
			value = "0"
		}
		if *d.dst, err = model.ParseDecimal(value); err != nil {
			return model.Instrument{}, invalidf("%s: %v", d.name, err)
		}
	}
	if cfg.MinTradeSize <= 0 || cfg.MaxTradeSize < cfg.MinTradeSize {
		return model.Instrument{}, invalidf("trade size range [%d, %d]", cfg.MinTradeSize, cfg.MaxTradeSize)
	}

	inst.BrokerSymbol = cfg.BrokerSymbol
	if inst.BrokerSymbol == "" {
		inst.BrokerSymbol = inst.Symbol.Code
	}
	inst.TickPrecision = cfg.TickPrecision
	inst.RoundLotSize = model.Quantity(cfg.RoundLotSize)
	inst.MinStopDistanceEntry = cfg.MinStopDistanceEntry
	inst.MinLimitDistanceEntry = cfg.MinLimitDistanceEntry
	inst.MinStopDistance = cfg.MinStopDistance
	inst.MinLimitDistance = cfg.MinLimitDistance
	inst.MinTradeSize = model.Quantity(cfg.MinTradeSize)
	inst.MaxTradeSize = model.Quantity(cfg.MaxTradeSize)
	return inst, nil
}

func resolveAccount(cfg AccountConfig) (paper.AccountConfig, error) {
	if cfg.ID == "" {
		cfg.ID = "PAPER-001"
	}
	if cfg.Broker == "" {
		cfg.Broker = enum.BrokerSimulated.String()
	}
	if cfg.Number == "" {
		cfg.Number = cfg.ID
	}
	if cfg.Currency == "" {
		cfg.Currency = enum.CurrencyUSD.String()
	}
	if cfg.Cash == "" {
		cfg.Cash = defaultAccountCash
	}

	var (
		out paper.AccountConfig
		err error
	)
	if out.ID, err = model.NewAccountID(cfg.ID); err != nil {
		return paper.AccountConfig{}, invalid(err)
	}
	if out.Broker, err = enum.ParseBroker(cfg.Broker); err != nil {
		return paper.AccountConfig{}, invalid(err)
	}
	if out.Number, err = model.NewAccountNumber(cfg.Number); err != nil {
		return paper.AccountConfig{}, invalid(err)
	}
	if out.Currency, err = enum.ParseCurrency(cfg.Currency); err != nil {
		return paper.AccountConfig{}, invalid(err)
	}
	if out.Cash, err = model.ParseMoney(cfg.Cash); err != nil {
		return paper.AccountConfig{}, invalid(err)
	}
	return out, nil
}

func resolveJournal(cfg JournalConfig) (Journal, error) {
	if !cfg.Enabled {
		return Journal{}, nil
	}
	opt := conn.Option{
		Driver:     conn.Driver(cfg.Driver),
		Path:       cfg.Path,
		ConnString: cfg.DSN,
		Host:       cfg.Host,
		Port:       cfg.Port,
		User:       cfg.User,
		Password:   cfg.Password,
		Database:   cfg.Database,
		SSLMode:    cfg.SSLMode,
	}
	switch opt.Driver {
	case "", conn.DriverPostgres:
	case conn.DriverSQLite:
		if opt.Path == "" && opt.ConnString == "" {
			return Journal{}, invalidf("journal sqlite path is empty")
		}
	default:
		return Journal{}, fmt.Errorf("%w: %q", exception.ErrUnknownDriver, cfg.Driver)
	}
	return Journal{Enabled: true, Option: opt}, nil
}

func resolveMarks(cfg map[string]string, reg *model.Registry) (map[model.Symbol]model.Price, error) {
	marks := make(map[model.Symbol]model.Price, len(cfg))
	for s, p := range cfg {
		symbol, err := model.ParseSymbol(s)
		if err != nil {
			return nil, invalid(err)
		}
		if _, ok := reg.Instrument(symbol); !ok {
			return nil, invalidf("mark for unknown instrument %s", symbol)
		}
		price, err := model.ParsePrice(p)
		if err != nil {
			return nil, invalidf("mark %s: %v", symbol, err)
		}
		marks[symbol] = price
	}
	return marks, nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", exception.ErrInvalidArgument, err)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", exception.ErrInvalidArgument, fmt.Sprintf(format, args...))
}
