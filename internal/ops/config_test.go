package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/model"
	"tradecore/internal/model/enum"
	"tradecore/internal/stub"
	"tradecore/pkg/conn"
	"tradecore/pkg/exception"
)

const yamlConfig = `
trader_id: TESTER-000
strategies: [SCALPER-01, SCALPER-02]
registry:
  venues: [FXCM]
  instruments:
    - symbol: AUDUSD.FXCM
      broker_symbol: AUD/USD
      quote_currency: USD
      security_type: FOREX
      tick_precision: 5
      tick_size: "0.00001"
      round_lot_size: 1000
      min_trade_size: 1
      max_trade_size: 50000000
      margin_requirement: "0.03"
account:
  id: FXCM-D102412895
  broker: FXCM
  currency: USD
  cash: "25000.00"
backend:
  socket: /tmp/backend.sock
  write_timeout_ms: 500
journal:
  enabled: true
  driver: sqlite
  path: journal.db
queue_capacity: 64
paper:
  max_fill_quantity: 250
  marks:
    AUDUSD.FXCM: "0.65000"
`

const jsonConfig = `{
  "trader_id": "TESTER-000",
  "strategies": ["SCALPER-01", "SCALPER-02"],
  "registry": {
    "venues": ["FXCM"],
    "instruments": [{
      "symbol": "AUDUSD.FXCM",
      "broker_symbol": "AUD/USD",
      "quote_currency": "USD",
      "security_type": "FOREX",
      "tick_precision": 5,
      "tick_size": "0.00001",
      "round_lot_size": 1000,
      "min_trade_size": 1,
      "max_trade_size": 50000000,
      "margin_requirement": "0.03"
    }]
  },
  "account": {"id": "FXCM-D102412895", "broker": "FXCM", "currency": "USD", "cash": "25000.00"},
  "backend": {"socket": "/tmp/backend.sock", "write_timeout_ms": 500},
  "journal": {"enabled": true, "driver": "sqlite", "path": "journal.db"},
  "queue_capacity": 64,
  "paper": {"max_fill_quantity": 250, "marks": {"AUDUSD.FXCM": "0.65000"}}
}`

func TestDecodeFormats(t *testing.T) {
	fromYAML, err := Decode([]byte(yamlConfig), FormatYAML)
	require.NoError(t, err)
	fromJSON, err := Decode([]byte(jsonConfig), FormatJSON)
	require.NoError(t, err)

	for _, loaded := range []Loaded{fromYAML, fromJSON} {
		assert.Equal(t, stub.TraderID, loaded.TraderID)
		assert.Equal(t, []model.StrategyID{"SCALPER-01", "SCALPER-02"}, loaded.Strategies)

		inst, ok := loaded.Registry.Instrument(stub.AUDUSD)
		require.True(t, ok)
		assert.Equal(t, "AUD/USD", inst.BrokerSymbol)
		assert.Equal(t, enum.SecurityTypeForex, inst.SecurityType)
		assert.Equal(t, "0.00001", inst.TickSize.String())
		assert.EqualValues(t, 50000000, inst.MaxTradeSize)

		assert.Equal(t, "/tmp/backend.sock", loaded.Backend.Socket)
		assert.Equal(t, 500*time.Millisecond, loaded.Backend.WriteTimeout)
		assert.True(t, loaded.Journal.Enabled)
		assert.Equal(t, conn.DriverSQLite, loaded.Journal.Option.Driver)
		assert.Equal(t, 64, loaded.QueueCapacity)

		assert.Equal(t, model.AccountID("FXCM-D102412895"), loaded.Paper.Account.ID)
		assert.Equal(t, enum.BrokerFXCM, loaded.Paper.Account.Broker)
		assert.Equal(t, "25000.00", loaded.Paper.Account.Cash.String())
		assert.EqualValues(t, 250, loaded.Paper.MaxFillQuantity)
		assert.Equal(t, "0.65000", loaded.Marks[stub.AUDUSD].String())
	}
}

func TestDefaults(t *testing.T) {
	loaded, err := Decode([]byte(`{"trader_id": "T-1"}`), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, DefaultSocket, loaded.Backend.Socket)
	assert.Equal(t, DefaultQueueCapacity, loaded.QueueCapacity)
	assert.Equal(t, DefaultApplication, loaded.Profiling.Application)
	assert.False(t, loaded.Journal.Enabled)
	assert.Equal(t, enum.BrokerSimulated, loaded.Paper.Account.Broker)
	assert.Equal(t, enum.CurrencyUSD, loaded.Paper.Account.Currency)
	assert.Zero(t, loaded.Registry.InstrumentCount())
	assert.Empty(t, loaded.Strategies)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "trader.yml")
	jsonPath := filepath.Join(dir, "trader.json")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlConfig), 0o600))
	require.NoError(t, os.WriteFile(jsonPath, []byte(jsonConfig), 0o600))

	assert.Equal(t, FormatYAML, FormatOf(yamlPath))
	assert.Equal(t, FormatJSON, FormatOf(jsonPath))

	a, err := Load(yamlPath)
	require.NoError(t, err)
	b, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, a.Marks, b.Marks)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveErrors(t *testing.T) {
	base := func() FileConfig {
		return FileConfig{
			TraderID: "T-1",
			Registry: RegistryConfig{
				Venues: []string{"FXCM"},
				Instruments: []InstrumentConfig{{
					Symbol:        "AUDUSD.FXCM",
					QuoteCurrency: "USD",
					SecurityType:  "FOREX",
					TickSize:      "0.00001",
					MinTradeSize:  1,
					MaxTradeSize:  100,
				}},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*FileConfig)
		want   error
	}{
		{"empty trader", func(c *FileConfig) { c.TraderID = "" }, exception.ErrInvalidArgument},
		{"empty strategy", func(c *FileConfig) { c.Strategies = []string{""} }, exception.ErrInvalidArgument},
		{"duplicate venue", func(c *FileConfig) { c.Registry.Venues = append(c.Registry.Venues, "FXCM") }, exception.ErrInvalidArgument},
		{"unknown venue", func(c *FileConfig) { c.Registry.Venues = []string{"LMAX"} }, exception.ErrInvalidArgument},
		{"bad symbol", func(c *FileConfig) { c.Registry.Instruments[0].Symbol = "AUDUSD" }, exception.ErrInvalidArgument},
		{"bad currency", func(c *FileConfig) { c.Registry.Instruments[0].QuoteCurrency = "XXX" }, exception.ErrInvalidArgument},
		{"bad tick", func(c *FileConfig) { c.Registry.Instruments[0].TickSize = "tick" }, exception.ErrInvalidArgument},
		{"bad trade size", func(c *FileConfig) { c.Registry.Instruments[0].MaxTradeSize = 0 }, exception.ErrInvalidArgument},
		{"bad broker", func(c *FileConfig) { c.Account.Broker = "NOPE" }, exception.ErrInvalidArgument},
		{"bad cash", func(c *FileConfig) { c.Account.Cash = "lots" }, exception.ErrInvalidArgument},
		{"unknown driver", func(c *FileConfig) { c.Journal = JournalConfig{Enabled: true, Driver: "oracle"} }, exception.ErrUnknownDriver},
		{"sqlite without path", func(c *FileConfig) { c.Journal = JournalConfig{Enabled: true, Driver: "sqlite"} }, exception.ErrInvalidArgument},
		{"mark unknown instrument", func(c *FileConfig) { c.Paper.Marks = map[string]string{"EURUSD.FXCM": "1.1"} }, exception.ErrInvalidArgument},
		{"bad mark", func(c *FileConfig) { c.Paper.Marks = map[string]string{"AUDUSD.FXCM": "x"} }, exception.ErrInvalidArgument},
		{"negative fill size", func(c *FileConfig) { c.Paper.MaxFillQuantity = -1 }, exception.ErrInvalidArgument},
		{"profiling without server", func(c *FileConfig) { c.Profiling.Enabled = true }, exception.ErrInvalidArgument},
	}

	_, err := Resolve(base())
	require.NoError(t, err)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			_, err := Resolve(cfg)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSampleConfig(t *testing.T) {
	loaded, err := Load(filepath.Join("..", "..", "configs", "trader.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Registry.InstrumentCount())
	assert.Len(t, loaded.Marks, 2)
	assert.True(t, loaded.Journal.Enabled)
	assert.False(t, loaded.Profiling.Enabled)
}
