package conn

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/pkg/exception"
)

func TestPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want string
	}{
		{
			name: "defaults",
			opt:  Option{},
			want: "postgres://localhost:5432?sslmode=disable",
		},
		{
			name: "full",
			opt: Option{
				Host:     "db",
				Port:     6543,
				User:     "trader",
				Password: "secret",
				Database: "journal",
				SSLMode:  "require",
				Params:   map[string]string{"application_name": "tradecore", "": "skip"},
			},
			want: "postgres://trader:secret@db:6543/journal?application_name=tradecore&sslmode=require",
		},
		{
			name: "conn string wins",
			opt:  Option{Host: "ignored", ConnString: "postgres://x@y/z"},
			want: "postgres://x@y/z",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.opt.dsn()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			_, err = url.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func TestSQLiteMemory(t *testing.T) {
	c, err := New(Option{Driver: DriverSQLite, Path: SQLiteMemory})
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	assert.Equal(t, DriverSQLite, c.Driver())
	require.NoError(t, c.DB().Exec("CREATE TABLE probe (v INTEGER)").Error)
	require.NoError(t, c.DB().Exec("INSERT INTO probe (v) VALUES (1), (2)").Error)

	var n int64
	require.NoError(t, c.DB().Table("probe").Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestOptionErrors(t *testing.T) {
	_, err := New(Option{Driver: "oracle"})
	assert.ErrorIs(t, err, exception.ErrUnknownDriver)

	_, err = New(Option{Driver: DriverSQLite})
	assert.ErrorIs(t, err, exception.ErrInvalidArgument)

	var c *Client
	assert.Nil(t, c.DB())
	assert.NoError(t, c.Close())
	assert.Equal(t, Driver(""), c.Driver())
}
