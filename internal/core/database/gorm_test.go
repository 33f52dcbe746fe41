package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	cases := []struct {
		name       string
		in         string
		user, pass string
		want       string
	}{
		{
			name: "native dsn untouched",
			in:   "root:pw@tcp(127.0.0.1:3306)/music?parseTime=true",
			want: "root:pw@tcp(127.0.0.1:3306)/music?parseTime=true",
		},
		{
			name: "jdbc url with overrides",
			in:   "jdbc:mysql://db:3306/music?useUnicode=true&characterEncoding=utf8mb4&useSSL=false",
			user: "app", pass: "secret",
			want: "app:secret@tcp(db:3306)/music?charset=utf8mb4&parseTime=true&tls=false",
		},
		{
			name: "credentials from query",
			in:   "mysql://db:3306/music?user=u&password=p&serverTimezone=UTC",
			want: "u:p@tcp(db:3306)/music?charset=utf8mb4&loc=UTC&parseTime=true",
		},
		{name: "empty", in: "  ", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeMySQLDSN(tc.in, tc.user, tc.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(h:1)/d", maskDSN("root:pw@tcp(h:1)/d"))
	assert.Equal(t, "music.db", maskDSN("music.db"))
}

func TestNewGormUnsupported(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewGormSQLiteMigrate(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}
