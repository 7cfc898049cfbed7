package migrations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/migrations"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/test/testutils"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		in      string
		want    migrations.Action
		wantErr bool
	}{
		{in: "up", want: migrations.Action{Kind: migrations.ActionUp}},
		{in: " Down ", want: migrations.Action{Kind: migrations.ActionDown}},
		{in: "reset", want: migrations.Action{Kind: migrations.ActionReset}},
		{in: "version", want: migrations.Action{Kind: migrations.ActionVersion}},
		{in: "force:3", want: migrations.Action{Kind: migrations.ActionForce, Version: 3}},
		{in: "force", wantErr: true},
		{in: "force:-1", wantErr: true},
		{in: "up:2", wantErr: true},
		{in: "drop", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := migrations.ParseAction(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, migrations.ErrUnknownAction)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrator_DownResetForce(t *testing.T) {
	td := testutils.SetupTestDatabase(t)

	m, err := migrations.New(td.DB, testutils.DefaultDatabaseConfig().Database, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { assert.NoError(t, m.Close()) }()

	version := func() uint {
		v, dirty, err := m.Version()
		require.NoError(t, err)
		require.False(t, dirty)
		return v
	}
	require.Equal(t, uint(1), version(), "SetupTestDatabase migrates to the latest version")

	require.NoError(t, m.Run(migrations.Action{Kind: migrations.ActionDown}))
	assert.Equal(t, uint(0), version())

	require.NoError(t, m.Run(migrations.Action{Kind: migrations.ActionUp}))
	assert.Equal(t, uint(1), version())

	require.NoError(t, m.Run(migrations.Action{Kind: migrations.ActionForce, Version: 1}))
	assert.Equal(t, uint(1), version())

	require.NoError(t, m.Run(migrations.Action{Kind: migrations.ActionReset}))
	assert.Equal(t, uint(0), version())
	require.NoError(t, m.Reset(), "reset of an empty schema is a no-op")

	require.NoError(t, td.DB.Ping(), "closing the migrator leaves the pool open")
}
