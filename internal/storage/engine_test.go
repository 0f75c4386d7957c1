package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/carconsole/internal/clock"
	"codeberg.org/mutker/carconsole/internal/errors"
	"codeberg.org/mutker/carconsole/internal/logger"
	"codeberg.org/mutker/carconsole/internal/telemetry"
)

var epoch = time.Unix(1_700_000_000, 0)

func newEngine(t *testing.T) (*Engine, *clock.FakeClock) {
	t.Helper()
	dir := t.TempDir()
	clk := clock.NewFake(epoch)
	e, err := New(Config{
		MainPath:  filepath.Join(dir, "data.json"),
		BackupDir: filepath.Join(dir, "backups"),
	}, clk, logger.Nop())
	require.NoError(t, err)
	return e, clk
}

func sample(ts int64, speed float64) telemetry.Record {
	r := telemetry.Default()
	r.Timestamp = ts
	r.Speed = speed
	r.RPM = 2500
	r.Gear = 3
	return r
}

func TestSaveLoadRoundTrip(t *testing.T) {
	e, _ := newEngine(t)
	rec := sample(100, 72.5)
	rec.Latitude = telemetry.Float(52.37)
	rec.Longitude = telemetry.Float(4.89)

	require.NoError(t, e.Save(rec))
	got, err := e.Load()
	require.NoError(t, err)
	assert.True(t, rec.Equal(got))

	require.NoError(t, e.Save(sample(101, 80)))
	got, err = e.Load()
	require.NoError(t, err)
	assert.Equal(t, 80.0, got.Speed)
}

func TestLoadErrors(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.Load()
	assert.True(t, errors.HasCode(err, ErrNotFound))

	require.NoError(t, os.WriteFile(e.MainPath(), []byte(`{"speed": "fast"`), 0o644))
	_, err = e.Load()
	assert.True(t, errors.HasCode(err, ErrCorruptData))
	assert.False(t, e.IsHealthy())
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	e, _ := newEngine(t)
	require.NoError(t, e.Save(sample(1, 1)))

	entries, err := os.ReadDir(filepath.Dir(e.MainPath()))
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	e, clk := newEngine(t)
	records := []telemetry.Record{sample(10, 1), sample(11, 2), sample(11, 3), sample(12, 4)}

	id, err := e.SaveSession(records)
	require.NoError(t, err)
	assert.Equal(t, epoch.Unix(), id)
	assert.FileExists(t, e.MainPath()+".session_1700000000")

	got, err := e.LoadSession(id)
	require.NoError(t, err)
	require.Len(t, got, len(records))
	for i := range records {
		assert.True(t, records[i].Equal(got[i]))
	}

	_, err = e.SaveSession(records)
	assert.True(t, errors.HasCode(err, ErrIO), "same-second session must not overwrite")

	clk.Advance(time.Second)
	second, err := e.SaveSession(records[:1])
	require.NoError(t, err)

	ids, err := e.ListSessions()
	require.NoError(t, err)
	assert.Equal(t, []int64{id, second}, ids)

	_, err = e.LoadSession(42)
	assert.True(t, errors.HasCode(err, ErrNotFound))
}

func TestSaveSessionRejectsOutOfOrder(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.SaveSession([]telemetry.Record{sample(10, 1), sample(9, 2)})
	assert.True(t, errors.HasCode(err, ErrValidation))
	assert.True(t, errors.HasCode(err, telemetry.ErrOutOfOrder))
}

func TestEmptySession(t *testing.T) {
	e, _ := newEngine(t)
	id, err := e.SaveSession(nil)
	require.NoError(t, err)

	data, err := os.ReadFile(e.SessionPath(id))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCreateBackupWithoutMainFile(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.CreateBackup()
	assert.True(t, errors.HasCode(err, ErrNotFound))
	assert.NoDirExists(t, e.BackupDir())
}

func TestBackupIsByteIdentical(t *testing.T) {
	e, _ := newEngine(t)
	require.NoError(t, e.Save(sample(5, 50)))

	name, err := e.CreateBackup()
	require.NoError(t, err)
	assert.Equal(t, "backup_1700000000.json", name)

	want, err := os.ReadFile(e.MainPath())
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(e.BackupDir(), name))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func makeBackups(t *testing.T, e *Engine, clk *clock.FakeClock, n int) []string {
	t.Helper()
	var names []string
	for i := 0; i < n; i++ {
		require.NoError(t, e.Save(sample(int64(i), float64(i))))
		name, err := e.CreateBackup()
		require.NoError(t, err)
		names = append(names, name)
		clk.Advance(time.Second)
	}
	return names
}

func TestListBackupsChronological(t *testing.T) {
	e, clk := newEngine(t)
	names := makeBackups(t, e, clk, 3)
	require.NoError(t, os.WriteFile(filepath.Join(e.BackupDir(), "notes.txt"), nil, 0o644))

	got, err := e.ListBackups()
	require.NoError(t, err)
	assert.Equal(t, names, got)
}

func TestListBackupsMissingDir(t *testing.T) {
	e, _ := newEngine(t)
	got, err := e.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCleanOldBackups(t *testing.T) {
	e, clk := newEngine(t)
	names := makeBackups(t, e, clk, 5)

	deleted, err := e.CleanOldBackups(2)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	left, err := e.ListBackups()
	require.NoError(t, err)
	assert.Equal(t, names[3:], left)

	deleted, err = e.CleanOldBackups(5)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	_, err = e.CleanOldBackups(-1)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidArgument))
}

func TestRestoreBackup(t *testing.T) {
	e, clk := newEngine(t)
	names := makeBackups(t, e, clk, 2)

	require.NoError(t, e.RestoreBackup(names[0]))
	got, err := e.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Timestamp)

	assert.True(t, errors.HasCode(e.RestoreBackup("backup_1.json"), ErrNotFound))
	assert.True(t, errors.HasCode(e.RestoreBackup("../data.json"), ErrNotFound))
}

func TestBackupThenRestore(t *testing.T) {
	e, clk := newEngine(t)
	names := makeBackups(t, e, clk, 1)
	require.NoError(t, e.Save(sample(99, 99)))

	safety, err := e.BackupThenRestore(names[0])
	require.NoError(t, err)
	assert.NotEmpty(t, safety)

	got, err := e.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Timestamp)

	require.NoError(t, e.RestoreBackup(safety))
	got, err = e.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.Timestamp)
}

func TestExportCSV(t *testing.T) {
	e, _ := newEngine(t)
	rec := sample(1700000000, 88.5)
	rec.Gear = telemetry.GearReverse
	require.NoError(t, e.Save(rec))

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, e.ExportCSV(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "timestamp,speed,rpm,engine_temp,fuel_level,battery_voltage,oil_pressure,"+
		"throttle_position,brake_pressure,gear,acceleration,brake_temperature,"+
		"tire_pressure_fl,tire_pressure_fr,tire_pressure_rl,tire_pressure_rr", strings.Join(rows[0], ","))
	assert.Equal(t, []string{"1700000000", "88.5", "2500", "70", "100", "12.6", "40", "0", "0", "-1",
		"0", "70", "32", "32", "32", "32"}, rows[1])
}

func TestExportSessionCSV(t *testing.T) {
	e, _ := newEngine(t)
	id, err := e.SaveSession([]telemetry.Record{sample(1, 1), sample(2, 2), sample(3, 3)})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.csv")
	require.NoError(t, e.ExportSessionCSV(id, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 4)
}

func TestStatsAndHealth(t *testing.T) {
	e, clk := newEngine(t)

	st, err := e.Stats()
	require.NoError(t, err)
	assert.False(t, st.MainExists)
	assert.True(t, e.IsHealthy())
	assert.Equal(t, "0.0 B", e.FileSizeHuman())

	makeBackups(t, e, clk, 2)
	_, err = e.SaveSession([]telemetry.Record{sample(1, 1)})
	require.NoError(t, err)

	st, err = e.Stats()
	require.NoError(t, err)
	assert.True(t, st.MainExists)
	assert.Positive(t, st.MainSize)
	assert.Equal(t, 2, st.BackupCount)
	assert.Equal(t, 1, st.SessionCount)
	assert.True(t, e.IsHealthy())
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0.0 B"},
		{1023, "1023.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048575, "1.0 MB"},
		{1<<20 - 1<<10, "1023.0 KB"},
		{1 << 20, "1.0 MB"},
		{5 << 30, "5.0 GB"},
		{2048 << 30, "2048.0 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.n), tt.n)
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{BackupDir: "b"}.Validate())
	assert.Error(t, Config{MainPath: "data/x.json", BackupDir: "data"}.Validate())
}
