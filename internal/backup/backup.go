// Package backup snapshots and restores the SQLite habit database.
package backup

import (
	"cmp"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
)

const stampLayout = "20060102-150405"

// Info describes one backup file
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
	seq       int
}

func (i Info) Name() string {
	return filepath.Base(i.Path)
}

// Manager handles backup operations for one database file
type Manager struct {
	dbPath    string
	backupDir string
	keep      int
	now       func() time.Time
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.backupDir
}

// CreateBackup snapshots the database and prunes backups beyond the retention limit.
func (m *Manager) CreateBackup() (string, error) {
	path, err := m.snapshot()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) snapshot() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if err := m.vacuumInto(path); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	logger.Info("created backup", "path", path)
	return path, nil
}

// nextPath picks habitual-YYYYMMDD-HHMMSS.db, adding -N when that second is taken
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(stampLayout)
	for n := 0; n <= 100; n++ {
		name := constants.BackupFilePrefix + stamp
		if n > 0 {
			name += "-" + strconv.Itoa(n)
		}
		path := filepath.Join(m.backupDir, name+constants.BackupFileSuffix)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

func (m *Manager) vacuumInto(dest string) error {
	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	if err := verify(src); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Warn("VACUUM INTO failed, copying file instead", "error", err)
		src.Close()
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// parseName extracts the timestamp and collision counter from a backup filename
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	seq := 0
	if len(stamp) > len(stampLayout) {
		suffix, ok := strings.CutPrefix(stamp[len(stampLayout):], "-")
		n, err := strconv.Atoi(suffix)
		if !ok || err != nil || n < 1 {
			return time.Time{}, 0, false
		}
		seq = n
		stamp = stamp[:len(stampLayout)]
	}
	ts, err := time.ParseInLocation(stampLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}

// ListBackups returns the available backups, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	slices.SortFunc(backups, func(a, b Info) int {
		return cmp.Or(b.Timestamp.Compare(a.Timestamp), cmp.Compare(b.seq, a.seq))
	})
	return backups, nil
}

// Latest returns the newest backup, or false when there is none.
func (m *Manager) Latest() (Info, bool, error) {
	backups, err := m.ListBackups()
	if err != nil || len(backups) == 0 {
		return Info{}, false, err
	}
	return backups[0], true, nil
}

func (m *Manager) rotate() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for _, b := range backups[min(m.keep, len(backups)):] {
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", b.Path, err)
		}
		logger.Debug("removed old backup", "path", b.Path)
	}
	return nil
}

// Resolve accepts a backup path or a bare filename inside the backup directory.
func (m *Manager) Resolve(nameOrPath string) string {
	if filepath.IsAbs(nameOrPath) || strings.ContainsRune(nameOrPath, filepath.Separator) {
		return nameOrPath
	}
	return filepath.Join(m.backupDir, nameOrPath)
}

// RestoreBackup replaces the database with backupPath. The current database is
// snapshotted first and the path of that snapshot is returned (empty when there
// was no database to save).
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := verifyFile(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var saved string
	if _, err := os.Stat(m.dbPath); err == nil {
		// skip rotation so the snapshot cannot evict the file being restored
		saved, err = m.snapshot()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return saved, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return saved, fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("restored backup", "from", backupPath, "saved", saved)
	return saved, nil
}

func verify(db *sql.DB) error {
	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func verifyFile(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return verify(db)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
