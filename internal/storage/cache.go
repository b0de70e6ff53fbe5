package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eblot/doxyclang/pkg/types"
)

// Unit is the derived parse result for one translation unit: the
// prototypes from the AST dump and the documentation blocks from the
// source text. Units are read-only once stored.
type Unit struct {
	File       string            `json:"file"`
	Prototypes []types.Prototype `json:"prototypes"`
	Blocks     []types.DocBlock  `json:"blocks,omitempty"`
}

// ContentHash keys a unit by the exact inputs that produced it: the source
// text and the AST dump. Length prefixes keep the two parts from bleeding
// into each other.
func ContentHash(src, dump []byte) string {
	h := sha256.New()
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(src)))
	h.Write(n[:])
	h.Write(src)
	h.Write(dump)
	return hex.EncodeToString(h.Sum(nil))
}

// Cache is an optional SQLite-backed store of parse results. It lives in
// the caller layer; the core pipeline never touches it.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=10000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	c := &Cache{db: db}
	if err := c.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS units (
		content_hash TEXT PRIMARY KEY,
		file         TEXT,
		prototypes   TEXT,
		blocks       TEXT,
		created_at   INTEGER
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Get returns the cached unit for a content hash, or ok=false on a miss.
func (c *Cache) Get(hash string) (*Unit, bool, error) {
	var file, protos, blocks string
	err := c.db.QueryRow(
		`SELECT file, prototypes, blocks FROM units WHERE content_hash = ?`, hash,
	).Scan(&file, &protos, &blocks)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	u := &Unit{File: file}
	if err := json.Unmarshal([]byte(protos), &u.Prototypes); err != nil {
		return nil, false, err
	}
	if blocks != "" {
		if err := json.Unmarshal([]byte(blocks), &u.Blocks); err != nil {
			return nil, false, err
		}
	}
	return u, true, nil
}

// Put stores a unit under its content hash, replacing any previous entry.
func (c *Cache) Put(hash string, u *Unit) error {
	protos, err := json.Marshal(u.Prototypes)
	if err != nil {
		return err
	}
	blocks, err := json.Marshal(u.Blocks)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO units (content_hash, file, prototypes, blocks, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		hash, u.File, string(protos), string(blocks), time.Now().Unix(),
	)
	return err
}

// Clear drops every cached unit.
func (c *Cache) Clear() error {
	_, err := c.db.Exec(`DELETE FROM units`)
	return err
}

func (c *Cache) Close() error {
	return c.db.Close()
}
