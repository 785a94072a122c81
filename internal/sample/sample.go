package sample

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Options 示例库生成参数
type Options struct {
	Products int   // 商品数量
	Events   int   // 事件数量
	Seed     int64 // 随机种子，0 表示按时间生成
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{Products: 20, Events: 200}
}

// Stats 生成结果统计
type Stats struct {
	Users    int
	Products int
	Events   int
	Notes    int
	Seed     int64
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL,
    email TEXT UNIQUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    is_active BOOLEAN DEFAULT 1
);
CREATE TABLE IF NOT EXISTS products (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    price REAL,
    stock INTEGER DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS events (
    event_id INTEGER PRIMARY KEY,
    kind TEXT NOT NULL,
    payload BLOB,
    score REAL,
    occurred_time DATETIME
);
CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
CREATE TABLE IF NOT EXISTS notes (
    title TEXT,
    body TEXT
);
`

// Exec 以可写方式打开数据库并在一个事务内执行语句
func Exec(path string, stmts ...string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create data dir failed: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open db failed: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx failed: %w", err)
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("exec %q failed: %w", stmt, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

// Generate 生成示例数据库
func Generate(path string, opts Options) (*Stats, error) {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(opts.Seed))

	if err := Exec(path, schema); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db failed: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx failed: %w", err)
	}
	stats := &Stats{Seed: opts.Seed}

	users := [][2]string{{"admin", "admin@example.com"}, {"user1", "user1@example.com"}}
	for _, u := range users {
		res, err := tx.Exec(`INSERT OR IGNORE INTO users (username, email) VALUES (?, ?)`, u[0], u[1])
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("insert user failed: %w", err)
		}
		n, _ := res.RowsAffected()
		stats.Users += int(n)
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < opts.Products; i++ {
		created := base.Add(time.Duration(i) * time.Hour).Format("2006-01-02 15:04:05")
		price := float64(rnd.Intn(100000)) / 100
		if _, err := tx.Exec(`INSERT INTO products (name, price, stock, created_at) VALUES (?, ?, ?, ?)`,
			fmt.Sprintf("Sample Product %03d", i+1), price, rnd.Intn(500), created); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("insert product failed: %w", err)
		}
		stats.Products++
	}

	kinds := []string{"login", "logout", "purchase", "refund"}
	for i := 0; i < opts.Events; i++ {
		// 一部分事件带有非UTF-8的二进制负载
		var payload []byte
		if i%3 == 0 {
			payload = []byte{0xff, 0xfe, byte(i), byte(i >> 8)}
		} else {
			payload = []byte(fmt.Sprintf(`{"seq":%d}`, i))
		}
		occurred := base.Add(time.Duration(rnd.Intn(365*24)) * time.Hour).Format("2006-01-02 15:04:05")
		if _, err := tx.Exec(`INSERT INTO events (kind, payload, score, occurred_time) VALUES (?, ?, ?, ?)`,
			kinds[rnd.Intn(len(kinds))], payload, rnd.Float64()*100, occurred); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("insert event failed: %w", err)
		}
		stats.Events++
	}

	for i := 0; i < 3; i++ {
		if _, err := tx.Exec(`INSERT INTO notes (title, body) VALUES (?, ?)`,
			fmt.Sprintf("note %d", i+1), "plain text without ordering columns"); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("insert note failed: %w", err)
		}
		stats.Notes++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit failed: %w", err)
	}
	return stats, nil
}
