package repository

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"SqliteViewer/internal/model"
	"SqliteViewer/pkg/config"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Queryer 仓储使用的查询接口，*sqlx.DB 与 *sqlx.Tx 均满足
type Queryer = sqlx.QueryerContext

// Provider 数据库连接提供者
// 每次 Open 返回一个独立的只读连接，调用方负责 Close
type Provider struct {
	cfg config.DatabaseConfig
}

// NewProvider 创建连接提供者
func NewProvider(cfg config.DatabaseConfig) *Provider {
	return &Provider{cfg: cfg}
}

// Path 数据库文件路径
func (p *Provider) Path() string {
	return p.cfg.Path
}

// DSN 只读打开，并设置等待锁的超时
// 路径按URI转义，文件名中的 # ? % 不会被当作URI语法
func (p *Provider) DSN() string {
	path := p.cfg.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(path),
		RawQuery: fmt.Sprintf("mode=ro&_pragma=busy_timeout(%d)", p.cfg.LockTimeout().Milliseconds()),
	}
	return u.String()
}

// Open 打开数据库，失败时不重试
func (p *Provider) Open(ctx context.Context) (*SQLiteRepository, error) {
	log := logrus.WithFields(logrus.Fields{"op": "open", "path": p.cfg.Path})

	if _, err := os.Stat(p.cfg.Path); err != nil {
		if os.IsNotExist(err) {
			log.Warn("[Provider] Database file not found")
			return nil, model.ErrDatabaseNotFound(p.cfg.Path)
		}
		log.Errorf("[Provider] Stat database file failed: %v", err)
		return nil, model.ErrConnect(p.cfg.Path, err)
	}

	db, err := sqlx.Open(driverName, p.DSN())
	if err != nil {
		log.Errorf("[Provider] Open database failed: %v", err)
		return nil, model.ErrConnect(p.cfg.Path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, p.cfg.LockTimeout())
	defer cancel()

	// Ping 不会读取文件头，损坏的文件要到第一次查询才会报错
	var objects int
	if err := db.GetContext(pingCtx, &objects, "SELECT COUNT(*) FROM sqlite_master"); err != nil {
		db.Close()
		log.Errorf("[Provider] Database not readable: %v", err)
		return nil, model.ErrConnect(p.cfg.Path, err)
	}

	log.Debugf("[Provider] Database opened, %d catalog objects", objects)
	return NewSQLiteRepository(db), nil
}
