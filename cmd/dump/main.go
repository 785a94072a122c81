package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"SqliteViewer/internal/model"
	"SqliteViewer/internal/repository"
	"SqliteViewer/internal/service"
	"SqliteViewer/pkg/config"
	"SqliteViewer/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	configPath = flag.String("config", "", "Config file path (.ini or .yaml)")
	dbPath     = flag.String("db", "", "SQLite database path, overrides config")
	table      = flag.String("table", "", "Only dump this table")
	limit      = flag.Int("limit", 10, "Sample rows per table")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	// 输出用于阅读，日志走stderr
	logger.SetupWithOutput(*debug, "", os.Stderr)
	if !*debug {
		logrus.SetLevel(logrus.WarnLevel)
	}

	svc := service.NewViewerService(repository.NewProvider(cfg.Database), cfg.Database)
	if err := dump(context.Background(), svc, os.Stdout, *table, *limit); err != nil {
		logrus.Errorf("Dump failed: %v", err)
		os.Exit(1)
	}
}

// dump 打印数据库概要和每张表的结构与样例行
func dump(ctx context.Context, svc *service.ViewerService, w io.Writer, only string, limit int) error {
	summary, err := svc.GetDatabaseSummary(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n=== Dumping DB: %s (%s) ===\n", summary.Path, summary.FileSizeHuman)
	fmt.Fprintf(w, "Tables: %d, total records: %d\n", summary.TableCount, summary.TotalRecords)
	if len(summary.SkippedTables) > 0 {
		fmt.Fprintf(w, "Not counted: %s\n", strings.Join(summary.SkippedTables, ", "))
	}

	tables := summary.Tables
	if only != "" {
		tables = []string{only}
	}
	if len(tables) == 0 {
		fmt.Fprintln(w, "(no tables found)")
		return nil
	}

	for _, t := range tables {
		fmt.Fprintf(w, "\n--- Table: %s ---\n", t)
		info, err := svc.GetTableInfo(ctx, t)
		if err != nil {
			if only != "" {
				return err
			}
			fmt.Fprintf(w, "info failed: %v\n", err)
			continue
		}
		cols := make([]string, 0, len(info.Schema))
		for _, c := range info.Schema {
			cols = append(cols, fmt.Sprintf("%s(%s)", c.Name, c.Type))
		}
		fmt.Fprintf(w, "Columns: %s\n", strings.Join(cols, ", "))
		fmt.Fprintf(w, "Total rows: %d\n", info.RowCount)

		page, err := svc.GetTablePage(ctx, t, limit)
		if err != nil {
			fmt.Fprintf(w, "sample failed: %v\n", err)
			continue
		}
		writeRows(w, page)
	}
	return nil
}

func writeRows(w io.Writer, page *model.TablePage) {
	if page.OrderBy != "" {
		fmt.Fprintf(w, "Sample (up to %d rows, newest by %s):\n", page.TotalRows, page.OrderBy)
	} else {
		fmt.Fprintf(w, "Sample (up to %d rows):\n", page.TotalRows)
	}
	if len(page.Data) == 0 {
		fmt.Fprintln(w, "  (no sample rows)")
		return
	}
	for _, row := range page.Data {
		parts := make([]string, row.Len())
		for i, v := range row.Values() {
			if v == nil {
				parts[i] = "NULL"
			} else {
				parts[i] = fmt.Sprintf("%v", v)
			}
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(parts, " | "))
	}
}
