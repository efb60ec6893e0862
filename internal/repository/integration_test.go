//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"punchdesk/internal/model"
	"punchdesk/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=punchdesk password=punchdesk dbname=punchdesk_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	if err := testDB.AutoMigrate(&model.AdminActionLog{}); err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// ═══════════════════════════════════════════════════════════
// Test: AuditLog
// ═══════════════════════════════════════════════════════════

func TestAuditLog_CreateAndList(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	target := fmt.Sprintf("uid-%d", time.Now().UnixNano())
	defer testDB.Where("target_uid = ?", target).Delete(&model.AdminActionLog{})

	punchID := "p1"
	entries := []*model.AdminActionLog{
		{Action: model.ActionPunchEdit, TargetUID: target, PunchID: &punchID, OperatorUID: "admin", Before: "09:00", After: "08:30"},
		{Action: model.ActionRoleGrant, TargetUID: target, OperatorUID: "root", Before: "employee", After: "admin"},
	}
	for _, e := range entries {
		if err := repo.AuditLog.Create(ctx, e); err != nil {
			t.Fatalf("写入审计日志失败: %v", err)
		}
		if e.LogID == "" {
			t.Error("期望数据库生成 log_id")
		}
	}

	logs, total, err := repo.AuditLog.List(ctx, repository.AuditLogFilter{TargetUID: target, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("查询审计日志失败: %v", err)
	}
	if total != 2 || len(logs) != 2 {
		t.Fatalf("期望 2 条，实际 total=%d len=%d", total, len(logs))
	}

	logs, total, err = repo.AuditLog.List(ctx, repository.AuditLogFilter{TargetUID: target, Action: model.ActionPunchEdit, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("按类型查询失败: %v", err)
	}
	if total != 1 || logs[0].PunchID == nil || *logs[0].PunchID != "p1" {
		t.Errorf("按类型过滤结果不符: total=%d", total)
	}
}

func TestAuditLog_NilDBIsNop(t *testing.T) {
	repo := repository.NewRepository(nil)
	if err := repo.AuditLog.Create(context.Background(), &model.AdminActionLog{}); err != nil {
		t.Errorf("未启用数据库时写入不应报错: %v", err)
	}
	logs, total, err := repo.AuditLog.List(context.Background(), repository.AuditLogFilter{Page: 1, PageSize: 10})
	if err != nil || total != 0 || len(logs) != 0 {
		t.Errorf("未启用数据库时查询应为空")
	}
}
