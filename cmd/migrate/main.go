/*
*
  - 数据库迁移工具
  - @author: sun977
  - @date: 2025.11.20
  - @description: 数据库模型迁移和初始数据填充工具
  - @usage: go run main.go -env=test -seed=true -drop=true
    -drop
    是否先删除表(危险操作)
    -env string
    环境标识 (test, dev, prod) (default "test")
    -seed
    是否填充初始数据 (default true)
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"menuguard/internal/config"
	"menuguard/internal/model"
	"menuguard/internal/pkg/auth"
	"menuguard/internal/pkg/database"
	"menuguard/internal/pkg/logger"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MigrateOptions 迁移选项配置
type MigrateOptions struct {
	Environment string // 环境标识: test, dev, prod
	SeedData    bool   // 是否填充初始数据
	DropFirst   bool   // 是否先删除表(危险操作)
}

// DataSeeder 初始数据填充器
type DataSeeder struct {
	db  *gorm.DB
	env string
	log *logger.LoggerManager
}

func main() {
	// 解析命令行参数
	opts := parseFlags()

	// 加载配置
	cfg, err := config.LoadConfig("", opts.Environment)
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 初始化日志管理器
	logManager, err := logger.InitLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}

	logManager.GetLogger().WithFields(logrus.Fields{
		"path":        "cmd/migrate/main.go",
		"operation":   "database_migration",
		"func_name":   "main",
		"environment": opts.Environment,
		"seed_data":   opts.SeedData,
		"drop_first":  opts.DropFirst,
	}).Info("开始数据库迁移")

	// 初始化数据库连接
	db, err := database.NewMySQLConnection(&cfg.Database.MySQL)
	if err != nil {
		logManager.GetLogger().WithFields(logrus.Fields{
			"path":      "cmd/migrate/main.go",
			"operation": "database_connection",
			"func_name": "main",
			"error":     err.Error(),
		}).Fatal("数据库连接失败")
	}

	// 执行迁移
	if err := performMigration(db, opts, logManager); err != nil {
		logManager.GetLogger().WithFields(logrus.Fields{
			"path":      "cmd/migrate/main.go",
			"operation": "database_migration",
			"func_name": "main",
			"error":     err.Error(),
		}).Fatal("数据库迁移失败")
	}

	logManager.GetLogger().WithFields(logrus.Fields{
		"path":      "cmd/migrate/main.go",
		"operation": "database_migration",
		"func_name": "main",
	}).Info("数据库迁移完成")
}

// parseFlags 解析命令行参数
func parseFlags() *MigrateOptions {
	opts := &MigrateOptions{}

	flag.StringVar(&opts.Environment, "env", "test", "环境标识 (test, dev, prod)")
	flag.BoolVar(&opts.SeedData, "seed", true, "是否填充初始数据")
	flag.BoolVar(&opts.DropFirst, "drop", false, "是否先删除表(危险操作)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "MenuGuard 数据库迁移工具\n\n")
		fmt.Fprintf(os.Stderr, "用法: %s [选项]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "选项:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n示例:\n")
		fmt.Fprintf(os.Stderr, "  %s -env=test -seed=true    # 测试环境迁移并填充数据\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -env=prod -seed=false   # 生产环境仅迁移表结构\n", os.Args[0])
	}

	flag.Parse()
	return opts
}

// performMigration 执行数据库迁移
func performMigration(db *gorm.DB, opts *MigrateOptions, logManager *logger.LoggerManager) error {
	// 1. 删除表(如果指定)
	if opts.DropFirst {
		if err := dropTables(db, logManager); err != nil {
			return fmt.Errorf("删除表失败: %w", err)
		}
	}

	// 2. 执行模型迁移
	if err := migrateModels(db, logManager); err != nil {
		return fmt.Errorf("模型迁移失败: %w", err)
	}

	// 3. 填充初始数据(如果指定)
	if opts.SeedData {
		seeder := NewDataSeeder(db, opts.Environment, logManager)
		if err := seeder.SeedAll(); err != nil {
			return fmt.Errorf("数据填充失败: %w", err)
		}
	}

	return nil
}

// dropTables 删除所有表
// 危险操作,仅用于开发环境重置
func dropTables(db *gorm.DB, logManager *logger.LoggerManager) error {
	logManager.GetLogger().WithFields(logrus.Fields{
		"path":      "cmd/migrate/main.go",
		"operation": "drop_tables",
		"func_name": "dropTables",
	}).Warn("开始删除数据库表")

	// 按依赖关系逆序,关联表先删除
	models := []interface{}{
		&model.UserRole{},
		&model.RoleMenu{},
		&model.User{},
		&model.Role{},
		&model.Menu{},
	}

	for _, m := range models {
		if err := db.Migrator().DropTable(m); err != nil {
			logManager.GetLogger().WithFields(logrus.Fields{
				"path":      "cmd/migrate/main.go",
				"operation": "drop_table",
				"func_name": "dropTables",
				"model":     fmt.Sprintf("%T", m),
				"error":     err.Error(),
			}).Error("删除表失败")
		}
	}

	return nil
}

// migrateModels 执行模型迁移
func migrateModels(db *gorm.DB, loggerMgr *logger.LoggerManager) error {
	loggerMgr.GetLogger().Info("开始执行模型迁移...")

	// 主表在前,关联表在后
	models := []interface{}{
		&model.User{},
		&model.Role{},
		&model.Menu{},
		&model.UserRole{},
		&model.RoleMenu{},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("迁移模型 %T 失败: %w", m, err)
		}
		loggerMgr.GetLogger().WithField("model", fmt.Sprintf("%T", m)).Info("模型迁移成功")
	}

	loggerMgr.GetLogger().Info("所有模型迁移完成")
	return nil
}

// NewDataSeeder 创建数据填充器
func NewDataSeeder(db *gorm.DB, env string, logManager *logger.LoggerManager) *DataSeeder {
	return &DataSeeder{
		db:  db,
		env: env,
		log: logManager,
	}
}

// SeedAll 填充所有初始数据
func (s *DataSeeder) SeedAll() error {
	s.log.GetLogger().WithFields(logrus.Fields{
		"path":      "cmd/migrate/main.go",
		"operation": "seed_data",
		"func_name": "DataSeeder.SeedAll",
		"env":       s.env,
	}).Info("开始填充初始数据")

	// 按依赖关系顺序填充
	seedFunctions := []struct {
		name string
		fn   func() error
	}{
		{"菜单数据", s.seedMenus},
		{"角色数据", s.seedRoles},
		{"用户数据", s.seedUsers},
	}

	for _, seed := range seedFunctions {
		if err := seed.fn(); err != nil {
			return fmt.Errorf("填充%s失败: %w", seed.name, err)
		}
	}

	s.log.GetLogger().WithFields(logrus.Fields{
		"path":      "cmd/migrate/main.go",
		"operation": "seed_data",
		"func_name": "DataSeeder.SeedAll",
	}).Info("初始数据填充完成")

	return nil
}

// seedMenus 填充菜单数据
func (s *DataSeeder) seedMenus() error {
	menus := []model.Menu{
		{Code: "dashboard", Title: "工作台", Path: "/dashboard", IsActive: true},
		{Code: "system", Title: "系统管理", Path: "/system", IsActive: true},
		{Code: "system_user", Title: "用户管理", Path: "/system/user", IsActive: true},
		{Code: "system_role", Title: "角色管理", Path: "/system/role", IsActive: true},
		{Code: "system_menu", Title: "菜单管理", Path: "/system/menu", IsActive: true},
	}

	for i := range menus {
		if err := s.db.Where("code = ?", menus[i].Code).FirstOrCreate(&menus[i]).Error; err != nil {
			return fmt.Errorf("创建菜单失败: %w", err)
		}
	}

	// 系统管理子菜单挂到父菜单下
	var parent model.Menu
	if err := s.db.Where("code = ?", "system").First(&parent).Error; err != nil {
		return fmt.Errorf("查询父菜单失败: %w", err)
	}
	if err := s.db.Model(&model.Menu{}).
		Where("code IN ?", []string{"system_user", "system_role", "system_menu"}).
		Update("parent_menu_id", parent.ID).Error; err != nil {
		return fmt.Errorf("更新子菜单父引用失败: %w", err)
	}

	return nil
}

// seedRoles 填充角色数据及菜单授权
func (s *DataSeeder) seedRoles() error {
	roles := []model.Role{
		{Code: "admin", Name: "系统管理员", Description: "拥有全部菜单的超级管理员", IsActive: true},
		{Code: "viewer", Name: "只读用户", Description: "只能查看工作台", IsActive: true},
	}

	for i := range roles {
		if err := s.db.Where("code = ?", roles[i].Code).FirstOrCreate(&roles[i]).Error; err != nil {
			return fmt.Errorf("创建角色失败: %w", err)
		}
	}

	var menus []model.Menu
	if err := s.db.Find(&menus).Error; err != nil {
		return fmt.Errorf("查询菜单失败: %w", err)
	}

	// admin 获得全部菜单的全部授权
	for _, m := range menus {
		grant := model.RoleMenu{
			RoleID:      roles[0].ID,
			MenuID:      m.ID,
			GrantCreate: true,
			GrantUpdate: true,
			GrantDelete: true,
			IsActive:    true,
		}
		if err := s.db.Where("role_id = ? AND menu_id = ?", grant.RoleID, grant.MenuID).
			FirstOrCreate(&grant).Error; err != nil {
			return fmt.Errorf("创建管理员菜单授权失败: %w", err)
		}

		// viewer 只有工作台的只读授权
		if m.Code == "dashboard" {
			readOnly := model.RoleMenu{
				RoleID:   roles[1].ID,
				MenuID:   m.ID,
				IsActive: true,
			}
			if err := s.db.Where("role_id = ? AND menu_id = ?", readOnly.RoleID, readOnly.MenuID).
				FirstOrCreate(&readOnly).Error; err != nil {
				return fmt.Errorf("创建只读菜单授权失败: %w", err)
			}
		}
	}

	return nil
}

// seedUsers 填充用户数据及角色关联
func (s *DataSeeder) seedUsers() error {
	passwordManager := auth.NewPasswordManager(auth.DefaultPasswordConfig)
	hash, err := passwordManager.HashPassword("admin123")
	if err != nil {
		return fmt.Errorf("密码哈希失败: %w", err)
	}

	admin := model.User{
		Username:     "admin",
		Email:        "admin@menuguard.local",
		PasswordHash: hash,
		Fullname:     "系统管理员",
		IsActive:     true,
	}
	if err := s.db.Where("username = ?", admin.Username).FirstOrCreate(&admin).Error; err != nil {
		return fmt.Errorf("创建管理员用户失败: %w", err)
	}

	var adminRole model.Role
	if err := s.db.Where("code = ?", "admin").First(&adminRole).Error; err != nil {
		return fmt.Errorf("查询管理员角色失败: %w", err)
	}

	link := model.UserRole{UserID: admin.ID, RoleID: adminRole.ID}
	if err := s.db.Where("user_id = ? AND role_id = ?", link.UserID, link.RoleID).
		FirstOrCreate(&link).Error; err != nil {
		return fmt.Errorf("创建用户角色关联失败: %w", err)
	}

	return nil
}
