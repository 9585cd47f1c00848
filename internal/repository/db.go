package repository

import (
	"fmt"

	"github.com/user/cineview/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InitDB 初始化数据库连接
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	// 自动建表
	if err := db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.FavoriteMovie{},
		&model.Comment{},
		&model.CommentReply{},
		&model.Rating{},
	); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	// 初始化角色参照表
	if err := seedRoles(db); err != nil {
		return nil, fmt.Errorf("角色初始化失败: %w", err)
	}

	// 设置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// seedRoles 写入固定角色，已存在则跳过
func seedRoles(db *gorm.DB) error {
	roles := []model.Role{
		{ID: model.RoleAdminID, Name: "admin"},
		{ID: model.RoleEditorID, Name: "editor"},
		{ID: model.RoleUserID, Name: "user"},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error
}

// Repositories 仓库集合
type Repositories struct {
	DB       *gorm.DB
	User     *UserRepository
	Favorite *FavoriteRepository
	Comment  *CommentRepository
	Rating   *RatingRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:       db,
		User:     NewUserRepository(db),
		Favorite: NewFavoriteRepository(db),
		Comment:  NewCommentRepository(db),
		Rating:   NewRatingRepository(db),
	}
}
