package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/internal/repo"
)

type userRecord struct {
	ID           int64 `gorm:"primaryKey"`
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

func (u userRecord) model() model.User {
	return model.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

type blacklistRecord struct {
	JTI           string `gorm:"column:jti;primaryKey"`
	UserID        int64
	ExpiresAt     time.Time
	BlacklistedAt time.Time
}

func (blacklistRecord) TableName() string { return "token_blacklist" }

func (s *Store) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	rec := userRecord{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return u, mapError(err)
	}
	return rec.model(), nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (model.User, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	return rec.model(), mapError(err)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&rec).Error
	return rec.model(), mapError(err)
}

func (s *Store) BlacklistToken(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	rec := blacklistRecord{
		JTI:           jti,
		UserID:        userID,
		ExpiresAt:     expiresAt.UTC(),
		BlacklistedAt: time.Now().UTC(),
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrorConflict
	}
	return nil
}

func (s *Store) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&blacklistRecord{}).Where("jti = ?", jti).Count(&n).Error
	return n > 0, err
}

func (s *Store) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", now.UTC()).Delete(&blacklistRecord{})
	return res.RowsAffected, res.Error
}
