package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormProvider stores identities in Postgres.
type GormProvider struct {
	*TokenSigner
	db *gorm.DB
}

func NewGormProvider(db *gorm.DB, signer *TokenSigner) *GormProvider {
	return &GormProvider{TokenSigner: signer, db: db}
}

func (p *GormProvider) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	email := NormalizeEmail(params.Email)

	var existing models.Identity
	if err := p.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailExists
	}

	hash, err := hashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	record := models.Identity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  params.DisplayName,
		Claims:       datatypes.NewJSONType(models.CustomClaims{}),
	}
	if err := p.db.WithContext(ctx).Create(&record).Error; err != nil {
		// Concurrent creates for the same email lose on the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}
	return toUser(&record), nil
}

func (p *GormProvider) DeleteUser(ctx context.Context, uid string) error {
	result := p.db.WithContext(ctx).Where("id = ?", uid).Delete(&models.Identity{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete identity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (p *GormProvider) GetUser(ctx context.Context, uid string) (*User, error) {
	var record models.Identity
	if err := p.db.WithContext(ctx).First(&record, "id = ?", uid).Error; err != nil {
		return nil, notFound(err)
	}
	return toUser(&record), nil
}

func (p *GormProvider) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var record models.Identity
	if err := p.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&record).Error; err != nil {
		return nil, notFound(err)
	}
	return toUser(&record), nil
}

func (p *GormProvider) ListUsers(ctx context.Context) ([]User, error) {
	var records []models.Identity
	if err := p.db.WithContext(ctx).Order("created_at").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	users := make([]User, 0, len(records))
	for i := range records {
		users = append(users, *toUser(&records[i]))
	}
	return users, nil
}

func (p *GormProvider) SetCustomClaims(ctx context.Context, uid string, claims models.CustomClaims) error {
	result := p.db.WithContext(ctx).Model(&models.Identity{}).
		Where("id = ?", uid).
		Update("claims", datatypes.NewJSONType(claims))
	if result.Error != nil {
		return fmt.Errorf("failed to set custom claims: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (p *GormProvider) SignIn(ctx context.Context, email, password string) (*User, error) {
	var record models.Identity
	if err := p.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&record).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := checkPassword(record.PasswordHash, password); err != nil {
		return nil, err
	}
	return toUser(&record), nil
}

func (p *GormProvider) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func toUser(record *models.Identity) *User {
	return &User{
		UID:         record.ID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		Claims:      record.Claims.Data(),
		CreatedAt:   record.CreatedAt,
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("failed to load identity: %w", err)
}

var _ Provider = (*GormProvider)(nil)
