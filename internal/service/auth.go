package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/academic-hub/academic-hub-back/internal/db"
)

const (
	minPasswordLength = 6
	resetTokenBytes   = 20
	resetTokenTTL     = 15 * time.Minute
)

// Auth is the credential store: it owns identity records, password
// hygiene and the password-reset token flow.
type Auth struct {
	db     *gorm.DB
	tokens *Token
	logger *zap.SugaredLogger
}

func NewAuth(gdb *gorm.DB, tokens *Token, logger *zap.SugaredLogger) *Auth {
	return &Auth{
		db:     gdb,
		tokens: tokens,
		logger: logger,
	}
}

func (s *Auth) Register(name, email, password, role string) (*db.User, string, error) {
	email = normalizeEmail(email)
	if len(password) < minPasswordLength {
		return nil, "", errors.Wrap(ErrValidation, "password must be at least 6 characters")
	}
	if role == "" {
		role = db.RoleUser
	}
	if role != db.RoleUser && role != db.RoleAdmin {
		return nil, "", errors.Wrap(ErrValidation, "invalid role")
	}

	var count int64
	if err := s.db.Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", errors.Wrap(err, "check email uniqueness")
	}
	if count > 0 {
		return nil, "", ErrDuplicateEmail
	}

	hash, err := s.bcryptGen(password)
	if err != nil {
		return nil, "", errors.Wrap(err, "bcryptGen")
	}

	user := db.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if res := s.db.Create(&user); res.Error != nil {
		if isDuplicateKey(res.Error) {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", res.Error
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login deliberately returns the same failure for an unknown email and a
// wrong password.
func (s *Auth) Login(email, password string) (*db.User, string, error) {
	email = normalizeEmail(email)

	user := db.User{}
	res := s.db.Where("email = ?", email).First(&user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", res.Error
	}

	if err := s.bcryptCheck(user.Password, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *Auth) GetByID(id uint64) (*db.User, error) {
	user := db.User{}
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Auth) UpdateDetails(id uint64, name, email *string) (*db.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != nil && *name != "" {
		updates["name"] = *name
	}
	if email != nil && *email != "" {
		next := normalizeEmail(*email)
		if next != user.Email {
			var count int64
			if err := s.db.Model(&db.User{}).Where("email = ?", next).Count(&count).Error; err != nil {
				return nil, errors.Wrap(err, "check email uniqueness")
			}
			if count > 0 {
				return nil, ErrDuplicateEmail
			}
		}
		updates["email"] = next
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, errors.Wrap(err, "update details")
	}
	return user, nil
}

// UpdatePassword re-issues a session token on success so clients rotate
// credentials together.
func (s *Auth) UpdatePassword(id uint64, current, next string) (*db.User, string, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if err := s.bcryptCheck(user.Password, current); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if len(next) < minPasswordLength {
		return nil, "", errors.Wrap(ErrValidation, "password must be at least 6 characters")
	}

	hash, err := s.bcryptGen(next)
	if err != nil {
		return nil, "", errors.Wrap(err, "bcryptGen")
	}
	if err := s.db.Model(user).Update("password", hash).Error; err != nil {
		return nil, "", errors.Wrap(err, "persist password")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueResetToken stores only the SHA-256 of the returned plaintext; the
// plaintext travels out-of-band to the user.
func (s *Auth) IssueResetToken(email string) (string, error) {
	email = normalizeEmail(email)

	user := db.User{}
	res := s.db.Where("email = ?", email).First(&user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", res.Error
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Wrap(err, "generate reset token")
	}
	plaintext := hex.EncodeToString(raw)
	hashed := hashResetToken(plaintext)
	expire := time.Now().Add(resetTokenTTL)

	updates := map[string]interface{}{
		"reset_password_token":  hashed,
		"reset_password_expire": expire,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return "", errors.Wrap(err, "persist reset token")
	}

	return plaintext, nil
}

// ConsumeResetToken never distinguishes an unknown token from an expired
// one; both fail the same way on purpose.
func (s *Auth) ConsumeResetToken(plaintext, newPassword string) (*db.User, error) {
	if len(newPassword) < minPasswordLength {
		return nil, errors.Wrap(ErrValidation, "password must be at least 6 characters")
	}

	hashed := hashResetToken(plaintext)
	user := db.User{}
	res := s.db.
		Where("reset_password_token = ?", hashed).
		Where("reset_password_expire > ?", time.Now()).
		First(&user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, res.Error
	}

	hash, err := s.bcryptGen(newPassword)
	if err != nil {
		return nil, errors.Wrap(err, "bcryptGen")
	}
	updates := map[string]interface{}{
		"password":              hash,
		"reset_password_token":  nil,
		"reset_password_expire": nil,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, errors.Wrap(err, "persist new password")
	}

	return &user, nil
}

func (s *Auth) bcryptGen(pass string) (string, error) {
	passwordHashB, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "generate password hash")
	}
	return string(passwordHashB), nil
}

func (s *Auth) bcryptCheck(hash, pass string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
