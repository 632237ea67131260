package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tabasaranec/blogapi/config"
	"github.com/tabasaranec/blogapi/models"
	"github.com/tabasaranec/blogapi/utils"
)

// Mailer sends account related mail. Satisfied by utils.SMTPMailer.
type Mailer interface {
	SendActivationMail(to, link string) error
}

// Users implements account lifecycle: registration with email activation,
// login/logout, refresh token rotation and profile management.
type Users struct {
	db     *gorm.DB
	tokens *Tokens
	mailer Mailer
}

// NewUsers creates a Users service.
func NewUsers(db *gorm.DB, tokens *Tokens, mailer Mailer) *Users {
	return &Users{db: db, tokens: tokens, mailer: mailer}
}

// RegistrationInput carries the fields accepted at registration time.
type RegistrationInput struct {
	FirstName string
	LastName  string
	Login     string
	Email     string
	Password  string
	Avatar    string
}

// UpdateUserInput carries the full set of editable profile fields.
// Password is the current password and authorizes the change.
type UpdateUserInput struct {
	FirstName string
	LastName  string
	Login     string
	Password  string
	Avatar    string
}

// AuthResult is a user together with a freshly issued token pair.
type AuthResult struct {
	User   models.User
	Tokens utils.TokenPair
}

const wrongCredentials = "wrong login or password"

// Registration creates an inactive account, mails its activation link and
// issues a token pair. A failed activation mail aborts the whole attempt
// so no account exists that nobody can ever activate.
func (s *Users) Registration(in RegistrationInput) (*AuthResult, error) {
	var existing models.User
	err := s.db.Where("login = ?", in.Login).First(&existing).Error
	if err == nil {
		return nil, BadRequest(fmt.Sprintf("user with login %s already exists", in.Login))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	link := uuid.NewString()
	if err := s.mailer.SendActivationMail(in.Email, link); err != nil {
		return nil, fmt.Errorf("send activation mail: %w", err)
	}

	user := models.User{
		Login:        in.Login,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Avatar:       in.Avatar,
		Admin:        isAdminEmail(in.Email),
		ActivateLink: link,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Activate flips the activation flag for an unexpired, not yet activated
// link. Returns (nil, nil) when no matching user exists, making a second
// visit a no-op rather than an error.
func (s *Users) Activate(link string) (*models.User, error) {
	var user models.User
	err := s.db.Where("activate_link = ? AND is_activated = ?", link, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.IsActivated = true
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login checks the password and issues a fresh token pair, rotating any
// stored refresh token. Unknown login and wrong password fail the same way.
func (s *Users) Login(login, password string) (*AuthResult, error) {
	user, err := s.GetOne(login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, BadRequest(wrongCredentials)
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, BadRequest(wrongCredentials)
	}

	return s.issueTokens(*user)
}

// Logout deletes the stored refresh token row.
func (s *Users) Logout(refreshToken string) error {
	return s.tokens.Delete(refreshToken)
}

// Refresh requires a token that both decodes under the refresh secret and
// matches the stored row; anything else is unauthorized. On success both
// tokens are reissued and storage rotates.
func (s *Users) Refresh(refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrUnauthorized
	}

	claims, ok := utils.ValidateRefresh(refreshToken)
	if !ok {
		return nil, ErrUnauthorized
	}
	if _, err := s.tokens.GetOne(refreshToken); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	user, err := s.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	return s.issueTokens(*user)
}

// Update replaces the editable profile fields after verifying the current
// password.
func (s *Users) Update(id uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, in.Password) {
		return nil, BadRequest("wrong password")
	}
	if err := s.loginTaken(in.Login, id); err != nil {
		return nil, err
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Login = in.Login
	user.Avatar = in.Avatar
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// PartialUpdate applies only the provided profile fields.
func (s *Users) PartialUpdate(id uint, fields map[string]interface{}) (*models.User, error) {
	columns := map[string]string{
		"firstName": "first_name",
		"lastName":  "last_name",
		"login":     "login",
		"avatar":    "avatar",
	}

	updates := map[string]interface{}{}
	for key, value := range fields {
		if col, ok := columns[key]; ok {
			updates[col] = value
		}
	}
	if len(updates) == 0 {
		return nil, BadRequest("no updatable fields provided")
	}
	if raw, ok := updates["login"]; ok {
		login, _ := raw.(string)
		if login == "" {
			return nil, BadRequest("login cannot be empty")
		}
		if err := s.loginTaken(login, id); err != nil {
			return nil, err
		}
	}

	res := s.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.GetByID(id)
}

// GetAll returns a page of users with the overall total, both read inside
// one transaction.
func (s *Users) GetAll(page, perPage int) (int64, []models.User, error) {
	var total int64
	var users []models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Count(&total).Error; err != nil {
			return err
		}
		return tx.Order("id").Offset(page * perPage).Limit(perPage).Find(&users).Error
	})
	return total, users, err
}

// GetOne looks up a user by login.
func (s *Users) GetOne(login string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("login = ?", login).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByID looks up a user by id.
func (s *Users) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Delete removes the user and cascades the user's author rows and any
// stored refresh token.
func (s *Users) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Author{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Token{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// loginTaken reports a taken login as a bad request instead of letting the
// unique index violation surface as an internal error.
func (s *Users) loginTaken(login string, excludeID uint) error {
	var count int64
	err := s.db.Model(&models.User{}).Where("login = ? AND id <> ?", login, excludeID).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return BadRequest(fmt.Sprintf("user with login %s already exists", login))
	}
	return nil
}

func (s *Users) issueTokens(user models.User) (*AuthResult, error) {
	pair, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}

func isAdminEmail(email string) bool {
	for _, admin := range config.Get().AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}
