package service

import (
	"errors"
	"fmt"
	"strings"

	"authportal/dao"
	"authportal/internal/validator"
	"authportal/model"
	"authportal/utils"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	// ErrUserExists is returned when the insert loses a uniqueness race
	// or the in-transaction re-check finds an existing row.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown username and wrong
	// password, so user-facing output cannot enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrMissingCredentials is returned before any store call when the
	// login form is incomplete.
	ErrMissingCredentials = errors.New("missing username or password")
)

// ValidationError carries every registration failure collected in a
// single pass, so the form can show all of them together.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// UserStore is the persistence surface the service depends on,
// implemented by dao.UserDAO.
type UserStore interface {
	Create(user *model.User) error
	GetByUsername(username string) (*model.User, error)
	UserExists(username, email, idnumber string) (bool, error)
}

// RegisterInput is the raw registration form, untrimmed.
type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	Email           string
	IDNumber        string
	Gender          string
	PhoneNumber     string
}

func (in *RegisterInput) trim() {
	in.Username = strings.TrimSpace(in.Username)
	in.Password = strings.TrimSpace(in.Password)
	in.ConfirmPassword = strings.TrimSpace(in.ConfirmPassword)
	in.Email = strings.TrimSpace(in.Email)
	in.IDNumber = strings.TrimSpace(in.IDNumber)
	in.Gender = strings.TrimSpace(in.Gender)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
}

// UserService orchestrates registration and credential verification.
type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// Register validates the whole form, accumulating every failure before
// rejecting, then hashes the password and creates the row. The
// existence pre-checks are advisory; the store's unique indexes decide
// races at insert time.
func (s *UserService) Register(in RegisterInput) (*model.User, error) {
	in.trim()

	var msgs []string
	if in.Username == "" || in.Password == "" || in.ConfirmPassword == "" ||
		in.Email == "" || in.IDNumber == "" || in.Gender == "" || in.PhoneNumber == "" {
		msgs = append(msgs, "All fields are required")
	}
	if in.Password != in.ConfirmPassword {
		msgs = append(msgs, "Passwords do not match")
	}
	if ok, msg := validator.PasswordStrength(in.Password); !ok {
		msgs = append(msgs, msg)
	}
	if ok, msg := validator.IDNumber(in.IDNumber); !ok {
		msgs = append(msgs, msg)
	}
	if ok, msg := validator.PhoneNumber(in.PhoneNumber); !ok {
		msgs = append(msgs, msg)
	}

	if exists, err := s.store.UserExists(in.Username, "", ""); err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	} else if exists {
		msgs = append(msgs, "Username already taken")
	}
	if exists, err := s.store.UserExists("", in.Email, ""); err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	} else if exists {
		msgs = append(msgs, "Email already registered")
	}
	if exists, err := s.store.UserExists("", "", in.IDNumber); err != nil {
		return nil, fmt.Errorf("checking ID number: %w", err)
	} else if exists {
		msgs = append(msgs, "ID number already registered")
	}

	if len(msgs) > 0 {
		return nil, &ValidationError{Messages: msgs}
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		IDNumber:     in.IDNumber,
		Gender:       in.Gender,
		PhoneNumber:  validator.NormalizePhone(in.PhoneNumber),
		PasswordHash: hash,
	}
	if err := s.store.Create(user); err != nil {
		if isDuplicate(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Login trims both fields, rejects incomplete input without touching
// the store, and otherwise verifies credentials.
func (s *UserService) Login(username, password string) (*model.Principal, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	return s.VerifyCredentials(username, password)
}

// VerifyCredentials looks up the user and checks the password against
// the stored hash. On match it returns the hash-free principal; both
// unknown username and wrong password map to ErrInvalidCredentials.
func (s *UserService) VerifyCredentials(username, password string) (*model.Principal, error) {
	user, err := s.store.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	p := user.Principal()
	return &p, nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, dao.ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
