package dao

import (
	"errors"
	"strings"

	"authportal/model"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when the in-transaction uniqueness check
// finds an existing row for username, email or idnumber.
var ErrDuplicate = errors.New("username, email, or ID number already exists")

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

// Create inserts a new user. The uniqueness re-check and the insert run
// in one transaction; the unique indexes on the table remain the
// authoritative guard when two registrations race past the check.
func (dao *UserDAO) Create(user *model.User) error {
	return dao.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.User{}).
			Where("username = ? OR email = ? OR idnumber = ?",
				user.Username, user.Email, user.IDNumber).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Create(user).Error
	})
}

// GetByUsername fetches the full row, password hash included. Callers
// must not hand the row past the verification step.
func (dao *UserDAO) GetByUsername(username string) (*model.User, error) {
	var user model.User
	err := dao.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserExists reports whether any row matches any of the supplied
// non-empty fields. The OR condition is assembled from a fixed set of
// parameterized predicates; with no fields supplied it returns false
// without querying.
func (dao *UserDAO) UserExists(username, email, idnumber string) (bool, error) {
	conds := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if username != "" {
		conds = append(conds, "username = ?")
		args = append(args, username)
	}
	if email != "" {
		conds = append(conds, "email = ?")
		args = append(args, email)
	}
	if idnumber != "" {
		conds = append(conds, "idnumber = ?")
		args = append(args, idnumber)
	}
	if len(conds) == 0 {
		return false, nil
	}

	var count int64
	err := dao.db.Model(&model.User{}).
		Where(strings.Join(conds, " OR "), args...).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
