// Package store is the persistence layer for users and uploaded image metadata
package store

import (
	"bitwise74/account-api/db"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record violates a unique constraint")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case db.IsDuplicate(err):
		return ErrDuplicate
	}

	return err
}
