package services

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
	"philcali.me/groceries/internal/exceptions"
)

// TranslateError maps storage failures onto request errors for the given
// resource. Anything unrecognized is returned unchanged.
func TranslateError(err error, resource string, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return exceptions.NotFound(resource, id)
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintForeignKey:
			return exceptions.Conflict(resource, id)
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return exceptions.InvalidInput(sqliteErr.Error())
		}
	}
	return err
}
