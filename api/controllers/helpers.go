package controllers

import (
	"errors"

	"gorm.io/gorm"

	pkgerrors "github.com/herblink/herblink-backend/pkg/errors"
)

// notFoundOrDependency maps a repository read failure onto the API error
// taxonomy: missing rows surface as NOT_FOUND, everything else as a
// dependency failure.
func notFoundOrDependency(err error, notFoundMsg, wrapMsg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, wrapMsg)
}
