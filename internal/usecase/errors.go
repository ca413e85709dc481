package usecase

import (
	"errors"

	"casaora/internal/data/repository"
)

func errorsIsConflict(err error) bool {
	return errors.Is(err, repository.ErrStatusConflict)
}
