package usecase

import (
	"context"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
)

// GetDictionariesUseCase отдает перечни для формы и панели фильтров.
// Все перечни фиксированы в домене, база не нужна.
type GetDictionariesUseCase struct{}

func NewGetDictionariesUseCase() *GetDictionariesUseCase {
	return &GetDictionariesUseCase{}
}

func (uc *GetDictionariesUseCase) Execute(ctx context.Context) (domain.Dictionaries, error) {
	contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetDictionaries",
	}).Debug("Use case started", nil)

	return domain.BuildDictionaries(), nil
}
