package rest

import (
	"net/http"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/port/usecases_port"
)

type DictionariesHandler struct {
	getDictionariesUC usecases_port.GetDictionariesUseCase
}

func NewDictionariesHandler(getDictionariesUC usecases_port.GetDictionariesUseCase) *DictionariesHandler {
	return &DictionariesHandler{getDictionariesUC: getDictionariesUC}
}

// GetDictionaries обрабатывает GET /api/v1/dictionaries
func (h *DictionariesHandler) GetDictionaries(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	d, err := h.getDictionariesUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, DictionariesResponse{
		PropertyTypes:     toDictionaryItems(d.PropertyTypes),
		OwnershipStatuses: toDictionaryItems(d.OwnershipStatuses),
		Amenities:         toDictionaryItems(d.Amenities),
		Infrastructure:    toDictionaryItems(d.Infrastructure),
		AreaMin:           d.AreaMin,
		AreaMax:           d.AreaMax,
		RoomThresholds:    d.RoomThresholds,
	})
}

// Health - проверка живости для оркестратора
func Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
