package get_available_slots

import (
	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	"github.com/m04kA/SMC-ChatBookingService/internal/usecase/find_slots"
)

// SlotOfferResponse HTTP модель предложения слота
type SlotOfferResponse struct {
	ID              string `json:"id"`
	StaffID         int64  `json:"staffId"`
	ServiceID       *int64 `json:"serviceId,omitempty"`
	Date            string `json:"date"`      // "2025-10-15"
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
}

// SlotsResponse HTTP модель списка предложений
type SlotsResponse struct {
	BusinessID int64               `json:"businessId"`
	Offers     []SlotOfferResponse `json:"offers"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *find_slots.Response) *SlotsResponse {
	offers := make([]SlotOfferResponse, 0, len(resp.Offers))
	for _, offer := range resp.Offers {
		offers = append(offers, SlotOfferResponse{
			ID:              offer.ID,
			StaffID:         offer.StaffID,
			ServiceID:       offer.ServiceID,
			Date:            offer.Date.Format(domain.DateFormat),
			StartTime:       offer.StartTime.String(),
			DurationMinutes: offer.DurationMinutes,
		})
	}

	return &SlotsResponse{
		BusinessID: resp.BusinessID,
		Offers:     offers,
	}
}
