package find_slots

import (
	"time"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
)

// Request модель запроса на поиск доступных слотов
type Request struct {
	BusinessID int64      // ID бизнеса
	StaffID    *int64     // ID мастера (nil - любой активный мастер)
	ServiceID  *int64     // ID услуги (nil - длительность по умолчанию)
	FromDate   time.Time  // Начало окна поиска (включительно, без времени)
	ToDate     time.Time  // Конец окна поиска (включительно, без времени)
	MaxResults int        // Максимум предложений (0 - значение по умолчанию)
}

// Response модель ответа со списком предложений
// Предложения упорядочены строго по возрастанию времени начала;
// при равенстве - по возрастанию id мастера
type Response struct {
	BusinessID int64
	Offers     []domain.SlotOffer
}
