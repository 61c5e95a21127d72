package domain

// Default configuration values
const (
	DefaultSlotGranularityMinutes = 15
	DefaultServiceDurationMinutes = 30
	DefaultMaxOffers              = 5
	DefaultSessionTTLMinutes      = 30
	DefaultNotifyTTLMinutes       = 120
	DefaultLanguage               = "ru"
	DefaultLanguageConfidence     = 0.8
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 часов
	MaxBufferMinutes          = 120
	MaxScanWindowDays         = 62 // окно поиска слотов не длиннее двух месяцев
	MaxOffersPerPage          = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
